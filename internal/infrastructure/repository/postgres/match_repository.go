package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fc24pred/internal/domain/match"
	qb "github.com/riskibarqy/fc24pred/internal/platform/querybuilder"
)

const matchResultsTable = "match_results"

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Record, error) {
	query, args, err := qb.Select(
		"id", "team1", "team2",
		"score1_ht", "score2_ht", "score1_ft", "score2_ft",
		"created_at",
	).From(matchResultsTable).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select match results query: %w", err)
	}

	var rows []matchResultTableModel
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if isRetryableStatementError(err) {
		rows = rows[:0]
		err = r.db.SelectContext(ctx, &rows, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("select match results: %w", err)
	}

	out := make([]match.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

// ListInvolving selects the team's latest n results newest first and
// returns them oldest first.
func (r *MatchRepository) ListInvolving(ctx context.Context, team string, n int) ([]match.Record, error) {
	if n <= 0 {
		return []match.Record{}, nil
	}

	query, args, err := qb.Select(
		"id", "team1", "team2",
		"score1_ht", "score2_ht", "score1_ft", "score2_ft",
		"created_at",
	).From(matchResultsTable).
		Where(qb.Or(qb.Eq("team1", team), qb.Eq("team2", team))).
		OrderBy("id DESC").
		Limit(n).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select team match results query: %w", err)
	}

	var rows []matchResultTableModel
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if isRetryableStatementError(err) {
		rows = rows[:0]
		err = r.db.SelectContext(ctx, &rows, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("select team match results: %w", err)
	}

	out := make([]match.Record, len(rows))
	for i, row := range rows {
		out[len(rows)-1-i] = row.toDomain()
	}

	return out, nil
}

func (r *MatchRepository) Append(ctx context.Context, record match.Record) error {
	insertModel := matchResultInsertModel{
		Team1:          record.Team1,
		Team2:          record.Team2,
		HalftimeScore1: record.HalftimeScore1,
		HalftimeScore2: record.HalftimeScore2,
		FulltimeScore1: record.FulltimeScore1,
		FulltimeScore2: record.FulltimeScore2,
	}

	query, args, err := qb.InsertModel(matchResultsTable, insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert match result query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert match result: %w", err)
	}

	return nil
}

func (m matchResultTableModel) toDomain() match.Record {
	return match.Record{
		Team1:          m.Team1,
		Team2:          m.Team2,
		HalftimeScore1: m.HalftimeScore1,
		HalftimeScore2: m.HalftimeScore2,
		FulltimeScore1: m.FulltimeScore1,
		FulltimeScore2: m.FulltimeScore2,
	}
}
