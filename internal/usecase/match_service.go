package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/fc24pred/internal/domain/forecast"
	"github.com/riskibarqy/fc24pred/internal/domain/match"
	"github.com/riskibarqy/fc24pred/internal/domain/team"
	"go.opentelemetry.io/otel/attribute"
)

const (
	MaxScore         = 10
	maxRecentLimit   = 50
	defaultRecentLen = forecast.DefaultFormWindow
)

type RecordMatchInput struct {
	Team1          string
	Team2          string
	HalftimeScore1 int
	HalftimeScore2 int
	FulltimeScore1 int
	FulltimeScore2 int
}

type TeamRecent struct {
	Team    team.Team
	Matches []match.Record
	Form    forecast.TeamForm
}

type MatchService struct {
	repo match.Repository
}

func NewMatchService(repo match.Repository) *MatchService {
	return &MatchService{repo: repo}
}

func (s *MatchService) Teams(ctx context.Context) []team.Team {
	_, span := startUsecaseSpan(ctx, "usecase.MatchService.Teams")
	defer span.End()

	return team.Roster()
}

func (s *MatchService) Record(ctx context.Context, input RecordMatchInput) (match.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Record", matchupAttributes(input.Team1, input.Team2)...)
	defer span.End()

	team1, team2, err := resolveMatchup(input.Team1, input.Team2)
	if err != nil {
		return match.Record{}, err
	}

	record := match.Record{
		Team1:          team1.Name,
		Team2:          team2.Name,
		HalftimeScore1: input.HalftimeScore1,
		HalftimeScore2: input.HalftimeScore2,
		FulltimeScore1: input.FulltimeScore1,
		FulltimeScore2: input.FulltimeScore2,
	}
	if err := record.Validate(); err != nil {
		return match.Record{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	scores := []struct {
		name  string
		value int
	}{
		{"score1_ht", record.HalftimeScore1},
		{"score2_ht", record.HalftimeScore2},
		{"score1_ft", record.FulltimeScore1},
		{"score2_ft", record.FulltimeScore2},
	}
	for _, score := range scores {
		if score.value > MaxScore {
			return match.Record{}, fmt.Errorf("%w: %s must be between 0 and %d", ErrInvalidInput, score.name, MaxScore)
		}
	}

	if err := s.repo.Append(ctx, record); err != nil {
		return match.Record{}, fmt.Errorf("append match: %w", err)
	}

	return record, nil
}

func (s *MatchService) History(ctx context.Context) (match.History, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.History")
	defer span.End()

	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	return match.History(items), nil
}

// RecentForm returns the last n matches of a club, oldest first, with the
// averages the predictor would compute over them.
func (s *MatchService) RecentForm(ctx context.Context, teamKey string, n int) (TeamRecent, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.RecentForm",
		attribute.String("fc24pred.team", teamKey),
		attribute.Int("fc24pred.limit", n),
	)
	defer span.End()

	if n == 0 {
		n = defaultRecentLen
	}
	if n < 0 || n > maxRecentLimit {
		return TeamRecent{}, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidInput, maxRecentLimit)
	}

	item, ok := team.Lookup(teamKey)
	if !ok {
		return TeamRecent{}, fmt.Errorf("%w: team=%s", ErrNotFound, strings.TrimSpace(teamKey))
	}

	recent, err := s.recentMatches(ctx, item.Name, n)
	if err != nil {
		return TeamRecent{}, err
	}

	return TeamRecent{
		Team:    item,
		Matches: recent,
		Form:    forecast.FormOf(recent, item.Name, n),
	}, nil
}

// recentMatches lets the store filter by team when it can, instead of
// shipping the whole log.
func (s *MatchService) recentMatches(ctx context.Context, name string, n int) (match.History, error) {
	if lister, ok := s.repo.(match.RecentLister); ok {
		items, err := lister.ListInvolving(ctx, name, n)
		if err != nil {
			return nil, fmt.Errorf("list recent matches: %w", err)
		}
		return match.History(items), nil
	}

	history, err := s.History(ctx)
	if err != nil {
		return nil, err
	}
	return history.LastN(name, n), nil
}

// resolveMatchup maps user input onto roster clubs and rejects a club
// playing itself.
func resolveMatchup(rawTeam1, rawTeam2 string) (team.Team, team.Team, error) {
	if strings.TrimSpace(rawTeam1) == "" || strings.TrimSpace(rawTeam2) == "" {
		return team.Team{}, team.Team{}, fmt.Errorf("%w: team1 and team2 are required", ErrInvalidInput)
	}

	team1, ok := team.Lookup(rawTeam1)
	if !ok {
		return team.Team{}, team.Team{}, fmt.Errorf("%w: unknown team1 %q", ErrInvalidInput, rawTeam1)
	}
	team2, ok := team.Lookup(rawTeam2)
	if !ok {
		return team.Team{}, team.Team{}, fmt.Errorf("%w: unknown team2 %q", ErrInvalidInput, rawTeam2)
	}
	if team1.ID == team2.ID {
		return team.Team{}, team.Team{}, fmt.Errorf("%w: team2 must differ from team1", ErrInvalidInput)
	}

	return team1, team2, nil
}
