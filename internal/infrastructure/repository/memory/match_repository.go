package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/fc24pred/internal/domain/match"
)

type MatchRepository struct {
	mu      sync.RWMutex
	records []match.Record
}

func NewMatchRepository(seed []match.Record) *MatchRepository {
	return &MatchRepository{records: append([]match.Record(nil), seed...)}
}

func (r *MatchRepository) List(_ context.Context) ([]match.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Record, 0, len(r.records))
	out = append(out, r.records...)

	return out, nil
}

func (r *MatchRepository) Append(ctx context.Context, record match.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, record)
	return nil
}

func (r *MatchRepository) ListInvolving(_ context.Context, team string, n int) ([]match.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return match.History(r.records).LastN(team, n), nil
}
