package cache

import (
	"context"
	"strconv"
	"sync/atomic"

	"github.com/riskibarqy/fc24pred/internal/domain/match"
	basecache "github.com/riskibarqy/fc24pred/internal/platform/cache"
)

const (
	matchKeyPrefix  = "match:"
	matchListPrefix = matchKeyPrefix + "list:"
)

// MatchRepository serves List from memory until the next Append.
//
// Entries are keyed by a generation that Append bumps once the write has
// landed, so a load that started before the write can only ever fill a
// key no later List will read.
type MatchRepository struct {
	next  match.Repository
	cache *basecache.Store[[]match.Record]
	gen   atomic.Uint64
}

func NewMatchRepository(next match.Repository, cache *basecache.Store[[]match.Record]) *MatchRepository {
	return &MatchRepository{next: next, cache: cache}
}

func (r *MatchRepository) listKey() string {
	return matchListPrefix + strconv.FormatUint(r.gen.Load(), 10)
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Record, error) {
	items, err := r.cache.GetOrLoad(ctx, r.listKey(), func(ctx context.Context) ([]match.Record, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]match.Record(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	return append([]match.Record(nil), items...), nil
}

// ListInvolving defers to the wrapped store when it can filter by team and
// otherwise slices the cached log.
func (r *MatchRepository) ListInvolving(ctx context.Context, team string, n int) ([]match.Record, error) {
	if lister, ok := r.next.(match.RecentLister); ok {
		return lister.ListInvolving(ctx, team, n)
	}

	items, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return match.History(items).LastN(team, n), nil
}

func (r *MatchRepository) Append(ctx context.Context, record match.Record) error {
	if err := r.next.Append(ctx, record); err != nil {
		return err
	}

	r.gen.Add(1)
	r.cache.DeletePrefix(ctx, matchKeyPrefix)
	return nil
}
