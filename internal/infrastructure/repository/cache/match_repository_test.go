package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/riskibarqy/fc24pred/internal/domain/match"
	"github.com/riskibarqy/fc24pred/internal/infrastructure/repository/memory"
	basecache "github.com/riskibarqy/fc24pred/internal/platform/cache"
	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRepository struct {
	match.Repository
	lists   int
	listErr error
}

func (r *countingRepository) List(ctx context.Context) ([]match.Record, error) {
	r.lists++
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.Repository.List(ctx)
}

// stallingRepository parks its first List after reading the snapshot, so a
// test can slip an Append in before the stale result is handed back.
type stallingRepository struct {
	match.Repository
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func newStallingRepository(next match.Repository) *stallingRepository {
	return &stallingRepository{
		Repository: next,
		entered:    make(chan struct{}),
		release:    make(chan struct{}),
	}
}

func (r *stallingRepository) List(ctx context.Context) ([]match.Record, error) {
	items, err := r.Repository.List(ctx)
	r.once.Do(func() {
		close(r.entered)
		<-r.release
	})
	return items, err
}

func TestMatchRepository_CachesListUntilAppend(t *testing.T) {
	t.Parallel()

	next := &countingRepository{Repository: memory.NewMatchRepository([]match.Record{
		{Team1: "Arsenal", Team2: "Chelsea", FulltimeScore1: 1},
	})}
	repo := NewMatchRepository(next, basecache.NewStore[[]match.Record](0))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		items, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	}
	assert.Equal(t, 1, next.lists)

	require.NoError(t, repo.Append(ctx, match.Record{Team1: "Fulham", Team2: "Brentford"}))

	items, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 2, next.lists)
}

func TestMatchRepository_ListErrorIsNotCached(t *testing.T) {
	t.Parallel()

	next := &countingRepository{
		Repository: memory.NewMatchRepository(nil),
		listErr:    errors.New("db down"),
	}
	repo := NewMatchRepository(next, basecache.NewStore[[]match.Record](0))

	_, err := repo.List(context.Background())
	require.Error(t, err)

	next.listErr = nil
	items, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 2, next.lists)
}

func TestMatchRepository_CallerCannotMutateCache(t *testing.T) {
	t.Parallel()

	repo := NewMatchRepository(
		memory.NewMatchRepository([]match.Record{{Team1: "Arsenal", Team2: "Chelsea"}}),
		basecache.NewStore[[]match.Record](0),
	)

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	items[0].Team1 = "mutated"

	again, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Arsenal", again[0].Team1)
}

func TestMatchRepository_LoadInFlightDuringAppendIsNotServedAfterwards(t *testing.T) {
	t.Parallel()

	next := newStallingRepository(memory.NewMatchRepository([]match.Record{
		{Team1: "Fulham", Team2: "Brentford", FulltimeScore1: 1},
	}))
	repo := NewMatchRepository(next, basecache.NewStore[[]match.Record](0))
	ctx := context.Background()

	stale := make(chan []match.Record, 1)
	go func() {
		items, err := repo.List(ctx)
		assert.NoError(t, err)
		stale <- items
	}()

	<-next.entered
	require.NoError(t, repo.Append(ctx, match.Record{Team1: "Arsenal", Team2: "Chelsea", FulltimeScore1: 2}))
	close(next.release)
	assert.Len(t, <-stale, 1)

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Arsenal", items[1].Team1)
}

func TestMatchRepository_ConcurrentAppendAndList(t *testing.T) {
	t.Parallel()

	const writers = 20
	repo := NewMatchRepository(memory.NewMatchRepository(nil), basecache.NewStore[[]match.Record](0))
	ctx := context.Background()

	var wg conc.WaitGroup
	for i := 0; i < writers; i++ {
		home := fmt.Sprintf("Club %02d", i)
		wg.Go(func() {
			assert.NoError(t, repo.Append(ctx, match.Record{Team1: home, Team2: "Chelsea"}))
		})
		wg.Go(func() {
			items, err := repo.List(ctx)
			assert.NoError(t, err)
			assert.LessOrEqual(t, len(items), writers)
		})
	}
	wg.Wait()

	items, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, writers)
}

func TestMatchRepository_ListInvolving(t *testing.T) {
	t.Parallel()

	records := []match.Record{
		{Team1: "Arsenal", Team2: "Chelsea"},
		{Team1: "Fulham", Team2: "Brentford"},
		{Team1: "Everton", Team2: "Arsenal"},
	}

	t.Run("wrapped store filters", func(t *testing.T) {
		t.Parallel()

		repo := NewMatchRepository(memory.NewMatchRepository(records), basecache.NewStore[[]match.Record](0))

		items, err := repo.ListInvolving(context.Background(), "Arsenal", 5)
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("falls back to the cached log", func(t *testing.T) {
		t.Parallel()

		next := &countingRepository{Repository: memory.NewMatchRepository(records)}
		repo := NewMatchRepository(next, basecache.NewStore[[]match.Record](0))

		items, err := repo.ListInvolving(context.Background(), "Arsenal", 1)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Everton", items[0].Team1)

		_, err = repo.ListInvolving(context.Background(), "Fulham", 1)
		require.NoError(t, err)
		assert.Equal(t, 1, next.lists)
	})
}
