package memory

import (
	"context"
	"testing"

	"github.com/riskibarqy/fc24pred/internal/domain/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchRepository_ListReturnsCopy(t *testing.T) {
	t.Parallel()

	seed := []match.Record{{Team1: "Arsenal", Team2: "Chelsea", FulltimeScore1: 1}}
	repo := NewMatchRepository(seed)
	seed[0].Team1 = "mutated"

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Arsenal", items[0].Team1)

	items[0].Team1 = "mutated"
	again, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Arsenal", again[0].Team1)
}

func TestMatchRepository_Append(t *testing.T) {
	t.Parallel()

	repo := NewMatchRepository(nil)
	ctx := context.Background()
	require.NoError(t, repo.Append(ctx, match.Record{Team1: "Arsenal", Team2: "Chelsea"}))
	require.NoError(t, repo.Append(ctx, match.Record{Team1: "Fulham", Team2: "Brentford"}))

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Fulham", items[1].Team1)
}

func TestMatchRepository_AppendHonoursCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := NewMatchRepository(nil)
	assert.ErrorIs(t, repo.Append(ctx, match.Record{Team1: "Arsenal", Team2: "Chelsea"}), context.Canceled)
}

func TestMatchRepository_ListInvolving(t *testing.T) {
	t.Parallel()

	repo := NewMatchRepository([]match.Record{
		{Team1: "Arsenal", Team2: "Chelsea"},
		{Team1: "Fulham", Team2: "Brentford"},
		{Team1: "Everton", Team2: "Arsenal"},
		{Team1: "Arsenal", Team2: "Burnley"},
	})

	items, err := repo.ListInvolving(context.Background(), "Arsenal", 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Everton", items[0].Team1)
	assert.Equal(t, "Burnley", items[1].Team2)
}
