package postgres

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/fc24pred/internal/domain/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres container tests are skipped in short mode")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("fc24pred"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	m, err := migrate.New("file://"+filepath.ToSlash(migrationsDir(t)), dsn)
	require.NoError(t, err)
	require.NoError(t, m.Up())
	srcErr, dbErr := m.Close()
	require.NoError(t, srcErr)
	require.NoError(t, dbErr)

	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func migrationsDir(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return filepath.Join(dir, "db", "migrations")
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find module root")
		}
		dir = parent
	}
}

func TestMatchRepository_AppendAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMatchRepository(db)
	ctx := context.Background()

	items, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	first := match.Record{Team1: "Arsenal", Team2: "Chelsea", HalftimeScore1: 1, FulltimeScore1: 2, FulltimeScore2: 1}
	second := match.Record{Team1: "Chelsea", Team2: "Arsenal", FulltimeScore1: 0, FulltimeScore2: 0}
	require.NoError(t, repo.Append(ctx, first))
	require.NoError(t, repo.Append(ctx, second))

	items, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []match.Record{first, second}, items)
}

func TestMatchRepository_RejectsSameTeam(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMatchRepository(db)

	err := repo.Append(context.Background(), match.Record{Team1: "Arsenal", Team2: "Arsenal"})
	assert.Error(t, err)
}

func TestMatchRepository_ListInvolving(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMatchRepository(db)
	ctx := context.Background()

	records := []match.Record{
		{Team1: "Arsenal", Team2: "Chelsea", FulltimeScore1: 2},
		{Team1: "Fulham", Team2: "Burnley", FulltimeScore1: 1, FulltimeScore2: 1},
		{Team1: "Chelsea", Team2: "Arsenal", FulltimeScore2: 3},
		{Team1: "Arsenal", Team2: "Everton", HalftimeScore1: 1, FulltimeScore1: 1},
	}
	for _, r := range records {
		require.NoError(t, repo.Append(ctx, r))
	}

	items, err := repo.ListInvolving(ctx, "Arsenal", 2)
	require.NoError(t, err)
	assert.Equal(t, []match.Record{records[2], records[3]}, items)

	items, err = repo.ListInvolving(ctx, "Burnley", 5)
	require.NoError(t, err)
	assert.Equal(t, []match.Record{records[1]}, items)

	items, err = repo.ListInvolving(ctx, "Liverpool", 5)
	require.NoError(t, err)
	assert.Empty(t, items)
}
