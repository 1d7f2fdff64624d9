package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/fc24pred/internal/config"
	"github.com/riskibarqy/fc24pred/internal/platform/logging"
	"github.com/riskibarqy/fc24pred/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		AppEnv:               config.EnvDev,
		HTTPAddr:             ":0",
		CORSAllowedOrigins:   []string{"*"},
		StorageDriver:        config.StorageMemory,
		ResultsCSVPath:       filepath.Join(t.TempDir(), "results.csv"),
		CacheEnabled:         true,
		CacheTTL:             time.Minute,
		PredictionMinHistory: 10,
		PredictionFormWindow: 5,
		ModelSeed:            42,
		ModelForestTrees:     10,
		ModelCVFolds:         3,
		ModelWorkers:         2,
	}
}

func TestNewServices_CSVStoreRoundTrip(t *testing.T) {
	cfg := testConfig(t)
	cfg.StorageDriver = config.StorageCSV

	services, err := NewServices(cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = services.Close() })

	_, err = services.Matches.Record(context.Background(), usecase.RecordMatchInput{
		Team1:          "Arsenal",
		Team2:          "Chelsea",
		FulltimeScore1: 2,
	})
	require.NoError(t, err)

	// A second stack over the same file sees the appended row.
	reopened, err := NewServices(cfg, logging.NewNop())
	require.NoError(t, err)
	history, err := reopened.Matches.History(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Arsenal", history[0].Team1)
}

func TestNewServices_UnknownDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.StorageDriver = "sqlite"

	_, err := NewServices(cfg, logging.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported storage driver")
}

func TestNewHTTPServer_ServesHealthz(t *testing.T) {
	cfg := testConfig(t)
	services, err := NewServices(cfg, logging.NewNop())
	require.NoError(t, err)

	srv, err := NewHTTPServer(cfg, services, logging.NewNop())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	body := strings.NewReader(`{"team1":"Arsenal","team2":"Chelsea"}`)
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/predictions", body))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ready":false`)
}

func TestNewHTTPServer_RequiresAddr(t *testing.T) {
	cfg := testConfig(t)
	cfg.HTTPAddr = ""
	services, err := NewServices(cfg, logging.NewNop())
	require.NoError(t, err)

	_, err = NewHTTPServer(cfg, services, logging.NewNop())
	assert.Error(t, err)
}
