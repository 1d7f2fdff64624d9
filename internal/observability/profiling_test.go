package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/riskibarqy/fc24pred/internal/config"
	"github.com/riskibarqy/fc24pred/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartProfiling_Disabled(t *testing.T) {
	t.Parallel()

	p, err := StartProfiling(config.Config{}, logging.NewNop())
	require.NoError(t, err)
	assert.Nil(t, p.pyroscope)
	assert.Nil(t, p.pprof)
	require.NoError(t, p.Stop(context.Background()))

	var none *Profiling
	assert.NoError(t, none.Stop(context.Background()))
}

func TestPprofMux_ServesIndex(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	pprofMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	pprofMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/matches", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPyroscopeConfig_TagsModelSizing(t *testing.T) {
	t.Parallel()

	got := pyroscopeConfig(config.Config{
		PyroscopeAppName: "fc24pred-api",
		StorageDriver:    config.StorageCSV,
		ModelWorkers:     4,
		ModelForestTrees: 100,
	}, logging.NewNop())

	assert.Equal(t, "fc24pred-api", got.ApplicationName)
	assert.Equal(t, "csv", got.Tags["storage"])
	assert.Equal(t, "4", got.Tags["model_workers"])
	assert.Equal(t, "100", got.Tags["forest_trees"])
}
