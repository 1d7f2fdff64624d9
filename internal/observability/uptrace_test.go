package observability

import (
	"context"
	"testing"

	"github.com/riskibarqy/fc24pred/internal/config"
	"github.com/riskibarqy/fc24pred/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestInitUptrace_Disabled(t *testing.T) {
	cfg := config.Config{
		UptraceEnabled: false,
		ServiceName:    "fc24pred-api",
		ServiceVersion: "dev",
		AppEnv:         config.EnvDev,
	}

	shutdown, err := InitUptrace(cfg, logging.NewNop())
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestUptraceDisabledReason(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "UPTRACE_ENABLED=false", uptraceDisabledReason(config.Config{UptraceDSN: "https://token@uptrace.dev/1"}))
	assert.Equal(t, "UPTRACE_DSN empty", uptraceDisabledReason(config.Config{UptraceEnabled: true, UptraceDSN: "  "}))
	assert.Empty(t, uptraceDisabledReason(config.Config{UptraceEnabled: true, UptraceDSN: "https://token@uptrace.dev/1"}))
}

func TestPredictorAttributes(t *testing.T) {
	t.Parallel()

	attrs := predictorAttributes(config.Config{
		StorageDriver:    config.StoragePostgres,
		CacheEnabled:     true,
		ModelForestTrees: 100,
		ModelSeed:        42,
	})

	byKey := make(map[attribute.Key]attribute.Value, len(attrs))
	for _, kv := range attrs {
		byKey[kv.Key] = kv.Value
	}
	assert.Equal(t, "postgres", byKey["fc24pred.storage.driver"].AsString())
	assert.True(t, byKey["fc24pred.storage.cache"].AsBool())
	assert.Equal(t, int64(100), byKey["fc24pred.model.forest_trees"].AsInt64())
	assert.Equal(t, int64(42), byKey["fc24pred.model.seed"].AsInt64())
}
