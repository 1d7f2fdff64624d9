package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/riskibarqy/fc24pred/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"
)

func TestShouldTraceRequest(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{
		"/healthz":                 false,
		" /HEALTHZ ":               false,
		"/readyz":                  false,
		"/v1/matches":              true,
		"/v1/predictions":          true,
		"/v1/teams/arsenal/recent": true,
		"/docs":                    true,
	}
	for path, want := range cases {
		assert.Equal(t, want, shouldTraceRequest(path), "path %q", path)
	}
}

func TestStartSpan_NeedsRequestSpan(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	got, span := startSpan(ctx, "httpapi.Handler.CreatePrediction")
	assert.Equal(t, ctx, got)
	assert.False(t, span.SpanContext().IsValid())
	span.End()

	parent := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x0f, 0xc2, 0x4a},
		SpanID:     trace.SpanID{0x01},
		TraceFlags: trace.FlagsSampled,
	})
	_, span = startSpan(trace.ContextWithSpanContext(ctx, parent), "httpapi.Handler.CreatePrediction")
	defer span.End()
	assert.Equal(t, parent.TraceID(), span.SpanContext().TraceID())
}

func TestRequestLogging_PassesStatusThrough(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	rec := httptest.NewRecorder()
	RequestLogging(logging.NewNop(), next).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/matches", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
}
