package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/fc24pred/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) googleResponseEnvelope {
	t.Helper()

	var env googleResponseEnvelope
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func TestWriteSuccess_Envelope(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusCreated, map[string]string{"team1": "Arsenal"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	env := decodeEnvelope(t, rec)
	assert.Equal(t, googleAPIVersion, env.APIVersion)
	assert.Equal(t, map[string]any{"team1": "Arsenal"}, env.Data)
	assert.Nil(t, env.Error)
}

func TestWriteError_MapsUsecaseErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		err    error
		code   int
		status string
		domain string
		reason string
	}{
		{"bad score", fmt.Errorf("%w: score1_ft must be between 0 and 10", usecase.ErrInvalidInput), http.StatusBadRequest, "INVALID_ARGUMENT", "fc24pred.request", "invalidInput"},
		{"unknown club", fmt.Errorf("%w: team=Atlantis", usecase.ErrNotFound), http.StatusNotFound, "NOT_FOUND", "fc24pred.teams", "unknownTeam"},
		{"short history", fmt.Errorf("%w: 3 of 10 matches recorded", usecase.ErrInsufficientData), http.StatusUnprocessableEntity, "FAILED_PRECONDITION", "fc24pred.predictions", "insufficientHistory"},
		{"store down", fmt.Errorf("%w: list matches", usecase.ErrDependencyUnavailable), http.StatusServiceUnavailable, "UNAVAILABLE", "fc24pred.storage", "storageUnavailable"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			writeError(context.Background(), rec, tc.err)

			assert.Equal(t, tc.code, rec.Code)
			env := decodeEnvelope(t, rec)
			require.NotNil(t, env.Error)
			assert.Equal(t, tc.code, env.Error.Code)
			assert.Equal(t, tc.status, env.Error.Status)
			assert.Equal(t, tc.err.Error(), env.Error.Message)
			require.Len(t, env.Error.Errors, 1)
			assert.Equal(t, tc.domain, env.Error.Errors[0].Domain)
			assert.Equal(t, tc.reason, env.Error.Errors[0].Reason)
		})
	}
}

func TestWriteError_StorageOutageAsksForRetry(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, usecase.ErrDependencyUnavailable)
	assert.Equal(t, storageRetryAfter, rec.Header().Get("Retry-After"))

	rec = httptest.NewRecorder()
	writeError(context.Background(), rec, usecase.ErrInvalidInput)
	assert.Empty(t, rec.Header().Get("Retry-After"))
}

func TestWriteError_HidesUnmappedErrors(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, errors.New("pq: password authentication failed for user fc24pred"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INTERNAL", env.Error.Status)
	assert.Equal(t, internalMessage, env.Error.Message)
	assert.NotContains(t, rec.Body.String(), "password")
}
