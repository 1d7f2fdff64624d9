package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/fc24pred/internal/domain/match"
	"github.com/riskibarqy/fc24pred/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fc24pred/internal/platform/learn"
	"github.com/riskibarqy/fc24pred/internal/platform/logging"
	"github.com/riskibarqy/fc24pred/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope[T any] struct {
	APIVersion string           `json:"apiVersion"`
	Data       T                `json:"data"`
	Error      *googleErrorBody `json:"error"`
}

func newTestRouter(t *testing.T, seed []match.Record) http.Handler {
	t.Helper()

	repo := memory.NewMatchRepository(seed)
	logger := logging.NewNop()
	predictions := usecase.NewPredictionService(repo, usecase.PredictionConfig{
		MinHistory: usecase.DefaultMinHistory,
		FormWindow: 5,
		Ensemble:   learn.EnsembleConfig{Seed: 7, Trees: 10, Folds: 3, Workers: 2},
	}, logger)
	handler := NewHandler(usecase.NewMatchService(repo), predictions, logger)

	return NewRouter(handler, logger, true, []string{"*"})
}

func seededHistory() []match.Record {
	clubs := []string{"Arsenal", "Chelsea", "Liverpool", "Everton", "Fulham"}
	out := make([]match.Record, 0, 15)
	for i := 0; i < 15; i++ {
		out = append(out, match.Record{
			Team1:          clubs[i%len(clubs)],
			Team2:          clubs[(i+2)%len(clubs)],
			HalftimeScore1: i % 2,
			FulltimeScore1: (i * 7) % 4,
			FulltimeScore2: (i * 5) % 3,
		})
	}
	return out
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()

	var out envelope[T]
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHandler_Healthz(t *testing.T) {
	t.Parallel()

	rec := do(t, newTestRouter(t, nil), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, rec).Data["status"])
}

func TestHandler_ListTeams(t *testing.T) {
	t.Parallel()

	rec := do(t, newTestRouter(t, nil), http.MethodGet, "/v1/teams", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[[]teamDTO](t, rec)
	require.Len(t, body.Data, 20)
	assert.Equal(t, "Arsenal", body.Data[0].Name)
}

func TestHandler_RecordAndListMatches(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil)
	rec := do(t, router, http.MethodPost, "/v1/matches",
		`{"team1":"Arsenal","team2":"Chelsea","score1_ht":1,"score2_ht":0,"score1_ft":2,"score2_ft":1}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "win", decode[matchDTO](t, rec).Data.Result)

	rec = do(t, router, http.MethodGet, "/v1/matches", "")
	require.Equal(t, http.StatusOK, rec.Code)
	items := decode[[]matchDTO](t, rec).Data
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Score1FT)
}

func TestHandler_RecordMatch_Validation(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"same team":     `{"team1":"Arsenal","team2":"Arsenal"}`,
		"unknown team":  `{"team1":"Arsenal","team2":"Real Madrid"}`,
		"score too big": `{"team1":"Arsenal","team2":"Chelsea","score1_ft":11}`,
		"negative":      `{"team1":"Arsenal","team2":"Chelsea","score2_ht":-1}`,
		"unknown field": `{"team1":"Arsenal","team2":"Chelsea","venue":"Emirates"}`,
		"bad json":      `{"team1":`,
	}

	router := newTestRouter(t, nil)
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, "/v1/matches", body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

			env := decode[any](t, rec)
			require.NotNil(t, env.Error)
			assert.Equal(t, "INVALID_ARGUMENT", env.Error.Status)
		})
	}

	rec := do(t, router, http.MethodGet, "/v1/matches", "")
	assert.Empty(t, decode[[]matchDTO](t, rec).Data)
}

func TestHandler_GetTeamRecent(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, seededHistory())

	rec := do(t, router, http.MethodGet, "/v1/teams/ARS/recent?limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[teamRecentDTO](t, rec).Data
	assert.Equal(t, "Arsenal", body.Team.Name)
	assert.Len(t, body.Matches, 2)
	assert.Equal(t, 2, body.Form.MatchesPlayed)

	rec = do(t, router, http.MethodGet, "/v1/teams/arsenal/recent?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodGet, "/v1/teams/atlantis/recent", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_CreatePrediction_NotReady(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, seededHistory()[:4])
	rec := do(t, router, http.MethodPost, "/v1/predictions", `{"team1":"Arsenal","team2":"Chelsea"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[predictionDTO](t, rec)
	assert.Nil(t, body.Error)
	assert.False(t, body.Data.Ready)
	assert.Equal(t, "not enough data to predict", body.Data.Error)
}

func TestHandler_CreatePrediction(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, seededHistory())
	rec := do(t, router, http.MethodPost, "/v1/predictions", `{"team1":"Arsenal","team2":"Liverpool"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[predictionDTO](t, rec).Data
	assert.True(t, body.Ready)
	assert.Contains(t, []string{"win", "lose", "draw"}, body.Issue)
	assert.GreaterOrEqual(t, body.IssueProba, 0.0)
	assert.LessOrEqual(t, body.IssueProba, 100.0)
	assert.Regexp(t, `^[01]-[01]$`, body.HTScore)
	assert.Regexp(t, `^[0-3]-[0-3]$`, body.FTScore)
	require.NotNil(t, body.Comparison)
	assert.Len(t, body.Comparison.Features, 8)
	assert.Equal(t, "team1_avg_goals_for", body.Comparison.Features[0].Name)
	assert.NotEmpty(t, body.Last5Team1)
}

func TestHandler_CreatePrediction_SameTeam(t *testing.T) {
	t.Parallel()

	rec := do(t, newTestRouter(t, seededHistory()), http.MethodPost, "/v1/predictions", `{"team1":"Chelsea","team2":"Chelsea"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_SwaggerToggle(t *testing.T) {
	t.Parallel()

	logger := logging.NewNop()
	handler := NewHandler(nil, nil, logger)

	enabled := NewRouter(handler, logger, true, nil)
	rec := do(t, enabled, http.MethodGet, "/openapi.yaml", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/v1/predictions")

	disabled := NewRouter(handler, logger, false, nil)
	rec = do(t, disabled, http.MethodGet, "/docs", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecoverPanic(t *testing.T) {
	t.Parallel()

	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/matches", nil).WithContext(context.Background())

	recoverPanic(logging.NewNop(), panicking).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL", decode[any](t, rec).Error.Status)
}

func TestNormalizeIP(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "10.0.0.1", normalizeIP("10.0.0.1, 172.16.0.1"))
	assert.Equal(t, "192.0.2.1", normalizeIP("192.0.2.1:5123"))
	assert.Equal(t, "", normalizeIP("not-an-ip"))
}
