package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/fc24pred/internal/domain/team"
	"github.com/riskibarqy/fc24pred/internal/platform/logging"
	"github.com/riskibarqy/fc24pred/internal/usecase"
)

type Handler struct {
	matchService      *usecase.MatchService
	predictionService *usecase.PredictionService
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	matchService *usecase.MatchService,
	predictionService *usecase.PredictionService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		matchService:      matchService,
		predictionService: predictionService,
		logger:            logger,
		validator:         newValidator(),
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("roster", func(fl validator.FieldLevel) bool {
		_, ok := team.Lookup(fl.Field().String())
		return ok
	})
	return v
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	teams := h.matchService.Teams(ctx)
	items := make([]teamDTO, 0, len(teams))
	for _, item := range teams {
		items = append(items, teamToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	history, err := h.matchService.History(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchesToDTO(history))
}

func (h *Handler) RecordMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordMatch")
	defer span.End()

	var req recordMatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	record, err := h.matchService.Record(ctx, usecase.RecordMatchInput{
		Team1:          req.Team1,
		Team2:          req.Team2,
		HalftimeScore1: req.Score1HT,
		HalftimeScore2: req.Score2HT,
		FulltimeScore1: req.Score1FT,
		FulltimeScore2: req.Score2FT,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record match failed", "team1", req.Team1, "team2", req.Team2, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "match recorded",
		"team1", record.Team1,
		"team2", record.Team2,
		"fulltime", record.FulltimeLine(),
	)
	writeSuccess(ctx, w, http.StatusCreated, matchToDTO(record))
}

func (h *Handler) GetTeamRecent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamRecent")
	defer span.End()

	teamKey := strings.TrimSpace(r.PathValue("team"))
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: limit must be an integer", usecase.ErrInvalidInput))
			return
		}
		if parsed <= 0 {
			writeError(ctx, w, fmt.Errorf("%w: limit must be positive", usecase.ErrInvalidInput))
			return
		}
		limit = parsed
	}

	recent, err := h.matchService.RecentForm(ctx, teamKey, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "get team recent failed", "team", teamKey, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamRecentDTO{
		Team:    teamToDTO(recent.Team),
		Matches: matchesToDTO(recent.Matches),
		Form:    formToDTO(recent.Form),
	})
}

func (h *Handler) CreatePrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreatePrediction")
	defer span.End()

	var req predictionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	prediction, err := h.predictionService.PredictFromStore(ctx, req.Team1, req.Team2)
	if errors.Is(err, usecase.ErrInsufficientData) {
		h.logger.WarnContext(ctx, "prediction not ready", "team1", req.Team1, "team2", req.Team2, "error", err)
		writeSuccess(ctx, w, http.StatusOK, predictionDTO{
			Ready: false,
			Error: usecase.ErrInsufficientData.Error(),
		})
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "prediction failed", "team1", req.Team1, "team2", req.Team2, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, predictionToDTO(prediction))
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}
