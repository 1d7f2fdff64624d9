package usecase

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/riskibarqy/fc24pred/internal/domain/forecast"
	"github.com/riskibarqy/fc24pred/internal/domain/match"
	"github.com/riskibarqy/fc24pred/internal/domain/team"
	"github.com/riskibarqy/fc24pred/internal/platform/cache"
	"github.com/riskibarqy/fc24pred/internal/platform/learn"
	"github.com/riskibarqy/fc24pred/internal/platform/logging"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultMinHistory = 10

	halftimeScoreMax = 1
	fulltimeScoreMax = 3
)

// ScoreDrawer picks a uniform integer in [0, n). *rand.Rand satisfies it.
type ScoreDrawer interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

type PredictionConfig struct {
	MinHistory   int
	FormWindow   int
	CacheEnabled bool
	CacheTTL     time.Duration
	Ensemble     learn.EnsembleConfig
}

// Model is a classifier fitted on one history snapshot.
type Model struct {
	classifier  learn.Classifier
	rows        int
	fingerprint uint64
	trainedAt   time.Time
}

func (m *Model) Rows() int {
	return m.rows
}

func (m *Model) Classes() []string {
	return m.classifier.Classes()
}

func (m *Model) Fingerprint() uint64 {
	return m.fingerprint
}

func (m *Model) TrainedAt() time.Time {
	return m.trainedAt
}

type PredictionService struct {
	repo          match.Repository
	cfg           PredictionConfig
	logger        *logging.Logger
	scores        ScoreDrawer
	models        *cache.Store[*Model]
	newClassifier learn.Factory
	now           func() time.Time
}

func NewPredictionService(repo match.Repository, cfg PredictionConfig, logger *logging.Logger) *PredictionService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.MinHistory <= 0 {
		cfg.MinHistory = DefaultMinHistory
	}
	if cfg.FormWindow <= 0 {
		cfg.FormWindow = forecast.DefaultFormWindow
	}

	s := &PredictionService{
		repo:   repo,
		cfg:    cfg,
		logger: logger,
		scores: globalRand{},
		now:    time.Now,
	}
	s.newClassifier = func() learn.Classifier {
		return learn.NewEnsemble(s.cfg.Ensemble)
	}
	if cfg.CacheEnabled {
		s.models = cache.NewStore[*Model](cfg.CacheTTL)
	}

	return s
}

// WithScoreDrawer replaces the source of the cosmetic score guesses.
func (s *PredictionService) WithScoreDrawer(d ScoreDrawer) *PredictionService {
	if d != nil {
		s.scores = d
	}
	return s
}

// LoadAndTrain fits a fresh model on history. It returns a nil model and no
// error when history is too short to train on. Team names are taken from the
// records as stored.
func (s *PredictionService) LoadAndTrain(ctx context.Context, history match.History) (*Model, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.LoadAndTrain",
		attribute.Int("fc24pred.history.matches", len(history)),
	)
	defer span.End()

	if len(history) < s.cfg.MinHistory {
		s.logger.WarnContext(ctx, "not enough history to train",
			"matches", len(history),
			"required", s.cfg.MinHistory,
		)
		return nil, nil
	}

	if s.models == nil {
		return s.train(ctx, history, 0)
	}

	fingerprint := historyFingerprint(history, s.cfg.FormWindow)
	key := "model:" + strconv.FormatUint(fingerprint, 16)
	model, err := s.models.GetOrLoad(ctx, key, func(ctx context.Context) (*Model, error) {
		return s.train(ctx, history, fingerprint)
	})
	if err != nil {
		return nil, err
	}

	return model, nil
}

func (s *PredictionService) train(ctx context.Context, history match.History, fingerprint uint64) (*Model, error) {
	started := s.now()
	set := forecast.BuildTrainingSet(history, s.cfg.FormWindow)
	if set.Len() == 0 {
		return nil, fmt.Errorf("%w: no usable training rows", ErrInsufficientData)
	}

	classifier := s.newClassifier()
	if err := classifier.Fit(set.Features, set.Labels); err != nil {
		return nil, fmt.Errorf("fit outcome model: %w", err)
	}

	model := &Model{
		classifier:  classifier,
		rows:        set.Len(),
		fingerprint: fingerprint,
		trainedAt:   started,
	}
	s.logger.InfoContext(ctx, "outcome model trained",
		"rows", set.Len(),
		"skipped", set.Skipped,
		"classes", classifier.Classes(),
		"duration", s.now().Sub(started),
	)

	return model, nil
}

// Predict scores teamA against teamB using the whole history. A nil model
// yields ErrInsufficientData. Roster keys such as "ars" are mapped onto the
// stored club name; anything else is matched against history as given.
func (s *PredictionService) Predict(ctx context.Context, teamA, teamB string, history match.History, model *Model) (forecast.Prediction, error) {
	_, span := startUsecaseSpan(ctx, "usecase.PredictionService.Predict", matchupAttributes(teamA, teamB)...)
	defer span.End()

	if model == nil {
		return forecast.Prediction{}, fmt.Errorf("%w: %d of %d matches recorded", ErrInsufficientData, len(history), s.cfg.MinHistory)
	}
	teamA, teamB = canonicalName(teamA), canonicalName(teamB)
	if teamA == "" || teamB == "" {
		return forecast.Prediction{}, fmt.Errorf("%w: team1 and team2 are required", ErrInvalidInput)
	}

	features := forecast.BuildFeaturesWindow(history, teamA, teamB, s.cfg.FormWindow)
	label, proba := learn.Predict(model.classifier, features.Values())

	return forecast.Prediction{
		Team1:      teamA,
		Team2:      teamB,
		HTScore:    s.drawScore(halftimeScoreMax),
		FTScore:    s.drawScore(fulltimeScoreMax),
		Issue:      match.Outcome(label),
		IssueProba: roundTo(proba*100, 2),
		Last5Team1: history.LastN(teamA, s.cfg.FormWindow),
		Last5Team2: history.LastN(teamB, s.cfg.FormWindow),
		Comparison: features,
	}, nil
}

// PredictFromStore reads the stored history, trains and predicts in one go.
func (s *PredictionService) PredictFromStore(ctx context.Context, rawTeam1, rawTeam2 string) (forecast.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.PredictFromStore", matchupAttributes(rawTeam1, rawTeam2)...)
	defer span.End()

	team1, team2, err := resolveMatchup(rawTeam1, rawTeam2)
	if err != nil {
		return forecast.Prediction{}, err
	}

	items, err := s.repo.List(ctx)
	if err != nil {
		return forecast.Prediction{}, fmt.Errorf("%w: list matches: %v", ErrDependencyUnavailable, err)
	}
	history := match.History(items)

	model, err := s.LoadAndTrain(ctx, history)
	if err != nil {
		return forecast.Prediction{}, fmt.Errorf("train outcome model: %w", err)
	}

	return s.Predict(ctx, team1.Name, team2.Name, history, model)
}

func canonicalName(raw string) string {
	if item, ok := team.Lookup(raw); ok {
		return item.Name
	}
	return strings.TrimSpace(raw)
}

func (s *PredictionService) drawScore(max int) string {
	return strconv.Itoa(s.scores.IntN(max+1)) + "-" + strconv.Itoa(s.scores.IntN(max+1))
}

// historyFingerprint hashes the snapshot in order, so appends and reorders
// both change the key.
func historyFingerprint(history match.History, window int) uint64 {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	buf.B = strconv.AppendInt(buf.B, int64(window), 10)
	for _, item := range history {
		buf.B = append(buf.B, 0x1e)
		buf.B = append(buf.B, item.Team1...)
		buf.B = append(buf.B, 0x1f)
		buf.B = append(buf.B, item.Team2...)
		for _, score := range [...]int{item.HalftimeScore1, item.HalftimeScore2, item.FulltimeScore1, item.FulltimeScore2} {
			buf.B = append(buf.B, 0x1f)
			buf.B = strconv.AppendInt(buf.B, int64(score), 10)
		}
	}

	return xxhash.Sum64(buf.B)
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
