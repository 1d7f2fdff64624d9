package app

import (
	"fmt"
	"io"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/fc24pred/internal/config"
	"github.com/riskibarqy/fc24pred/internal/domain/match"
	matchcache "github.com/riskibarqy/fc24pred/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/fc24pred/internal/infrastructure/repository/csvfile"
	"github.com/riskibarqy/fc24pred/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fc24pred/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/fc24pred/internal/interfaces/httpapi"
	"github.com/riskibarqy/fc24pred/internal/platform/cache"
	"github.com/riskibarqy/fc24pred/internal/platform/learn"
	"github.com/riskibarqy/fc24pred/internal/platform/logging"
	"github.com/riskibarqy/fc24pred/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

// Services bundles the use cases shared by the HTTP API and the console.
type Services struct {
	Matches     *usecase.MatchService
	Predictions *usecase.PredictionService
	Storage     string

	closer io.Closer
}

func (s *Services) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// NewServices opens the configured match store and builds the use cases on top of it.
func NewServices(cfg config.Config, logger *logging.Logger) (*Services, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repo, closer, err := openMatchRepository(cfg, logger)
	if err != nil {
		return nil, err
	}

	predictions := usecase.NewPredictionService(repo, usecase.PredictionConfig{
		MinHistory:   cfg.PredictionMinHistory,
		FormWindow:   cfg.PredictionFormWindow,
		CacheEnabled: cfg.PredictionCacheEnabled,
		CacheTTL:     cfg.PredictionCacheTTL,
		Ensemble: learn.EnsembleConfig{
			Seed:    cfg.ModelSeed,
			Trees:   cfg.ModelForestTrees,
			Folds:   cfg.ModelCVFolds,
			Workers: cfg.ModelWorkers,
		},
	}, logger.Named("prediction"))

	return &Services{
		Matches:     usecase.NewMatchService(repo),
		Predictions: predictions,
		Storage:     cfg.StorageDriver,
		closer:      closer,
	}, nil
}

func openMatchRepository(cfg config.Config, logger *logging.Logger) (match.Repository, io.Closer, error) {
	var (
		repo   match.Repository
		closer io.Closer
	)

	switch cfg.StorageDriver {
	case config.StorageCSV:
		store, err := csvfile.New(cfg.ResultsCSVPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open results csv: %w", err)
		}
		logger.Info("match store ready", "driver", cfg.StorageDriver, "path", store.Path())
		repo = store
	case config.StoragePostgres:
		db, err := openDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("match store ready", "driver", cfg.StorageDriver, "db_name", databaseName(cfg.DBURL))
		repo = postgres.NewMatchRepository(db)
		closer = db
	case config.StorageMemory:
		logger.Warn("match store is in-memory, results are lost on restart")
		repo = memory.NewMatchRepository(nil)
	default:
		return nil, nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}

	if cfg.CacheEnabled && cfg.StorageDriver != config.StorageMemory {
		repo = matchcache.NewMatchRepository(repo, cache.NewStore[[]match.Record](cfg.CacheTTL))
	}

	return repo, closer, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dbName := databaseName(cfg.DBURL)
	db, err := otelsqlx.Open(
		"postgres",
		PostgresURL(cfg),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbName),
		otelsql.WithQueryFormatter(traceableQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres %q: %w", dbName, err)
	}

	return db, nil
}

// NewHTTPServer wires the API router over services.
func NewHTTPServer(cfg config.Config, services *Services, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	handler := httpapi.NewHandler(services.Matches, services.Predictions, logger)
	router := httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}
