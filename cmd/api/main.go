package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riskibarqy/fc24pred/internal/app"
	"github.com/riskibarqy/fc24pred/internal/config"
	"github.com/riskibarqy/fc24pred/internal/observability"
	"github.com/riskibarqy/fc24pred/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel).With("service", cfg.ServiceName, "env", cfg.AppEnv)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}

	profiling, err := observability.StartProfiling(cfg, logger)
	if err != nil {
		logger.Error("start profiling", "error", err)
		os.Exit(1)
	}

	services, err := app.NewServices(cfg, logger)
	if err != nil {
		logger.Error("build services", "error", err)
		os.Exit(1)
	}

	srv, err := app.NewHTTPServer(cfg, services, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}

	go func() {
		logger.Info("http server starting", "addr", cfg.HTTPAddr, "storage", services.Storage)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	if err := services.Close(); err != nil {
		logger.Error("close match store", "error", err)
	}
	if err := profiling.Stop(shutdownCtx); err != nil {
		logger.Error("stop profiling", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("shutdown uptrace", "error", err)
	}

	logger.Info("http server stopped")
}
