package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/pprof"
	"strconv"
	"time"

	"github.com/grafana/pyroscope-go"
	"github.com/riskibarqy/fc24pred/internal/config"
	"github.com/riskibarqy/fc24pred/internal/platform/logging"
)

// Profiling owns the continuous profiler and the pprof side port. Either
// may be absent when disabled.
type Profiling struct {
	logger    *logging.Logger
	pyroscope *pyroscope.Profiler
	pprof     *http.Server
}

// StartProfiling starts whatever the config enables. Model training is CPU
// bound, so CPU and allocation profiles are the ones pushed to pyroscope.
func StartProfiling(cfg config.Config, logger *logging.Logger) (*Profiling, error) {
	if logger == nil {
		logger = logging.Default()
	}
	p := &Profiling{logger: logger}

	if cfg.PyroscopeEnabled {
		profiler, err := pyroscope.Start(pyroscopeConfig(cfg, logger))
		if err != nil {
			return nil, err
		}
		p.pyroscope = profiler
		logger.Info("pyroscope enabled",
			"server_address", cfg.PyroscopeServerAddress,
			"application", cfg.PyroscopeAppName,
		)
	} else {
		logger.Info("pyroscope disabled", "reason", "PYROSCOPE_ENABLED=false")
	}

	if cfg.PprofEnabled {
		p.pprof = &http.Server{
			Addr:              cfg.PprofAddr,
			Handler:           pprofMux(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go p.servePprof()
	} else {
		logger.Info("pprof disabled", "reason", "PPROF_ENABLED=false")
	}

	return p, nil
}

func pyroscopeConfig(cfg config.Config, logger *logging.Logger) pyroscope.Config {
	return pyroscope.Config{
		ApplicationName:   cfg.PyroscopeAppName,
		ServerAddress:     cfg.PyroscopeServerAddress,
		AuthToken:         cfg.PyroscopeAuthToken,
		BasicAuthUser:     cfg.PyroscopeBasicAuthUser,
		BasicAuthPassword: cfg.PyroscopeBasicAuthPassword,
		UploadRate:        cfg.PyroscopeUploadRate,
		Logger:            logger.Named("pyroscope").Zap().Sugar(),
		Tags: map[string]string{
			"env":           cfg.AppEnv,
			"service":       cfg.ServiceName,
			"storage":       cfg.StorageDriver,
			"model_workers": strconv.Itoa(cfg.ModelWorkers),
			"forest_trees":  strconv.Itoa(cfg.ModelForestTrees),
		},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
	}
}

// pprofMux keeps the profiling endpoints off the API router.
func pprofMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return mux
}

func (p *Profiling) servePprof() {
	p.logger.Info("pprof server starting", "addr", p.pprof.Addr)
	if err := p.pprof.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		p.logger.Error("pprof server failed", "error", err)
	}
}

// Stop shuts the pprof port down within ctx and flushes the profiler.
func (p *Profiling) Stop(ctx context.Context) error {
	if p == nil {
		return nil
	}

	var errs []error
	if p.pprof != nil {
		if err := p.pprof.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		} else {
			p.logger.Info("pprof server stopped")
		}
	}
	if p.pyroscope != nil {
		if err := p.pyroscope.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
