package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	domrepo "BizPulse/internal/domain/repository"
	"BizPulse/internal/middleware"
	"BizPulse/internal/service/viewcache"
	"BizPulse/pkg/config"
	xhttp "BizPulse/pkg/http"
	applogger "BizPulse/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	handler    xhttp.Handler
	pipeline   *middleware.InputPipeline
	store      domrepo.SessionStore
	views      *viewcache.Provider
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	handler xhttp.Handler,
	pipeline *middleware.InputPipeline,
	store domrepo.SessionStore,
	views *viewcache.Provider,
) *App {
	return &App{
		cfg:      cfg,
		logger:   logger,
		handler:  handler,
		pipeline: pipeline,
		store:    store,
		views:    views,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	metricsPath := ""
	if a.cfg.Metrics.Enabled {
		metricsPath = a.cfg.Metrics.Path
	}

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithCORSOrigins(a.cfg.Server.CORSOrigins),
		xhttp.WithMetricsPath(metricsPath),
		xhttp.WithRequestMetrics(a.logger, 500*time.Millisecond),
	)

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("dashboard ready",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("env", a.cfg.Environment),
	)

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops all services. Pending input events are dropped,
// not flushed: a coalesced change that never renders has no observer.
func (a *App) shutdown() error {
	a.pipeline.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if err := a.store.Close(); err != nil {
		a.logger.Warn("session store close error", applogger.Error(err))
	}
	if err := a.views.Close(); err != nil {
		a.logger.Warn("view cache close error", applogger.Error(err))
	}

	a.logger.Info("shutdown complete")
	return nil
}
