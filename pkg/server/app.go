package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"TradePulse/internal/domain/repository"
	"TradePulse/internal/handler/api"
	"TradePulse/internal/usecase"
	pkgch "TradePulse/pkg/clickhouse"
	"TradePulse/pkg/config"
	xhttp "TradePulse/pkg/http"
	applogger "TradePulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// App encapsulates the entire application lifecycle: the scan loop, the
// HTTP API, and graceful teardown of infrastructure clients.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	scanner    *usecase.Scanner
	signals    *api.SignalsHandler
	hub        *api.WSHub
	sink       repository.SignalSink
	chClient   *pkgch.Client
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	scanner *usecase.Scanner,
	signals *api.SignalsHandler,
	hub *api.WSHub,
	sink repository.SignalSink,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:      cfg,
		log:      log,
		scanner:  scanner,
		signals:  signals,
		hub:      hub,
		sink:     sink,
		chClient: chClient,
	}
}

type routes struct {
	signals *api.SignalsHandler
	hub     *api.WSHub
}

func (r routes) RegisterRoutes(e *echo.Echo) {
	r.signals.RegisterRoutes(e)
	r.hub.RegisterRoutes(e)
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(routes{signals: a.signals, hub: a.hub},
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	go a.scanLoop(ctx)
	a.log.Info("scan loop started",
		applogger.Duration("interval", a.scanner.Interval()),
		applogger.Int("assets", len(a.scanner.Catalog())))

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	cancel()
	return a.shutdown(context.Background())
}

// scanLoop runs one cycle immediately, then ticks at the configured
// interval until the context ends.
func (a *App) scanLoop(ctx context.Context) {
	a.runCycle(ctx)

	ticker := time.NewTicker(a.scanner.Interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.runCycle(ctx)
		}
	}
}

func (a *App) runCycle(ctx context.Context) {
	cycleCtx, cancel := context.WithTimeout(ctx, a.scanner.Interval())
	defer cancel()
	if _, err := a.scanner.Scan(cycleCtx); err != nil {
		a.log.Error("scan cycle failed", applogger.Error(err))
	}
}

// shutdown gracefully stops all services. The sink close covers the ws hub
// and flushes any buffered kafka writer.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if a.httpServer != nil {
		if err := a.httpServer.Stop(shutdownCtx); err != nil {
			a.log.Error("http shutdown error", applogger.Error(err))
		}
	}

	if a.sink != nil {
		if err := a.sink.Close(); err != nil {
			a.log.Warn("sink close error", applogger.Error(err))
		}
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
