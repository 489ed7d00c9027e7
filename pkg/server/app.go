package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MatheusMartinho/gambit-sub001/internal/usecase"
	"github.com/MatheusMartinho/gambit-sub001/pkg/config"
	xhttp "github.com/MatheusMartinho/gambit-sub001/pkg/http"
	pkgkafka "github.com/MatheusMartinho/gambit-sub001/pkg/kafka"
	applogger "github.com/MatheusMartinho/gambit-sub001/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	httpServer *xhttp.Server
	consumer   *pkgkafka.Consumer
	warmer     *usecase.Warmer
	cancel     context.CancelFunc
}

// New creates a new App. consumer and warmer are nil when disabled.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	httpServer *xhttp.Server,
	consumer *pkgkafka.Consumer,
	warmer *usecase.Warmer,
) *App {
	return &App{
		cfg:        cfg,
		log:        log,
		httpServer: httpServer,
		consumer:   consumer,
		warmer:     warmer,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	if err := a.Start(context.Background()); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	a.log.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), a.httpServer.ShutdownTimeout())
	defer cancel()
	return a.Shutdown(ctx)
}

// Start launches the HTTP server and the optional background workers.
// Workers live until Shutdown.
func (a *App) Start(ctx context.Context) error {
	ctx, a.cancel = context.WithCancel(ctx)

	if a.consumer != nil {
		if err := a.consumer.Start(ctx); err != nil {
			return fmt.Errorf("kafka consumer: %w", err)
		}
		a.log.Info("kafka consumer started", applogger.String("topic", a.cfg.Kafka.InvalidationTopic))
	}

	if a.warmer != nil {
		if err := a.warmer.Start(); err != nil {
			return fmt.Errorf("cache warmer: %w", err)
		}
	}

	if err := a.httpServer.Start(); err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	a.log.Info("fundamentals engine started",
		applogger.String("mode", a.cfg.Mode),
		applogger.String("cache_backend", a.cfg.Cache.Backend),
		applogger.Int("port", a.cfg.Server.Port),
	)
	return nil
}

// Shutdown stops intake first, then the background workers.
func (a *App) Shutdown(ctx context.Context) error {
	a.log.Info("shutting down...")
	var errs []error

	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
		errs = append(errs, err)
	}

	if a.warmer != nil {
		if err := a.warmer.Stop(ctx); err != nil {
			a.log.Warn("cache warmer stop error", applogger.Error(err))
			errs = append(errs, err)
		}
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
			errs = append(errs, err)
		}
	}

	if a.cancel != nil {
		a.cancel()
	}
	a.log.Info("shutdown complete")
	return errors.Join(errs...)
}
