package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ghuser/wishlist/pkg/app"
	"github.com/ghuser/wishlist/pkg/config"
	"github.com/ghuser/wishlist/pkg/database"
	"github.com/ghuser/wishlist/pkg/events"
	"github.com/ghuser/wishlist/pkg/logger"
	"github.com/ghuser/wishlist/pkg/telemetry"
	appsvcs "github.com/ghuser/wishlist/services/wishlist/application/services"
	"github.com/ghuser/wishlist/services/wishlist/application/subscribers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(context.Background()) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	metrics, err := telemetry.NewWishlistMetrics()
	if err != nil {
		log.Error("failed to create metrics", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log, database.WithSlowQueryThreshold(cfg.SlowQueryThreshold))
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer pool.Close()
	log.Info("database pool connected")

	eventBus, err := events.NewEventBus(pool.DB(), log, events.Options{
		ConsumerGroup: cfg.ServiceName + "-activity",
	})
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	appConfig := &app.Application{
		Db:       pool,
		Logger:   log,
		EventBus: eventBus,
		Metrics:  metrics,
	}

	if err := registerSubscribers(ctx, appConfig); err != nil {
		log.Error("failed to register subscribers", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()

	// EventBus.Close() (via defer) waits up to 30s for in-flight handlers.
	log.Info("worker stopped")
}

// registerSubscribers wires all domain event handlers.
func registerSubscribers(ctx context.Context, a *app.Application) error {
	svcs := appsvcs.New(a)
	return subscribers.NewActivity(svcs.Activity, a.Logger, a.Metrics).Register(ctx, a.EventBus)
}
