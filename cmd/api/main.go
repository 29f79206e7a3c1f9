package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/ghuser/wishlist/docs/swagger"
	"github.com/ghuser/wishlist/pkg/app"
	"github.com/ghuser/wishlist/pkg/cache"
	"github.com/ghuser/wishlist/pkg/config"
	"github.com/ghuser/wishlist/pkg/database"
	"github.com/ghuser/wishlist/pkg/events"
	"github.com/ghuser/wishlist/pkg/httpx"
	"github.com/ghuser/wishlist/pkg/logger"
	"github.com/ghuser/wishlist/pkg/session"
	"github.com/ghuser/wishlist/pkg/telemetry"
	wishlistApi "github.com/ghuser/wishlist/services/wishlist/application/api"
	"github.com/ghuser/wishlist/services/wishlist/application/controller"
	appsvcs "github.com/ghuser/wishlist/services/wishlist/application/services"
	"github.com/ghuser/wishlist/services/wishlist/application/web"
)

// @title			Shared Wishlist API
// @version		1.0
// @description	JSON access to the shared public wishlist. The same records back the page at /wishlist.
// @license.name	MIT
// @license.url	https://opensource.org/licenses/MIT
// @host			localhost:8080
// @BasePath		/api
// @schemes		http https
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

	// Telemetry: OTel tracing + metrics
	ctx := context.Background()
	otelShutdown, metricsHandler, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(ctx) //nolint:errcheck

	// Crash reporting: Sentry (optional, log and continue on failure)
	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	metrics, err := telemetry.NewWishlistMetrics()
	if err != nil {
		log.Error("failed to create metrics", "error", err)
		os.Exit(1) //nolint:gocritic // intentional: startup failure, deferred flushes are best-effort
	}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log, database.WithSlowQueryThreshold(cfg.SlowQueryThreshold))
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer pool.Close()
	log.Info("database pool connected")

	eventBus, err := events.NewEventBus(pool.DB(), log, events.Options{
		ConsumerGroup: cfg.ServiceName + "-forwarder",
		UseForwarder:  true,
	})
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	if err := eventBus.StartForwarder(ctx); err != nil {
		log.Error("failed to start event forwarder", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer redisClient.Close() //nolint:errcheck
	log.Info("redis connected")

	sessionStore := session.NewRedisStore(
		redisClient.Client(),
		[]byte(cfg.SessionAuthKey),
		[]byte(cfg.SessionEncryptionKey),
		cfg.IsProduction(),
	)
	log.Info("session store initialized", "backend", "redis")

	appConfig := &app.Application{
		Db:           pool,
		Logger:       log,
		EventBus:     eventBus,
		Redis:        redisClient,
		SessionStore: sessionStore,
		Metrics:      metrics,
	}

	r := httpx.NewRouter(
		httpx.ServerConfig{
			ServiceName:        cfg.ServiceName,
			IsDevelopment:      cfg.Environment == config.EnvDevelopment,
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		},
		logger.Middleware(log),
		logger.Recovery(log),
		telemetry.SentryMiddleware(),
		otelhttp.NewMiddleware(cfg.ServiceName),
	)

	r.Get("/health", httpx.HealthHandler(httpx.HealthChecks{
		"database": pool,
		"redis":    redisClient,
		"eventbus": eventBus,
	}))
	r.Get("/metrics", metricsHandler.ServeHTTP)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	if err := registerRoutes(r, appConfig, cfg.IsProduction()); err != nil {
		log.Error("failed to register routes", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	srv := httpx.NewServer(cfg.HTTPAddr, r)

	go func() {
		log.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

// registerRoutes mounts the wishlist page at the root and the JSON API
// under /api.
func registerRoutes(r chi.Router, a *app.Application, isProduction bool) error {
	svcs := appsvcs.New(a)

	ctrl := controller.New(svcs.Wish, a.Logger, a.Metrics)
	page, err := web.NewPage(ctrl, a.SessionStore, a.Logger)
	if err != nil {
		return err
	}
	page.Routes(r)

	r.Route("/api", func(r chi.Router) {
		wishlistApi.Routes(r, svcs, isProduction)
	})
	return nil
}
