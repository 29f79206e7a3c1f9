package app

import (
	"github.com/gorilla/sessions"

	"github.com/ghuser/wishlist/pkg/cache"
	"github.com/ghuser/wishlist/pkg/database"
	"github.com/ghuser/wishlist/pkg/events"
	"github.com/ghuser/wishlist/pkg/logger"
	"github.com/ghuser/wishlist/pkg/telemetry"
)

// Application holds shared infrastructure dependencies for the wishlist
// processes. Build it once in main and hand it to the route and subscriber
// registration functions.
//
// Logging: app.Logger is backed by a trace-aware handler. Use slog's context
// methods and trace_id, span_id and request_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "wish added", "wish_id", id)
//	app.Logger.ErrorContext(ctx, "error fetching wishes", "error", err)
//
// Use app.Logger.Info/Error (no context) only for startup and shutdown messages.
type Application struct {
	Db           *database.Database
	Logger       logger.Logger
	EventBus     *events.EventBus           // nil disables wish events
	Redis        *cache.RedisClient         // nil in worker process
	SessionStore sessions.Store             // Redis-backed view state; nil in worker process
	Metrics      *telemetry.WishlistMetrics // nil disables action and event counters
}
