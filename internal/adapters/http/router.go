package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quotably/quotesync/internal/adapters/http/handlers"
	"github.com/quotably/quotesync/internal/adapters/http/middleware"
	"github.com/quotably/quotesync/internal/platform/telemetry"
)

// DefaultRequestTimeout is the default timeout for API requests.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// Logger is the structured logger for request logging.
	Logger *slog.Logger

	// ServiceName feeds the OpenTelemetry middleware.
	ServiceName string

	// HealthHandler handles health check endpoints.
	HealthHandler *handlers.HealthHandler

	// QuoteHandler handles quote browsing and authoring.
	QuoteHandler *handlers.QuoteHandler

	// FavoriteHandler handles the user's favorites.
	FavoriteHandler *handlers.FavoriteHandler

	// AuthHandler handles identity sessions.
	AuthHandler *handlers.AuthHandler

	// ImageHandler handles author images.
	ImageHandler *handlers.ImageHandler

	// Timeout is the default request timeout for API routes.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware order (first to last):
//  1. Recovery
//  2. Request ID
//  3. Correlation ID
//  4. OpenTelemetry
//  5. Logging (skips health endpoints)
//  6. Timeout (API group only)
//
// Route groups:
//   - /-/      internal health endpoints, no timeout for probes
//   - /api/v1  business endpoints
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.Middleware(cfg.ServiceName),
		middleware.Logging(cfg.Logger),
	)

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	apiV1 := engine.Group("/api/v1")

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	apiV1.Use(middleware.SimpleTimeout(timeout))

	if cfg.QuoteHandler != nil {
		cfg.QuoteHandler.RegisterQuoteRoutes(apiV1)
	}

	if cfg.FavoriteHandler != nil {
		cfg.FavoriteHandler.RegisterFavoriteRoutes(apiV1)
	}

	if cfg.AuthHandler != nil {
		cfg.AuthHandler.RegisterAuthRoutes(apiV1)
	}

	if cfg.ImageHandler != nil {
		cfg.ImageHandler.RegisterImageRoutes(apiV1)
	}
}
