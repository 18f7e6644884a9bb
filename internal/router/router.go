package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/mbs-backend/internal/action"
	"github.com/iliyamo/mbs-backend/internal/config"
	"github.com/iliyamo/mbs-backend/internal/handler"    // import the HTTP handlers
	"github.com/iliyamo/mbs-backend/internal/metrics"
	"github.com/iliyamo/mbs-backend/internal/middleware" // import the browser gate, rate limit and logging middleware
)

// Options carries everything the routes need.  Redis is optional; without
// it the rate limiter keeps its buckets in process.
type Options struct {
	Dispatcher      *action.Dispatcher
	DB              handler.Pinger
	Redis           *redis.Client
	RateLimit       config.RateLimitConfig
	BrowserDenylist []string
	Logger          *zap.Logger
}

// RegisterRoutes installs the error handler, the global middleware and the
// three routes of the service on e.
func RegisterRoutes(e *echo.Echo, opts Options) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	// Unknown paths and non-GET verbs all become a plain 404.
	e.HTTPErrorHandler = handler.ErrorHandler(log)

	e.Use(middleware.RequestLogger(log))
	e.Use(middleware.Metrics())

	// The action endpoint.  Browsers are turned away before they can
	// spend rate-limit tokens.
	api := handler.NewActionHandler(opts.Dispatcher)
	e.GET("/", api.Serve,
		middleware.DenyBrowsers(opts.BrowserDenylist...),
		middleware.NewTokenBucket(opts.RateLimit, opts.Redis, log),
	)

	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health(opts.DB))

	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
}
