package middleware

import (
    "time"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    "github.com/iliyamo/mbs-backend/internal/metrics"
)

// HeaderRequestID carries the request id in both directions.
const HeaderRequestID = echo.HeaderXRequestID

// RequestLogger assigns every request an id (reusing a client-supplied
// X-Request-ID) and logs one line per request once the handler returns.
// Credentials never reach the log: only the action name is taken from the
// query string.
func RequestLogger(log *zap.Logger) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            req := c.Request()

            rid := req.Header.Get(HeaderRequestID)
            if rid == "" {
                rid = uuid.NewString()
            }
            c.Response().Header().Set(HeaderRequestID, rid)

            err := next(c)
            if err != nil {
                c.Error(err)
            }

            log.Info("request",
                zap.String("request_id", rid),
                zap.String("method", req.Method),
                zap.String("path", req.URL.Path),
                zap.String("action", requestAction(c)),
                zap.Int("status", c.Response().Status),
                zap.Duration("latency", time.Since(start)),
                zap.String("remote_ip", c.RealIP()),
            )
            return nil
        }
    }
}

// Metrics records in-flight, count and latency per route.
func Metrics() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            metrics.RequestStarted()
            start := time.Now()
            err := next(c)
            if err != nil {
                c.Error(err)
            }
            route := c.Path()
            if route == "" {
                route = "unmatched"
            }
            metrics.RequestFinished(c.Request().Method, route, c.Response().Status, time.Since(start))
            return nil
        }
    }
}
