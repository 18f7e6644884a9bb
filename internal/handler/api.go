package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    "github.com/iliyamo/mbs-backend/internal/action"
)

// ActionHandler serves the single action endpoint.
type ActionHandler struct {
    dispatcher *action.Dispatcher
}

// NewActionHandler wraps a dispatcher.
func NewActionHandler(d *action.Dispatcher) *ActionHandler {
    return &ActionHandler{dispatcher: d}
}

// Serve dispatches the raw query string and writes the result envelope.
// Every outcome, success or failure, is a 200 with a JSON body.
func (h *ActionHandler) Serve(c echo.Context) error {
    res := h.dispatcher.Dispatch(c.Request().Context(), c.Request().URL.RawQuery)
    return c.JSON(http.StatusOK, res)
}

// ErrorHandler replaces echo's default error handler.  Unknown routes and
// unsupported methods are a plain 404 "Not found"; anything else is
// logged and answered with a plain 500.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
    return func(err error, c echo.Context) {
        if c.Response().Committed {
            return
        }
        var he *echo.HTTPError
        if errors.As(err, &he) && (he.Code == http.StatusNotFound || he.Code == http.StatusMethodNotAllowed) {
            _ = c.String(http.StatusNotFound, "Not found")
            return
        }
        log.Error("unhandled error",
            zap.String("method", c.Request().Method),
            zap.String("path", c.Request().URL.Path),
            zap.Error(err),
        )
        _ = c.String(http.StatusInternalServerError, "Internal server error")
    }
}
