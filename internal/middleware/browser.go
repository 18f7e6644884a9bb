package middleware // middleware provides shared request processing for handlers

import (
    "net/http" // http package defines standard HTTP status codes
    "strings"

    "github.com/labstack/echo/v4" // echo provides middleware chaining and context

    "github.com/iliyamo/mbs-backend/internal/action"
)

// DefaultBrowserTokens are the User-Agent substrings sent by the common
// browser engines.
var DefaultBrowserTokens = []string{"Mozilla", "AppleWebKit", "Gecko", "Chrome", "Safari", "Trident"}

// DenyBrowsers returns a middleware that refuses requests whose User-Agent
// contains any of the given tokens.  The refusal is an ordinary failure
// envelope with status 200 so the app's single response parser handles it.
// Any other client, including one with no User-Agent at all, is let
// through.
func DenyBrowsers(tokens ...string) echo.MiddlewareFunc {
    // Drop blanks so an empty configured entry cannot match every request.
    deny := make([]string, 0, len(tokens))
    for _, t := range tokens {
        if t = strings.TrimSpace(t); t != "" {
            deny = append(deny, t)
        }
    }
    refusal := action.Fail(action.MsgBrowserRefused)
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            ua := c.Request().UserAgent()
            for _, t := range deny {
                if strings.Contains(ua, t) {
                    // Short-circuit; the dispatcher never runs.
                    return c.JSON(http.StatusOK, refusal)
                }
            }
            return next(c)
        }
    }
}
