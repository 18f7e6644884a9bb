package middleware

// identity.go holds helpers that describe who or what a request is for the
// other middleware: the requested action, read straight from the raw query
// so that the decoding rules match the dispatcher's.

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/mbs-backend/internal/action"
)

// requestAction returns the action named in the query string, or "none"
// when the request carries no action key.  A present but empty name is
// returned as "", the same name the dispatcher reports as invalid.
func requestAction(c echo.Context) string {
    if v, ok := c.Get(ctxActionKey).(string); ok {
        return v
    }
    name, ok := action.ParseQuery(c.Request().URL.RawQuery)[action.KeyAction]
    if !ok {
        name = "none"
    }
    c.Set(ctxActionKey, name)
    return name
}

// ctxActionKey caches the parsed action name on the echo context.
const ctxActionKey = "mbs.action"
