package handler

// identity.go provides helpers shared across handlers for reading the
// identity the auth gate stored in the request context.

import (
    "errors"

    "github.com/labstack/echo/v4"

    "github.com/glowcart/storefront/internal/middleware"
)

var errNoIdentity = errors.New("no identity in context")

// currentUserID returns the numeric identity id set by the auth gate.
func currentUserID(c echo.Context) (uint64, error) {
    if id, ok := c.Get(middleware.CtxUserID).(uint64); ok && id != 0 {
        return id, nil
    }
    return 0, errNoIdentity
}
