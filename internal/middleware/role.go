package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// RequireTier returns a middleware that enforces that the authenticated
// caller holds one of the given privilege tiers.  The tier comes from the
// access token's role claim, stored in context by JWTAuth.  Requests whose
// tier is missing or outside the allowed set are rejected with 403.
func RequireTier(tiers ...int) echo.MiddlewareFunc {
    allowed := make(map[int]bool, len(tiers))
    for _, t := range tiers {
        allowed[t] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            v := c.Get(CtxRole)
            tier, ok := v.(int)
            if !ok || !allowed[tier] {
                return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
            }
            return next(c)
        }
    }
}
