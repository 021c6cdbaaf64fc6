package middleware // middleware contains reusable HTTP middleware functions

import (
    "net/http" // HTTP status codes for responses
    "strings"  // prefix checking and trimming

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware

    "github.com/glowcart/storefront/internal/utils" // token verification helpers
)

// Context keys populated by JWTAuth for downstream handlers.
const (
    CtxUserID   = "user_id"  // uint64 numeric identity id
    CtxUsername = "username" // string account name
    CtxRole     = "role"     // int privilege tier
)

// JWTAuth returns the auth gate: it validates a Bearer access token and
// injects the resolved identity into the request context.  A missing or
// malformed Authorization header is rejected with 401 before the handler
// runs; a present but invalid or expired token yields 403.  The gate never
// consults the database — within its validity window the token's embedded
// claims are trusted entirely.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"message": "missing bearer token"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            claims, err := utils.ParseAccessToken(secret, raw)
            if err != nil {
                return c.JSON(http.StatusForbidden, echo.Map{"message": "invalid token"})
            }

            c.Set(CtxUserID, claims.UserID)
            c.Set(CtxUsername, claims.Username)
            c.Set(CtxRole, claims.Role)
            return next(c)
        }
    }
}
