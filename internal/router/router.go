package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4" // Echo web framework handles routing

    "github.com/glowcart/storefront/internal/handler"    // handlers implement the endpoint logic
    "github.com/glowcart/storefront/internal/middleware" // auth gate, role guard, cache, rate limit
    "github.com/glowcart/storefront/internal/model"      // privilege tier constants
)

// RegisterRoutes registers routes that require no authentication and no
// handler state.  Currently that is only the health check used by load
// balancers.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
}

// RegisterAuth wires the session lifecycle under /api/auth.  The rate
// limiter shields the credential endpoints; register/login/refresh/logout
// themselves never require an access token (refresh and logout work off the
// cookie alone).
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limiter echo.MiddlewareFunc) {
    g := e.Group("/api/auth")
    if limiter != nil {
        g.Use(limiter)
    }
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)
    g.GET("/refresh", a.Refresh)
    g.GET("/logout", a.Logout)
}

// RegisterCatalog wires the product endpoints.  Browsing is public and the
// read endpoints sit behind the response cache; the create/delete/restore
// lifecycle requires an administrative access token.
func RegisterCatalog(e *echo.Echo, p *handler.ProductHandler, cache echo.MiddlewareFunc, accessSecret string) {
    g := e.Group("/api/products")
    if cache != nil {
        g.Use(cache)
    }
    g.GET("", p.List)
    g.GET("/attributes", p.Attributes)
    g.GET("/:id", p.GetByID)
    g.GET("/:id/related", p.Related)

    admin := e.Group("/api/products")
    admin.Use(middleware.JWTAuth(accessSecret))
    admin.Use(middleware.RequireTier(model.TierAdmin))
    admin.POST("", p.Create)
    admin.DELETE("/:id", p.Delete)
    admin.PATCH("/:id/restore", p.Restore)
}

// RegisterProfile wires the authenticated customer's profile endpoints.
// Members and the admin both pass the gate; the handler itself 404s for the
// admin's synthetic id.
func RegisterProfile(e *echo.Echo, pr *handler.ProfileHandler, accessSecret string) {
    g := e.Group("/api/profile")
    g.Use(middleware.JWTAuth(accessSecret))
    g.Use(middleware.RequireTier(model.TierMember, model.TierAdmin))
    g.GET("", pr.Get)
    g.PUT("", pr.Update)
}

// RegisterPayment wires the payment-creation endpoint for authenticated
// shoppers.
func RegisterPayment(e *echo.Echo, p *handler.PaymentHandler, accessSecret string) {
    g := e.Group("/api/payment")
    g.Use(middleware.JWTAuth(accessSecret))
    g.Use(middleware.RequireTier(model.TierMember, model.TierAdmin))
    g.POST("/create", p.Create)
}

// RegisterUpload wires the admin-only image upload endpoint.
func RegisterUpload(e *echo.Echo, u *handler.UploadHandler, accessSecret string) {
    g := e.Group("/api/upload")
    g.Use(middleware.JWTAuth(accessSecret))
    g.Use(middleware.RequireTier(model.TierAdmin))
    g.POST("", u.Upload)
}
