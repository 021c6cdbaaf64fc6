package handler

import (
    "context"  // context with cancellation for DB calls
    "database/sql"
    "errors"
    "log"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/glowcart/storefront/internal/config"
    "github.com/glowcart/storefront/internal/model"
    "github.com/glowcart/storefront/internal/queue"
    "github.com/glowcart/storefront/internal/repository"
    "github.com/glowcart/storefront/internal/session"
    "github.com/glowcart/storefront/internal/utils"
)

// refreshCookieName is the cookie carrying the refresh token.
const refreshCookieName = "jwt"

// AuthHandler bundles dependencies for the auth endpoints.  Sessions is the
// registry for administrative refresh tokens; customer refresh tokens live
// in the customers table.  Publish emits registration events and may be nil
// to disable eventing (tests, broker-less deployments).
type AuthHandler struct {
    Cfg       config.Config
    Customers *repository.CustomerRepo
    Sessions  session.Store
    Publish   func(ctx context.Context, ev queue.CustomerRegisteredEvent) error
}

func NewAuthHandler(cfg config.Config, customers *repository.CustomerRepo, sessions session.Store) *AuthHandler {
    return &AuthHandler{
        Cfg:       cfg,
        Customers: customers,
        Sessions:  sessions,
        Publish:   queue.PublishCustomerRegistered,
    }
}

// ----- DTOs -----

type registerReq struct {
    AccountName string `json:"accountName"`
    Mail        string `json:"mail"`
    Pwd         string `json:"pwd"`
}

// loginReq accepts both field spellings the frontend has used across
// revisions: loginIdentifier/password and user/pwd.
type loginReq struct {
    LoginIdentifier string `json:"loginIdentifier"`
    User            string `json:"user"`
    Password        string `json:"password"`
    Pwd             string `json:"pwd"`
}

type loginResp struct {
    AccessToken string `json:"accessToken"`
    Roles       []int  `json:"roles"`
    User        string `json:"user,omitempty"`
}

type refreshResp struct {
    AccessToken string `json:"accessToken"`
    Roles       []int  `json:"roles"`
    Username    string `json:"username"`
}

// Register creates a member-tier customer.  Both accountName and mail must
// be free; a collision on either yields 409.  The response never echoes the
// password hash.
func (h *AuthHandler) Register(c echo.Context) error {
    var req registerReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
    }
    req.AccountName = strings.TrimSpace(req.AccountName)
    req.Mail = strings.TrimSpace(req.Mail)
    if req.AccountName == "" || req.Mail == "" || req.Pwd == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "All fields required."})
    }

    hash, err := utils.HashPassword(req.Pwd, h.Cfg.BcryptCost)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server Error"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    id, err := h.Customers.Create(ctx, req.AccountName, req.Mail, hash)
    if err != nil {
        if errors.Is(err, repository.ErrCustomerExists) {
            return c.JSON(http.StatusConflict, echo.Map{"message": "User already exists"})
        }
        log.Printf("auth: create customer failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server Error"})
    }
    log.Printf("auth: new customer registered: %s", req.AccountName)

    if h.Publish != nil {
        ev := queue.CustomerRegisteredEvent{
            CustomerID:   id,
            AccountName:  req.AccountName,
            Mail:         req.Mail,
            Tier:         model.MemberTierLevel,
            RegisteredAt: time.Now().UTC().Format(time.RFC3339),
        }
        // Broker outages must not fail registration; the publisher logs.
        go func() { _ = h.Publish(context.Background(), ev) }()
    }

    return c.JSON(http.StatusCreated, echo.Map{"success": "User " + req.AccountName + " created!"})
}

// Login authenticates either the configured administrative pair or a
// database-backed customer.  The admin check runs first and short-circuits
// the credential store entirely.  Unknown user and wrong password collapse
// to the same 401 body so responses cannot be used to enumerate accounts.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
    }
    identifier := req.LoginIdentifier
    if identifier == "" {
        identifier = req.User
    }
    password := req.Password
    if password == "" {
        password = req.Pwd
    }
    if identifier == "" || password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Username and password required."})
    }

    // Administrative bypass: exact match on the configured pair, no store access.
    if identifier == h.Cfg.AdminName && password == h.Cfg.AdminPass {
        return h.loginAdmin(c)
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    cust, err := h.Customers.GetByIdentifier(ctx, identifier)
    if err != nil {
        if errors.Is(err, repository.ErrCustomerNotFound) {
            log.Printf("auth: login failed: user not found")
            return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid credentials"})
        }
        log.Printf("auth: login lookup failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server Error"})
    }
    if !utils.VerifyPassword(cust.PasswordHash, password) {
        log.Printf("auth: login failed: invalid password for id=%d", cust.ID)
        return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid credentials"})
    }

    access, err := utils.NewAccessToken(h.Cfg.AccessSecret, cust.AccountName, cust.ID, model.TierMember, h.Cfg.AccessTTLMin)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server Error"})
    }
    refresh, err := utils.NewRefreshToken(h.Cfg.RefreshSecret, cust.AccountName, cust.ID, h.Cfg.RefreshTTLDays)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server Error"})
    }

    // Overwriting the column invalidates any previously issued refresh
    // token: one active session per account.
    if err := h.Customers.UpdateRefreshToken(ctx, cust.ID, sql.NullString{String: refresh.Raw, Valid: true}); err != nil {
        log.Printf("auth: persist refresh token failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server Error"})
    }

    h.setRefreshCookie(c, refresh.Raw)
    return c.JSON(http.StatusOK, loginResp{
        AccessToken: access.Token,
        Roles:       []int{model.TierMember},
        User:        cust.AccountName,
    })
}

// loginAdmin mints tokens for the administrative identity and registers the
// refresh token in the in-memory session registry.
func (h *AuthHandler) loginAdmin(c echo.Context) error {
    log.Printf("auth: admin logged in")
    access, err := utils.NewAccessToken(h.Cfg.AccessSecret, "Admin", model.AdminUserID, model.TierAdmin, h.Cfg.AccessTTLMin)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server Error"})
    }
    refresh, err := utils.NewOpaqueToken()
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server Error"})
    }
    h.Sessions.Put(refresh, session.Identity{
        ID:       model.AdminUserID,
        Username: "Admin",
        Roles:    []int{model.TierAdmin},
    })
    h.setRefreshCookie(c, refresh)
    return c.JSON(http.StatusOK, loginResp{
        AccessToken: access.Token,
        Roles:       []int{model.TierAdmin},
    })
}

// Refresh exchanges the refresh-token cookie for a new access token.  The
// refresh token itself is not rotated; it stays valid until logout or the
// next login.
func (h *AuthHandler) Refresh(c echo.Context) error {
    cookie, err := c.Cookie(refreshCookieName)
    if err != nil || cookie.Value == "" {
        return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
    }
    token := cookie.Value

    // Administrative sessions resolve from the registry, no database access.
    if ident, ok := h.Sessions.Get(token); ok {
        access, err := utils.NewAccessToken(h.Cfg.AccessSecret, ident.Username, ident.ID, model.TierAdmin, h.Cfg.AccessTTLMin)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server Error"})
        }
        return c.JSON(http.StatusOK, refreshResp{
            AccessToken: access.Token,
            Roles:       ident.Roles,
            Username:    ident.Username,
        })
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    cust, err := h.Customers.GetByRefreshToken(ctx, token)
    if err != nil {
        if errors.Is(err, repository.ErrCustomerNotFound) {
            return c.JSON(http.StatusForbidden, echo.Map{"message": "Forbidden"})
        }
        log.Printf("auth: refresh lookup failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server Error"})
    }

    // The token must verify cryptographically and its embedded account name
    // must match the row that stores it.
    username, err := utils.VerifyRefreshToken(h.Cfg.RefreshSecret, token)
    if err != nil || username != cust.AccountName {
        return c.JSON(http.StatusForbidden, echo.Map{"message": "Forbidden"})
    }

    access, err := utils.NewAccessToken(h.Cfg.AccessSecret, cust.AccountName, cust.ID, model.TierMember, h.Cfg.AccessTTLMin)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server Error"})
    }
    return c.JSON(http.StatusOK, refreshResp{
        AccessToken: access.Token,
        Roles:       []int{model.TierMember},
        Username:    cust.AccountName,
    })
}

// Logout invalidates the refresh token behind the cookie and clears it.
// Always 204: logging out an already-dead session is not an error.
func (h *AuthHandler) Logout(c echo.Context) error {
    cookie, err := c.Cookie(refreshCookieName)
    if err != nil || cookie.Value == "" {
        return c.NoContent(http.StatusNoContent)
    }
    token := cookie.Value

    if _, ok := h.Sessions.Get(token); ok {
        h.Sessions.Delete(token)
    } else {
        ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
        defer cancel()
        // Silently ignores unknown tokens to keep logout idempotent.
        if err := h.Customers.ClearRefreshToken(ctx, token); err != nil {
            log.Printf("auth: clear refresh token failed: %v", err)
        }
    }

    h.clearRefreshCookie(c)
    return c.NoContent(http.StatusNoContent)
}

// ----- cookie helpers -----

func (h *AuthHandler) cookieSameSite() http.SameSite {
    switch strings.ToLower(h.Cfg.CookieSameSite) {
    case "strict":
        return http.SameSiteStrictMode
    case "lax":
        return http.SameSiteLaxMode
    default:
        return http.SameSiteNoneMode
    }
}

func (h *AuthHandler) setRefreshCookie(c echo.Context, token string) {
    c.SetCookie(&http.Cookie{
        Name:     refreshCookieName,
        Value:    token,
        Path:     "/",
        MaxAge:   h.Cfg.RefreshTTLDays * 24 * 60 * 60,
        HttpOnly: true,
        Secure:   h.Cfg.CookieSecure,
        SameSite: h.cookieSameSite(),
    })
}

func (h *AuthHandler) clearRefreshCookie(c echo.Context) {
    c.SetCookie(&http.Cookie{
        Name:     refreshCookieName,
        Value:    "",
        Path:     "/",
        MaxAge:   -1,
        HttpOnly: true,
        Secure:   h.Cfg.CookieSecure,
        SameSite: h.cookieSameSite(),
    })
}
