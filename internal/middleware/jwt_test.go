package middleware

import (
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"

    "github.com/labstack/echo/v4"

    "github.com/glowcart/storefront/internal/model"
    "github.com/glowcart/storefront/internal/utils"
)

const testSecret = "gate-secret"

// runGate sends a request with the given Authorization header through
// JWTAuth in front of a handler that echoes the injected context values.
func runGate(t *testing.T, authHeader string) *httptest.ResponseRecorder {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/protected", nil)
    if authHeader != "" {
        req.Header.Set("Authorization", authHeader)
    }
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)

    h := JWTAuth(testSecret)(func(c echo.Context) error {
        return c.JSON(http.StatusOK, echo.Map{
            "id":       c.Get(CtxUserID),
            "username": c.Get(CtxUsername),
            "role":     c.Get(CtxRole),
        })
    })
    if err := h(c); err != nil {
        t.Fatalf("handler error: %v", err)
    }
    return rec
}

func TestJWTAuthMissingHeader(t *testing.T) {
    rec := runGate(t, "")
    if rec.Code != http.StatusUnauthorized {
        t.Fatalf("expected 401 for missing header, got %d", rec.Code)
    }
}

func TestJWTAuthNotBearer(t *testing.T) {
    rec := runGate(t, "Basic dXNlcjpwYXNz")
    if rec.Code != http.StatusUnauthorized {
        t.Fatalf("expected 401 for non-bearer header, got %d", rec.Code)
    }
}

func TestJWTAuthInvalidToken(t *testing.T) {
    rec := runGate(t, "Bearer not-a-jwt")
    if rec.Code != http.StatusForbidden {
        t.Fatalf("expected 403 for garbage token, got %d", rec.Code)
    }
}

func TestJWTAuthWrongSecret(t *testing.T) {
    tok, err := utils.NewAccessToken("other-secret", "mia", 7, model.TierMember, 10)
    if err != nil {
        t.Fatalf("sign: %v", err)
    }
    rec := runGate(t, "Bearer "+tok.Token)
    if rec.Code != http.StatusForbidden {
        t.Fatalf("expected 403 for wrong secret, got %d", rec.Code)
    }
}

func TestJWTAuthExpiredToken(t *testing.T) {
    tok, err := utils.NewAccessToken(testSecret, "mia", 7, model.TierMember, -1)
    if err != nil {
        t.Fatalf("sign: %v", err)
    }
    rec := runGate(t, "Bearer "+tok.Token)
    if rec.Code != http.StatusForbidden {
        t.Fatalf("expected 403 for expired token, got %d", rec.Code)
    }
}

func TestJWTAuthValidTokenPopulatesContext(t *testing.T) {
    tok, err := utils.NewAccessToken(testSecret, "mia", 7, model.TierMember, 10)
    if err != nil {
        t.Fatalf("sign: %v", err)
    }
    rec := runGate(t, "Bearer "+tok.Token)
    if rec.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
    }
    body := rec.Body.String()
    for _, want := range []string{`"id":7`, `"username":"mia"`, `"role":2001`} {
        if !strings.Contains(body, want) {
            t.Fatalf("response %q missing %q", body, want)
        }
    }
}

func TestRequireTier(t *testing.T) {
    cases := []struct {
        name    string
        role    interface{}
        allowed []int
        want    int
    }{
        {"member allowed", model.TierMember, []int{model.TierMember, model.TierAdmin}, http.StatusOK},
        {"admin only rejects member", model.TierMember, []int{model.TierAdmin}, http.StatusForbidden},
        {"admin passes", model.TierAdmin, []int{model.TierAdmin}, http.StatusOK},
        {"missing role", nil, []int{model.TierMember}, http.StatusForbidden},
        {"wrong type", "2001", []int{model.TierMember}, http.StatusForbidden},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            e := echo.New()
            req := httptest.NewRequest(http.MethodGet, "/", nil)
            rec := httptest.NewRecorder()
            c := e.NewContext(req, rec)
            if tc.role != nil {
                c.Set(CtxRole, tc.role)
            }
            h := RequireTier(tc.allowed...)(func(c echo.Context) error {
                return c.NoContent(http.StatusOK)
            })
            if err := h(c); err != nil {
                t.Fatalf("handler error: %v", err)
            }
            if rec.Code != tc.want {
                t.Fatalf("expected %d, got %d", tc.want, rec.Code)
            }
        })
    }
}
