package utils // package utils provides helper functions for token creation and verification

import (
    "crypto/rand"  // secure random number generation
    "encoding/hex" // hex encoding for opaque tokens
    "errors"       // sentinel errors for verification failures
    "strconv"      // numeric claim parsing
    "time"         // expiry arithmetic

    "github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// ErrInvalidToken is returned when a token fails signature or expiry checks,
// or when its claims are not in the expected shape.
var ErrInvalidToken = errors.New("invalid token")

// AccessToken represents a signed HS256 JWT access token along with its
// expiry.  Access tokens are short-lived, carry the identity id, account name
// and tier as claims, and are presented in the Authorization header.  They
// are never persisted server-side.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// RefreshToken is the longer-lived credential exchanged for new access
// tokens.  For customers it is itself a signed JWT (so refresh can verify the
// embedded account name against the row that stores it); its raw string is
// persisted into the customer's refresh_token column and set as the `jwt`
// cookie.
type RefreshToken struct {
    Raw string    // raw token string returned to the client
    Exp time.Time // UTC expiration time
}

// AccessClaims is the identity decoded from a verified access token.
type AccessClaims struct {
    UserID   uint64 // numeric identity id ("id" claim)
    Username string // account name ("username" claim)
    Role     int    // privilege tier ("role" claim)
}

// NewAccessToken builds and signs an HS256 access token.  The claims follow
// the storefront convention: username, id, role, plus standard exp/iat.
func NewAccessToken(secret, username string, userID uint64, role int, ttlMin int) (AccessToken, error) {
    now := time.Now().UTC()
    exp := now.Add(time.Duration(ttlMin) * time.Minute)
    claims := jwt.MapClaims{
        "username": username,
        "id":       userID,
        "role":     role,
        "exp":      exp.Unix(),
        "iat":      now.Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// NewRefreshToken builds and signs an HS256 refresh token embedding the same
// username/id pair, valid for ttlDays days.  A separate secret keeps stolen
// refresh tokens useless against the access-token verifier and vice versa.
func NewRefreshToken(secret, username string, userID uint64, ttlDays int) (RefreshToken, error) {
    now := time.Now().UTC()
    exp := now.Add(time.Duration(ttlDays) * 24 * time.Hour)
    claims := jwt.MapClaims{
        "username": username,
        "id":       userID,
        "exp":      exp.Unix(),
        "iat":      now.Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return RefreshToken{}, err
    }
    return RefreshToken{Raw: signed, Exp: exp}, nil
}

// ParseAccessToken verifies signature and expiry of an access token and
// returns its identity claims.  Any failure collapses to ErrInvalidToken so
// callers never leak why a token was rejected.
func ParseAccessToken(secret, raw string) (AccessClaims, error) {
    claims, err := parseHS256(secret, raw)
    if err != nil {
        return AccessClaims{}, err
    }
    out := AccessClaims{Role: 0}
    if v, ok := claims["username"].(string); ok {
        out.Username = v
    }
    id, ok := numClaim(claims, "id")
    if !ok {
        return AccessClaims{}, ErrInvalidToken
    }
    out.UserID = id
    if role, ok := numClaim(claims, "role"); ok {
        out.Role = int(role)
    }
    return out, nil
}

// VerifyRefreshToken verifies signature and expiry of a refresh token and
// returns the embedded account name.  Refresh handlers compare it against
// the account that currently stores the token.
func VerifyRefreshToken(secret, raw string) (string, error) {
    claims, err := parseHS256(secret, raw)
    if err != nil {
        return "", err
    }
    username, ok := claims["username"].(string)
    if !ok || username == "" {
        return "", ErrInvalidToken
    }
    return username, nil
}

// NewOpaqueToken returns a 96-character hex string from 48 bytes of secure
// randomness.  Administrative refresh tokens are opaque: they prove nothing
// by themselves and are only meaningful through the session registry.
func NewOpaqueToken() (string, error) {
    buf := make([]byte, 48)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}

// parseHS256 parses a token, enforcing the HMAC signing method.  Expiry is
// validated by the library via the exp claim.
func parseHS256(secret, raw string) (jwt.MapClaims, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidToken
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return nil, ErrInvalidToken
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return nil, ErrInvalidToken
    }
    return claims, nil
}

// numClaim reads a numeric claim.  JSON numbers decode as float64; some
// producers emit them as strings, so both forms are accepted.
func numClaim(claims jwt.MapClaims, key string) (uint64, bool) {
    switch v := claims[key].(type) {
    case float64:
        if v < 0 {
            return 0, false
        }
        return uint64(v), true
    case string:
        n, err := strconv.ParseUint(v, 10, 64)
        if err != nil {
            return 0, false
        }
        return n, true
    }
    return 0, false
}
