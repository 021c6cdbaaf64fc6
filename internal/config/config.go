package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Secrets (token signing keys, the administrative
// bypass pair, MoMo credentials) are always supplied externally and never
// hardcoded in the binary.
type Config struct {
    Env  string // application environment (e.g. "dev", "prod")
    Port string // HTTP port to listen on

    DBUser string // database username
    DBPass string // database password (optional)
    DBHost string // database host address
    DBPort string // database port number
    DBName string // database name

    AccessSecret   string // secret used to sign access tokens
    RefreshSecret  string // secret used to sign refresh tokens
    AccessTTLMin   int    // access token time-to-live in minutes
    RefreshTTLDays int    // refresh token time-to-live in days
    BcryptCost     int    // bcrypt cost for password hashing

    AdminName string // administrative bypass account name
    AdminPass string // administrative bypass password

    CookieSecure   bool   // Secure flag on the refresh cookie
    CookieSameSite string // SameSite policy: "lax", "strict" or "none"

    MomoPartnerCode string // MoMo partner code (empty disables payments)
    MomoAccessKey   string // MoMo access key
    MomoSecretKey   string // MoMo HMAC signing key
    MomoEndpoint    string // MoMo create-payment endpoint URL
    MomoRedirectURL string // URL the gateway redirects the shopper back to
    MomoIPNURL      string // URL the gateway posts payment notifications to

    UploadDir string // directory backing the local blob store
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Payment credentials
// are optional: the payment endpoint reports a server error when they are
// absent instead of preventing startup.
func Load() Config {
    return Config{
        Env:  must("APP_ENV"),
        Port: must("APP_PORT"),

        DBUser: must("DB_USER"),
        DBPass: os.Getenv("DB_PASS"), // empty allowed
        DBHost: must("DB_HOST"),
        DBPort: must("DB_PORT"),
        DBName: must("DB_NAME"),

        AccessSecret:   must("ACCESS_TOKEN_SECRET"),
        RefreshSecret:  must("REFRESH_TOKEN_SECRET"),
        AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
        RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
        BcryptCost:     mustInt("BCRYPT_COST"),

        AdminName: must("ADMIN_NAME"),
        AdminPass: must("ADMIN_PASS"),

        CookieSecure:   getenv("COOKIE_SECURE", "true") == "true",
        CookieSameSite: getenv("COOKIE_SAMESITE", "none"),

        MomoPartnerCode: os.Getenv("MOMO_PARTNER_CODE"),
        MomoAccessKey:   os.Getenv("MOMO_ACCESS_KEY"),
        MomoSecretKey:   os.Getenv("MOMO_SECRET_KEY"),
        MomoEndpoint:    getenv("MOMO_ENDPOINT", "https://test-payment.momo.vn/v2/gateway/api/create"),
        MomoRedirectURL: getenv("MOMO_REDIRECT_URL", "http://localhost:5173/payment-result"),
        MomoIPNURL:      os.Getenv("MOMO_IPN_URL"),

        UploadDir: getenv("UPLOAD_DIR", "uploads"),
    }
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}
