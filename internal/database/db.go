package database

import (
    "context"
    "database/sql"
    "fmt"
    "net/url"
    "time"

    _ "github.com/jackc/pgx/v5/stdlib"
)

// Open connects to PostgreSQL through the pgx stdlib driver and verifies the
// connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
    auth := url.User(user)
    if pass != "" {
        auth = url.UserPassword(user, pass)
    }
    // sslmode=prefer -> TLS when the server offers it (managed Postgres usually requires it)
    dsn := fmt.Sprintf("postgres://%s@%s:%s/%s?sslmode=prefer", auth.String(), host, port, name)

    db, err := sql.Open("pgx", dsn)
    if err != nil {
        return nil, err
    }

    // Pool settings
    db.SetMaxOpenConns(25)
    db.SetMaxIdleConns(25)
    db.SetConnMaxLifetime(30 * time.Minute)

    // Ping with timeout
    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    if err := db.PingContext(ctx); err != nil {
        return nil, err
    }
    return db, nil
}
