package main // Entry point package

import (
    "log"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"

    "github.com/glowcart/storefront/internal/config"
    "github.com/glowcart/storefront/internal/database"
    "github.com/glowcart/storefront/internal/handler"
    "github.com/glowcart/storefront/internal/middleware"
    "github.com/glowcart/storefront/internal/queue"
    "github.com/glowcart/storefront/internal/repository"
    "github.com/glowcart/storefront/internal/router"
    "github.com/glowcart/storefront/internal/session"
    "github.com/glowcart/storefront/internal/storage"
)

func main() {
    // .env is optional; real deployments inject the environment directly.
    if err := godotenv.Load(); err != nil {
        log.Printf("no .env file loaded: %v", err)
    }
    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()

    // Redis is optional: a nil client disables caching and rate limiting.
    rdb := config.NewRedisClient(config.LoadRedisConfig())
    if rdb == nil {
        log.Printf("redis unavailable; cache and rate limiting disabled")
    }

    customers := repository.NewCustomerRepo(db)
    products := repository.NewProductRepo(db)
    sessions := session.NewMemoryStore()
    blobs := storage.NewDiskStore(cfg.UploadDir, "/static")

    auth := handler.NewAuthHandler(cfg, customers, sessions)
    catalog := handler.NewProductHandler(products)
    profile := handler.NewProfileHandler(cfg, customers)
    payment := handler.NewPaymentHandler(cfg)
    upload := handler.NewUploadHandler(blobs)

    e := echo.New()
    e.Use(echomw.Recover())
    e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
        AllowOrigins:     []string{"http://localhost:5173", "http://127.0.0.1:5173"},
        AllowCredentials: true,
    }))
    e.Static("/static", cfg.UploadDir)

    limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
    cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

    router.RegisterRoutes(e)
    router.RegisterAuth(e, auth, limiter)
    router.RegisterCatalog(e, catalog, cache, cfg.AccessSecret)
    router.RegisterProfile(e, profile, cfg.AccessSecret)
    router.RegisterPayment(e, payment, cfg.AccessSecret)
    router.RegisterUpload(e, upload, cfg.AccessSecret)

    // Registration events are consumed in the background; the consumer owns
    // its own reconnect loop.
    go func() {
        if err := queue.StartRegistrationConsumer(); err != nil {
            log.Printf("registration-consumer stopped: %v", err)
        }
    }()

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)

    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
