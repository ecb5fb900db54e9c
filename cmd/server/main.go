package main

import (
    "context"
    "log"
    "time"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"

    "github.com/gezipass/pass-platform/internal/config"
    "github.com/gezipass/pass-platform/internal/database"
    "github.com/gezipass/pass-platform/internal/handler"
    "github.com/gezipass/pass-platform/internal/queue"
    "github.com/gezipass/pass-platform/internal/repository"
    "github.com/gezipass/pass-platform/internal/router"
    "github.com/gezipass/pass-platform/internal/service"
)

func main() {
    // .env is optional; real deployments set the environment directly.
    _ = godotenv.Load()

    cfg := config.Load()
    rlCfg := config.LoadRateLimitConfig()
    cacheCfg := config.LoadCacheConfig()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer func() { _ = db.Close() }()

    rdb := config.NewRedisClient() // nil when redis is unreachable; limiter and cache degrade

    users := repository.NewUserRepo(db)
    tokens := repository.NewTokenRepo(db)
    customers := repository.NewCustomerRepo(db)
    businesses := repository.NewBusinessRepo(db)
    passTypes := repository.NewPassTypeRepo(db)
    passes := repository.NewPassRepo(db)
    rules := repository.NewDiscountRuleRepo(db)
    orders := repository.NewOrderRepo(db, passes)
    redemptions := repository.NewRedemptionRepo(db)
    tickets := repository.NewTicketRepo(db)

    engine := service.NewValidationEngine(passes, passTypes, rules, redemptions)

    e := echo.New()
    e.HideBanner = true
    e.Validator = handler.NewRequestValidator()
    e.Use(echomw.Recover())
    e.Use(echomw.Logger())

    authH := handler.NewAuthHandler(cfg, users, tokens, businesses)
    publicH := handler.NewPublicHandler(passTypes)
    scannerH := handler.NewScannerHandler(engine, redemptions, service.NewEventPublisher())
    portalH := handler.NewPortalHandler(businesses, rules, passTypes, tickets)
    admin := router.AdminHandlers{
        Customers:  handler.NewCustomerHandler(customers, passes),
        Businesses: handler.NewBusinessAdminHandler(businesses),
        PassTypes:  handler.NewPassTypeHandler(passTypes, rules, businesses),
        Orders:     handler.NewOrderHandler(orders, customers, passTypes),
        Passes:     handler.NewPassAdminHandler(passes, redemptions),
        Tickets:    handler.NewTicketAdminHandler(tickets),
    }

    router.RegisterRoutes(e, publicH, cacheCfg, rdb)
    router.RegisterAuth(e, authH, cfg.JWTSecret)
    router.RegisterAdmin(e, admin, cfg.JWTSecret)
    router.RegisterBusiness(e, scannerH, portalH, businesses, cfg.JWTSecret, rlCfg, rdb)

    go func() {
        if err := queue.StartRedemptionConsumer(); err != nil {
            log.Printf("redemption consumer stopped: %v", err)
        }
    }()
    go service.RunPassExpiry(context.Background(), passes, time.Hour)

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)
    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
