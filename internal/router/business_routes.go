package router

import (
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/gezipass/pass-platform/internal/config"
    "github.com/gezipass/pass-platform/internal/handler"
    "github.com/gezipass/pass-platform/internal/middleware"
    "github.com/gezipass/pass-platform/internal/model"
)

// RegisterBusiness registers the partner portal under /v1/business.
// Routes require a BUSINESS token bound to an ACTIVE venue; a
// suspended or pending venue is turned away before any handler runs.
// The scan endpoint additionally sits behind the per-business rate
// limiter.
func RegisterBusiness(e *echo.Echo, scanner *handler.ScannerHandler, portal *handler.PortalHandler,
    statuses middleware.StatusReader, jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {

    g := e.Group("/v1/business")
    g.Use(middleware.JWTAuth(jwtSecret))
    g.Use(middleware.RequireRole(model.RoleBusiness))
    g.Use(middleware.RequireActiveBusiness(statuses))

    g.POST("/validate-pass", scanner.ValidatePass, middleware.RateLimit(rlCfg, rdb))
    g.GET("/history", scanner.GetHistory)

    g.GET("/profile", portal.Profile)
    g.PUT("/profile", portal.UpdateProfile)
    g.GET("/rules", portal.AcceptedPasses)

    g.POST("/tickets", portal.CreateTicket)
    g.GET("/tickets", portal.ListTickets)
    g.GET("/tickets/:id", portal.GetTicket)
}
