// Package router wires handlers, middleware and route groups onto the
// Echo instance. Routes split into four surfaces: public storefront,
// auth, the admin dashboard and the partner (business) portal.
package router

import (
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/gezipass/pass-platform/internal/config"
    "github.com/gezipass/pass-platform/internal/handler"
    "github.com/gezipass/pass-platform/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication: the
// health check and the public storefront.
func RegisterRoutes(e *echo.Echo, p *handler.PublicHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
    e.GET("/healthz", handler.Health)
    e.GET("/v1/pass-types", p.ListPassTypes, middleware.CacheJSON(cacheCfg, rdb))
}

// RegisterAuth registers the token endpoints under /v1/auth plus the
// authenticated /v1/me.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
    g := e.Group("/v1/auth")
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)
    g.POST("/refresh", a.Refresh)
    g.POST("/refresh-access", a.RefreshAccess)
    g.POST("/logout", a.Logout)

    auth := e.Group("/v1")
    auth.Use(middleware.JWTAuth(jwtSecret))
    auth.GET("/me", a.Me)
}
