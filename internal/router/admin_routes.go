package router

import (
    "github.com/labstack/echo/v4"

    "github.com/gezipass/pass-platform/internal/handler"
    "github.com/gezipass/pass-platform/internal/middleware"
    "github.com/gezipass/pass-platform/internal/model"
)

// AdminHandlers bundles everything the admin dashboard needs.
type AdminHandlers struct {
    Customers  *handler.CustomerHandler
    Businesses *handler.BusinessAdminHandler
    PassTypes  *handler.PassTypeHandler
    Orders     *handler.OrderHandler
    Passes     *handler.PassAdminHandler
    Tickets    *handler.TicketAdminHandler
}

// RegisterAdmin registers the admin dashboard under /v1/admin. Every
// route requires a valid token with the ADMIN role.
func RegisterAdmin(e *echo.Echo, h AdminHandlers, jwtSecret string) {
    g := e.Group("/v1/admin")
    g.Use(middleware.JWTAuth(jwtSecret))
    g.Use(middleware.RequireRole(model.RoleAdmin))

    g.POST("/customers", h.Customers.Create)
    g.GET("/customers", h.Customers.List)
    g.GET("/customers/:id", h.Customers.Get)
    g.PUT("/customers/:id", h.Customers.Update)
    g.PATCH("/customers/:id/active", h.Customers.SetActive)

    g.POST("/businesses", h.Businesses.Create)
    g.GET("/businesses", h.Businesses.List)
    g.GET("/businesses/:id", h.Businesses.Get)
    g.PUT("/businesses/:id", h.Businesses.Update)
    g.POST("/businesses/:id/approve", h.Businesses.Approve)
    g.POST("/businesses/:id/suspend", h.Businesses.Suspend)
    g.POST("/businesses/:id/reactivate", h.Businesses.Reactivate)

    g.POST("/pass-types", h.PassTypes.Create)
    g.GET("/pass-types", h.PassTypes.List)
    g.GET("/pass-types/:id", h.PassTypes.Get)
    g.PUT("/pass-types/:id", h.PassTypes.Update)
    g.PATCH("/pass-types/:id/active", h.PassTypes.SetActive)
    g.PUT("/pass-types/:id/rules", h.PassTypes.SetRule)
    g.DELETE("/pass-types/:id/rules/:businessId", h.PassTypes.RemoveRule)

    g.POST("/orders", h.Orders.Create)
    g.GET("/orders", h.Orders.List)
    g.GET("/orders/:id", h.Orders.Get)
    g.POST("/orders/:id/pay", h.Orders.MarkPaid)
    g.POST("/orders/:id/cancel", h.Orders.Cancel)

    g.GET("/passes/:id", h.Passes.Get)
    g.POST("/passes/:id/revoke", h.Passes.Revoke)
    g.GET("/passes/:id/history", h.Passes.History)

    g.GET("/tickets", h.Tickets.List)
    g.GET("/tickets/:id", h.Tickets.Get)
    g.PATCH("/tickets/:id/status", h.Tickets.UpdateStatus)
    g.POST("/tickets/:id/replies", h.Tickets.Reply)
}
