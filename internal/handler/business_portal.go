package handler

import (
    "database/sql"
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/gezipass/pass-platform/internal/middleware"
    "github.com/gezipass/pass-platform/internal/model"
    "github.com/gezipass/pass-platform/internal/repository"
)

// PortalHandler serves the partner dashboard's own-venue screens:
// profile, accepted passes, support tickets. Everything is scoped to
// the business bound to the caller's token.
type PortalHandler struct {
    Businesses *repository.BusinessRepo
    Rules      *repository.DiscountRuleRepo
    PassTypes  *repository.PassTypeRepo
    Tickets    *repository.TicketRepo
}

// NewPortalHandler returns a PortalHandler.
func NewPortalHandler(businesses *repository.BusinessRepo, rules *repository.DiscountRuleRepo, passTypes *repository.PassTypeRepo, tickets *repository.TicketRepo) *PortalHandler {
    return &PortalHandler{Businesses: businesses, Rules: rules, PassTypes: passTypes, Tickets: tickets}
}

// Profile handles GET /v1/business/profile.
func (h *PortalHandler) Profile(c echo.Context) error {
    businessID, ok := middleware.BusinessID(c)
    if !ok {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "no business bound to this account"})
    }
    b, err := h.Businesses.GetByID(c.Request().Context(), businessID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "business not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, viewBusiness(b))
}

type portalProfileReq struct {
    Name         string `json:"name" validate:"required,max=120"`
    Category     string `json:"category" validate:"required,max=60"`
    ContactEmail string `json:"contact_email" validate:"required,email"`
    Phone        string `json:"phone" validate:"max=32"`
    Address      string `json:"address" validate:"max=255"`
}

// UpdateProfile handles PUT /v1/business/profile. Partners maintain
// their own contact details; status stays admin-only.
func (h *PortalHandler) UpdateProfile(c echo.Context) error {
    businessID, ok := middleware.BusinessID(c)
    if !ok {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "no business bound to this account"})
    }
    var req portalProfileReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }
    b := &model.Business{
        ID:           businessID,
        Name:         req.Name,
        Category:     req.Category,
        ContactEmail: req.ContactEmail,
        Phone:        req.Phone,
        Address:      req.Address,
    }
    if err := h.Businesses.Update(c.Request().Context(), b); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "business not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    fresh, err := h.Businesses.GetByID(c.Request().Context(), businessID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, viewBusiness(fresh))
}

// AcceptedPasses handles GET /v1/business/rules: the pass types this
// venue accepts and at what discount, for the dashboard's "what we
// take" screen.
func (h *PortalHandler) AcceptedPasses(c echo.Context) error {
    businessID, ok := middleware.BusinessID(c)
    if !ok {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "no business bound to this account"})
    }
    ctx := c.Request().Context()
    rules, err := h.Rules.ListByBusiness(ctx, businessID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    items := make([]echo.Map, 0, len(rules))
    for i := range rules {
        rule := &rules[i]
        item := echo.Map{
            "pass_type_id":        rule.PassTypeID,
            "discount_percentage": rule.DiscountPercent,
            "usage_type":          rule.UsageType,
            "max_usage":           rule.MaxUsage,
        }
        if pt, err := h.PassTypes.GetByID(ctx, rule.PassTypeID); err == nil {
            item["pass_type_name"] = pt.Name
        }
        items = append(items, item)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

type portalTicketReq struct {
    Subject string `json:"subject" validate:"required,max=200"`
    Body    string `json:"body" validate:"required,max=5000"`
}

// CreateTicket handles POST /v1/business/tickets.
func (h *PortalHandler) CreateTicket(c echo.Context) error {
    businessID, ok := middleware.BusinessID(c)
    if !ok {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "no business bound to this account"})
    }
    var req portalTicketReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }
    bid := businessID
    t := &model.SupportTicket{BusinessID: &bid, Subject: req.Subject, Body: req.Body}
    if err := h.Tickets.Create(c.Request().Context(), t); err != nil {
        c.Logger().Errorf("create ticket: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create ticket"})
    }
    return c.JSON(http.StatusCreated, viewTicket(t))
}

// ListTickets handles GET /v1/business/tickets?status=, scoped to the
// caller's venue.
func (h *PortalHandler) ListTickets(c echo.Context) error {
    businessID, ok := middleware.BusinessID(c)
    if !ok {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "no business bound to this account"})
    }
    limit, offset := pageParams(c)
    items, err := h.Tickets.List(c.Request().Context(), c.QueryParam("status"), businessID, limit, offset)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": viewTickets(items)})
}

// GetTicket handles GET /v1/business/tickets/:id with the reply
// thread. Tickets belonging to other venues come back 404 rather than
// 403 so ticket IDs are not enumerable.
func (h *PortalHandler) GetTicket(c echo.Context) error {
    businessID, ok := middleware.BusinessID(c)
    if !ok {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "no business bound to this account"})
    }
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx := c.Request().Context()
    t, err := h.Tickets.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    if t.BusinessID == nil || *t.BusinessID != businessID {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
    }
    replies, err := h.Tickets.Replies(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "ticket":  viewTicket(t),
        "replies": viewReplies(replies),
    })
}
