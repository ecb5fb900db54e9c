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

// TicketAdminHandler serves the admin support queue.
type TicketAdminHandler struct {
    Tickets *repository.TicketRepo
}

// NewTicketAdminHandler returns a TicketAdminHandler.
func NewTicketAdminHandler(tickets *repository.TicketRepo) *TicketAdminHandler {
    return &TicketAdminHandler{Tickets: tickets}
}

// List handles GET /v1/admin/tickets?status=&limit=&offset= across all
// businesses.
func (h *TicketAdminHandler) List(c echo.Context) error {
    limit, offset := pageParams(c)
    items, err := h.Tickets.List(c.Request().Context(), c.QueryParam("status"), 0, limit, offset)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": viewTickets(items)})
}

// Get handles GET /v1/admin/tickets/:id with the full reply thread.
func (h *TicketAdminHandler) Get(c echo.Context) error {
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
    replies, err := h.Tickets.Replies(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "ticket":  viewTicket(t),
        "replies": viewReplies(replies),
    })
}

// UpdateStatus handles PATCH /v1/admin/tickets/:id/status with
// {"status": "..."}.
func (h *TicketAdminHandler) UpdateStatus(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req struct {
        Status string `json:"status" validate:"required,oneof=OPEN IN_PROGRESS RESOLVED CLOSED"`
    }
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }
    if err := h.Tickets.UpdateStatus(c.Request().Context(), id, req.Status); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"id": id, "status": req.Status})
}

// Reply handles POST /v1/admin/tickets/:id/replies.
func (h *TicketAdminHandler) Reply(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    userID, ok := middleware.UserID(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req struct {
        Body string `json:"body" validate:"required,max=5000"`
    }
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }
    ctx := c.Request().Context()
    if _, err := h.Tickets.GetByID(ctx, id); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    reply := &model.TicketReply{TicketID: id, AuthorUserID: userID, Body: req.Body}
    if err := h.Tickets.AddReply(ctx, reply); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not add reply"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"id": reply.ID, "ticket_id": id})
}
