package handler

import (
    "database/sql"
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/gezipass/pass-platform/internal/model"
    "github.com/gezipass/pass-platform/internal/repository"
)

// BusinessAdminHandler serves the admin partner-management screens,
// including the onboarding workflow.
type BusinessAdminHandler struct {
    Businesses *repository.BusinessRepo
}

// NewBusinessAdminHandler returns a BusinessAdminHandler.
func NewBusinessAdminHandler(businesses *repository.BusinessRepo) *BusinessAdminHandler {
    return &BusinessAdminHandler{Businesses: businesses}
}

type businessReq struct {
    Name         string `json:"name" validate:"required,max=120"`
    Category     string `json:"category" validate:"required,max=60"`
    ContactEmail string `json:"contact_email" validate:"required,email"`
    Phone        string `json:"phone" validate:"max=32"`
    Address      string `json:"address" validate:"max=255"`
}

// Create handles POST /v1/admin/businesses. New partners start in
// PENDING until approved.
func (h *BusinessAdminHandler) Create(c echo.Context) error {
    var req businessReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }
    b := &model.Business{
        Name:         req.Name,
        Category:     req.Category,
        ContactEmail: req.ContactEmail,
        Phone:        req.Phone,
        Address:      req.Address,
    }
    if err := h.Businesses.Create(c.Request().Context(), b); err != nil {
        c.Logger().Errorf("create business: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create business"})
    }
    return c.JSON(http.StatusCreated, viewBusiness(b))
}

// Get handles GET /v1/admin/businesses/:id.
func (h *BusinessAdminHandler) Get(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    b, err := h.Businesses.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "business not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, viewBusiness(b))
}

// List handles GET /v1/admin/businesses?status=&limit=&offset=.
func (h *BusinessAdminHandler) List(c echo.Context) error {
    limit, offset := pageParams(c)
    items, err := h.Businesses.List(c.Request().Context(), c.QueryParam("status"), limit, offset)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": viewBusinesses(items)})
}

// Update handles PUT /v1/admin/businesses/:id. Profile fields only;
// status is moved via the workflow endpoints.
func (h *BusinessAdminHandler) Update(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req businessReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }
    b := &model.Business{
        ID:           id,
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
    fresh, err := h.Businesses.GetByID(c.Request().Context(), id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, viewBusiness(fresh))
}

// Approve handles POST /v1/admin/businesses/:id/approve
// (PENDING -> ACTIVE).
func (h *BusinessAdminHandler) Approve(c echo.Context) error {
    return h.transition(c, model.BusinessStatusActive)
}

// Suspend handles POST /v1/admin/businesses/:id/suspend
// (ACTIVE -> SUSPENDED). A suspended partner's scans are rejected at
// the door without touching the ledger.
func (h *BusinessAdminHandler) Suspend(c echo.Context) error {
    return h.transition(c, model.BusinessStatusSuspended)
}

// Reactivate handles POST /v1/admin/businesses/:id/reactivate
// (SUSPENDED -> ACTIVE).
func (h *BusinessAdminHandler) Reactivate(c echo.Context) error {
    return h.transition(c, model.BusinessStatusActive)
}

func (h *BusinessAdminHandler) transition(c echo.Context, target string) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    err := h.Businesses.Transition(c.Request().Context(), id, target)
    switch {
    case err == nil:
        return c.JSON(http.StatusOK, echo.Map{"id": id, "status": target})
    case errors.Is(err, sql.ErrNoRows):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "business not found"})
    case errors.Is(err, repository.ErrConflict):
        return c.JSON(http.StatusConflict, echo.Map{"error": "transition not allowed from current status"})
    default:
        c.Logger().Errorf("business transition: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
}
