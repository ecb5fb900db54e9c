package handler

import (
    "database/sql"
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/gezipass/pass-platform/internal/model"
    "github.com/gezipass/pass-platform/internal/repository"
)

// CustomerHandler serves the admin customer screens.
type CustomerHandler struct {
    Customers *repository.CustomerRepo
    Passes    *repository.PassRepo
}

// NewCustomerHandler returns a CustomerHandler.
func NewCustomerHandler(customers *repository.CustomerRepo, passes *repository.PassRepo) *CustomerHandler {
    return &CustomerHandler{Customers: customers, Passes: passes}
}

type customerReq struct {
    FullName string `json:"full_name" validate:"required,max=120"`
    Email    string `json:"email" validate:"required,email"`
    Phone    string `json:"phone" validate:"max=32"`
}

// Create handles POST /v1/admin/customers.
func (h *CustomerHandler) Create(c echo.Context) error {
    var req customerReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }
    cust := &model.Customer{FullName: req.FullName, Email: req.Email, Phone: req.Phone, IsActive: true}
    if err := h.Customers.Create(c.Request().Context(), cust); err != nil {
        if errors.Is(err, repository.ErrEmailExists) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
        }
        c.Logger().Errorf("create customer: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create customer"})
    }
    cust.IsActive = true
    return c.JSON(http.StatusCreated, viewCustomer(cust))
}

// Get handles GET /v1/admin/customers/:id. The customer's passes are
// included so the detail screen needs one call.
func (h *CustomerHandler) Get(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    cust, err := h.Customers.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    passes, err := h.Passes.ListByCustomer(c.Request().Context(), id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "customer": viewCustomer(cust),
        "passes":   viewPasses(passes),
    })
}

// List handles GET /v1/admin/customers?search=&limit=&offset=.
func (h *CustomerHandler) List(c echo.Context) error {
    limit, offset := pageParams(c)
    items, err := h.Customers.List(c.Request().Context(), c.QueryParam("search"), limit, offset)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": viewCustomers(items)})
}

// Update handles PUT /v1/admin/customers/:id.
func (h *CustomerHandler) Update(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req customerReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }
    cust := &model.Customer{ID: id, FullName: req.FullName, Email: req.Email, Phone: req.Phone}
    if err := h.Customers.Update(c.Request().Context(), cust); err != nil {
        switch {
        case errors.Is(err, sql.ErrNoRows):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
        case errors.Is(err, repository.ErrEmailExists):
            return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    fresh, err := h.Customers.GetByID(c.Request().Context(), id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, viewCustomer(fresh))
}

// SetActive handles PATCH /v1/admin/customers/:id/active with a body
// of {"active": bool}. Deactivation blocks new orders, not existing
// passes.
func (h *CustomerHandler) SetActive(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req struct {
        Active *bool `json:"active" validate:"required"`
    }
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }
    if err := h.Customers.SetActive(c.Request().Context(), id, *req.Active); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"id": id, "is_active": *req.Active})
}
