package handler

import (
    "database/sql"
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/gezipass/pass-platform/internal/model"
    "github.com/gezipass/pass-platform/internal/repository"
    "github.com/gezipass/pass-platform/internal/utils"
)

// OrderHandler serves the admin sales screens. Creating an order
// issues the pass in the same transaction, so a sold pass always has
// an order behind it.
type OrderHandler struct {
    Orders    *repository.OrderRepo
    Customers *repository.CustomerRepo
    PassTypes *repository.PassTypeRepo
}

// NewOrderHandler returns an OrderHandler.
func NewOrderHandler(orders *repository.OrderRepo, customers *repository.CustomerRepo, passTypes *repository.PassTypeRepo) *OrderHandler {
    return &OrderHandler{Orders: orders, Customers: customers, PassTypes: passTypes}
}

type createOrderReq struct {
    CustomerID uint64 `json:"customer_id" validate:"required"`
    PassTypeID uint64 `json:"pass_type_id" validate:"required"`
}

// Create handles POST /v1/admin/orders. The pass is issued
// immediately with a fresh activation code, PIN and expiry computed
// from the pass type's validity window; payment settles separately via
// MarkPaid.
func (h *OrderHandler) Create(c echo.Context) error {
    var req createOrderReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }
    ctx := c.Request().Context()

    cust, err := h.Customers.GetByID(ctx, req.CustomerID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    if !cust.IsActive {
        return c.JSON(http.StatusConflict, echo.Map{"error": "customer account is disabled"})
    }

    pt, err := h.PassTypes.GetByID(ctx, req.PassTypeID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "pass type not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    if !pt.IsActive {
        return c.JSON(http.StatusConflict, echo.Map{"error": "pass type is not on sale"})
    }

    expiry, err := repository.ExpiryFor(pt, time.Now())
    if err != nil {
        return c.JSON(http.StatusConflict, echo.Map{"error": "pass type has no validity window"})
    }

    pin, err := utils.NewPIN()
    if err != nil {
        c.Logger().Errorf("generate pin: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not issue pass"})
    }
    pass := &model.Pass{
        CustomerID:     req.CustomerID,
        PassTypeID:     req.PassTypeID,
        ActivationCode: utils.NewActivationCode(),
        PINCode:        pin,
        ExpiryDate:     expiry,
        Status:         model.PassStatusActive,
    }
    order := &model.Order{
        CustomerID: req.CustomerID,
        PassTypeID: req.PassTypeID,
        Amount:     pt.PriceAmount,
        Status:     model.OrderStatusPending,
    }
    if err := h.Orders.CreateWithPass(ctx, order, pass); err != nil {
        c.Logger().Errorf("create order: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create order"})
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "order": viewOrder(order),
        "pass":  viewPass(pass),
    })
}

// Get handles GET /v1/admin/orders/:id.
func (h *OrderHandler) Get(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    o, err := h.Orders.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, viewOrder(o))
}

// List handles GET /v1/admin/orders?status=&limit=&offset=.
func (h *OrderHandler) List(c echo.Context) error {
    limit, offset := pageParams(c)
    items, err := h.Orders.List(c.Request().Context(), c.QueryParam("status"), limit, offset)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": viewOrders(items)})
}

// MarkPaid handles POST /v1/admin/orders/:id/pay
// (PENDING -> PAID only).
func (h *OrderHandler) MarkPaid(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    err := h.Orders.MarkPaid(c.Request().Context(), id)
    switch {
    case err == nil:
        return c.JSON(http.StatusOK, echo.Map{"id": id, "status": model.OrderStatusPaid})
    case errors.Is(err, sql.ErrNoRows):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
    case errors.Is(err, repository.ErrConflict):
        return c.JSON(http.StatusConflict, echo.Map{"error": "order is not pending"})
    default:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
}

// Cancel handles POST /v1/admin/orders/:id/cancel. The order's pass is
// revoked in the same transaction so it stops validating immediately.
func (h *OrderHandler) Cancel(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    err := h.Orders.Cancel(c.Request().Context(), id)
    switch {
    case err == nil:
        return c.JSON(http.StatusOK, echo.Map{"id": id, "status": model.OrderStatusCancelled})
    case errors.Is(err, sql.ErrNoRows):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
    case errors.Is(err, repository.ErrConflict):
        return c.JSON(http.StatusConflict, echo.Map{"error": "order is already cancelled"})
    default:
        c.Logger().Errorf("cancel order: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
}
