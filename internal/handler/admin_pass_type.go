package handler

import (
    "database/sql"
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/gezipass/pass-platform/internal/model"
    "github.com/gezipass/pass-platform/internal/repository"
)

// PassTypeHandler serves the admin campaign screens: pass type
// configuration and the per-business discount rules hanging off each
// type.
type PassTypeHandler struct {
    PassTypes  *repository.PassTypeRepo
    Rules      *repository.DiscountRuleRepo
    Businesses *repository.BusinessRepo
}

// NewPassTypeHandler returns a PassTypeHandler.
func NewPassTypeHandler(passTypes *repository.PassTypeRepo, rules *repository.DiscountRuleRepo, businesses *repository.BusinessRepo) *PassTypeHandler {
    return &PassTypeHandler{PassTypes: passTypes, Rules: rules, Businesses: businesses}
}

type passTypeReq struct {
    Name         string  `json:"name" validate:"required,max=120"`
    Description  string  `json:"description" validate:"max=500"`
    PriceAmount  float64 `json:"price_amount" validate:"gte=0"`
    ValidityDays uint32  `json:"validity_days" validate:"required,gte=1"`
}

// Create handles POST /v1/admin/pass-types. New types start inactive
// so rules can be configured before the campaign goes on sale.
func (h *PassTypeHandler) Create(c echo.Context) error {
    var req passTypeReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }
    pt := &model.PassType{
        Name:         req.Name,
        Description:  req.Description,
        PriceAmount:  req.PriceAmount,
        ValidityDays: req.ValidityDays,
    }
    if err := h.PassTypes.Create(c.Request().Context(), pt); err != nil {
        c.Logger().Errorf("create pass type: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create pass type"})
    }
    return c.JSON(http.StatusCreated, viewPassType(pt))
}

// Get handles GET /v1/admin/pass-types/:id, including the type's
// active discount rules.
func (h *PassTypeHandler) Get(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    pt, err := h.PassTypes.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "pass type not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    rules, err := h.Rules.ListByPassType(c.Request().Context(), id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "pass_type": viewPassType(pt),
        "rules":     viewRules(rules),
    })
}

// List handles GET /v1/admin/pass-types (all types, active or not).
func (h *PassTypeHandler) List(c echo.Context) error {
    items, err := h.PassTypes.List(c.Request().Context(), false)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": viewPassTypes(items)})
}

// Update handles PUT /v1/admin/pass-types/:id. Already-issued passes
// keep their original expiry.
func (h *PassTypeHandler) Update(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req passTypeReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }
    pt := &model.PassType{
        ID:           id,
        Name:         req.Name,
        Description:  req.Description,
        PriceAmount:  req.PriceAmount,
        ValidityDays: req.ValidityDays,
    }
    if err := h.PassTypes.Update(c.Request().Context(), pt); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "pass type not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    fresh, err := h.PassTypes.GetByID(c.Request().Context(), id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, viewPassType(fresh))
}

// SetActive handles PATCH /v1/admin/pass-types/:id/active with
// {"active": bool}: publish or retire a campaign.
func (h *PassTypeHandler) SetActive(c echo.Context) error {
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
    if err := h.PassTypes.SetActive(c.Request().Context(), id, *req.Active); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "pass type not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"id": id, "is_active": *req.Active})
}

type ruleReq struct {
    BusinessID      uint64 `json:"business_id" validate:"required"`
    DiscountPercent uint8  `json:"discount_percentage" validate:"required,gte=1,lte=100"`
    UsageType       string `json:"usage_type" validate:"required,oneof=once limited unlimited"`
    MaxUsage        uint32 `json:"max_usage"`
}

// SetRule handles PUT /v1/admin/pass-types/:id/rules: install the
// active discount rule for one business, replacing any previous one.
func (h *PassTypeHandler) SetRule(c echo.Context) error {
    passTypeID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req ruleReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }
    if req.UsageType == model.UsageTypeLimited && req.MaxUsage == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "max_usage is required for limited usage"})
    }
    if req.UsageType != model.UsageTypeLimited {
        req.MaxUsage = 0
    }

    ctx := c.Request().Context()
    if _, err := h.PassTypes.GetByID(ctx, passTypeID); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "pass type not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    if _, err := h.Businesses.GetByID(ctx, req.BusinessID); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "business not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }

    rule := &model.BusinessDiscountRule{
        PassTypeID:      passTypeID,
        BusinessID:      req.BusinessID,
        DiscountPercent: req.DiscountPercent,
        UsageType:       req.UsageType,
        MaxUsage:        req.MaxUsage,
    }
    if err := h.Rules.Replace(ctx, rule); err != nil {
        c.Logger().Errorf("replace rule: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not save rule"})
    }
    return c.JSON(http.StatusOK, viewRule(rule))
}

// RemoveRule handles DELETE /v1/admin/pass-types/:id/rules/:businessId:
// retire the business's rule without a replacement, making it
// ineligible for the pass type.
func (h *PassTypeHandler) RemoveRule(c echo.Context) error {
    passTypeID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    businessID, ok := pathID(c, "businessId")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid business id"})
    }
    if err := h.Rules.Deactivate(c.Request().Context(), passTypeID, businessID); err != nil {
        if errors.Is(err, repository.ErrNoRuleForBusiness) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "no active rule for this business"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    return c.NoContent(http.StatusNoContent)
}
