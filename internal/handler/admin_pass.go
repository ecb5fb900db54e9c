package handler

import (
    "context"
    "database/sql"
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/gezipass/pass-platform/internal/model"
)

// PassStore is the slice of the pass repository the admin pass screens
// need.
type PassStore interface {
    GetByID(ctx context.Context, id uint64) (*model.Pass, error)
    UpdateStatus(ctx context.Context, id uint64, status string) error
}

// PassLedger reads a pass's recorded attempts and usage counters.
type PassLedger interface {
    ListByPass(ctx context.Context, passID uint64) ([]model.RedemptionRecord, error)
    UsageCounts(ctx context.Context, passID uint64) ([]model.UsageCounter, error)
}

// PassAdminHandler serves the admin pass screens: inspect a pass,
// revoke it, read its full validation history across businesses.
type PassAdminHandler struct {
    Passes      PassStore
    Redemptions PassLedger
}

// NewPassAdminHandler returns a PassAdminHandler.
func NewPassAdminHandler(passes PassStore, redemptions PassLedger) *PassAdminHandler {
    return &PassAdminHandler{Passes: passes, Redemptions: redemptions}
}

// Get handles GET /v1/admin/passes/:id. The response includes the
// pass's per-business usage counters so support can see at a glance
// where a limited pass burned its uses.
func (h *PassAdminHandler) Get(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx := c.Request().Context()
    p, err := h.Passes.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "pass not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    counters, err := h.Redemptions.UsageCounts(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    usage := make([]echo.Map, 0, len(counters))
    for _, uc := range counters {
        usage = append(usage, echo.Map{
            "business_id": uc.BusinessID,
            "count":       uc.Count,
            "updated_at":  uc.UpdatedAt.UTC().Format(time.RFC3339),
        })
    }
    return c.JSON(http.StatusOK, echo.Map{"pass": viewPass(p), "usage": usage})
}

// Revoke handles POST /v1/admin/passes/:id/revoke. Revocation is
// terminal; the pass rejects from the next scan on.
func (h *PassAdminHandler) Revoke(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx := c.Request().Context()
    p, err := h.Passes.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "pass not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    if p.Status == model.PassStatusRevoked {
        return c.JSON(http.StatusConflict, echo.Map{"error": "pass is already revoked"})
    }
    if err := h.Passes.UpdateStatus(ctx, id, model.PassStatusRevoked); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"id": id, "status": model.PassStatusRevoked})
}

// History handles GET /v1/admin/passes/:id/history: every validation
// attempt recorded for the pass, newest first.
func (h *PassAdminHandler) History(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    recs, err := h.Redemptions.ListByPass(c.Request().Context(), id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    items := make([]echo.Map, 0, len(recs))
    for i := range recs {
        rec := &recs[i]
        item := echo.Map{
            "id":                  rec.ID,
            "business_id":         rec.BusinessID,
            "validation_method":   rec.ValidationMethod,
            "discount_percentage": rec.DiscountPercent,
            "outcome":             rec.Outcome,
            "created_at":          rec.CreatedAt.UTC().Format(time.RFC3339),
        }
        if rec.OriginalAmount != nil {
            item["original_amount"] = *rec.OriginalAmount
        }
        if rec.DiscountedAmount != nil {
            item["discounted_amount"] = *rec.DiscountedAmount
        }
        if rec.RejectReason != nil {
            item["reject_reason"] = *rec.RejectReason
        }
        if rec.Notes != nil {
            item["notes"] = *rec.Notes
        }
        items = append(items, item)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}
