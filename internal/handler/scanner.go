package handler

import (
    "context"
    "net/http"
    "strconv"
    "time"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"

    "github.com/gezipass/pass-platform/internal/middleware"
    "github.com/gezipass/pass-platform/internal/queue"
    "github.com/gezipass/pass-platform/internal/repository"
    "github.com/gezipass/pass-platform/internal/service"
)

// PassValidator is what the scanner endpoint needs from the
// validation engine; an interface so handler tests can fake it.
type PassValidator interface {
    ValidatePass(ctx context.Context, businessID uint64, req service.ValidateRequest) (service.ValidateResult, error)
}

// HistoryStore serves the partner dashboard's redemption history.
type HistoryStore interface {
    ListByBusiness(ctx context.Context, businessID uint64, limit int) ([]repository.HistoryItem, error)
}

// RedemptionPublisher emits the pass.redeemed event after an accepted
// scan; an interface so handler tests can fake it instead of reaching
// for a broker.
type RedemptionPublisher interface {
    PublishPassRedeemed(ctx context.Context, event queue.PassRedeemedEvent) error
}

// ScannerHandler serves the till-facing endpoints of the business
// portal: scan a pass, read back the redemption history.
type ScannerHandler struct {
    Engine  PassValidator
    History HistoryStore
    Events  RedemptionPublisher
}

// NewScannerHandler returns a ScannerHandler. events may be nil, which
// disables the pass.redeemed notifications.
func NewScannerHandler(engine PassValidator, history HistoryStore, events RedemptionPublisher) *ScannerHandler {
    return &ScannerHandler{Engine: engine, History: history, Events: events}
}

type validatePassReq struct {
    Identifier     string   `json:"identifier" validate:"required"`
    ValidationType string   `json:"validationType" validate:"required,oneof=qr_code pin_code manual"`
    Notes          string   `json:"notes"`
    OriginalAmount *float64 `json:"originalAmount" validate:"omitempty,gte=0"`
}

type validatePassResp struct {
    Success bool                   `json:"success"`
    Valid   bool                   `json:"valid"`
    Message string                 `json:"message"`
    Pass    *service.ValidatedPass `json:"pass,omitempty"`
}

// ValidatePass handles POST /v1/business/validate-pass. Rejections are
// HTTP 200 with valid=false; only infrastructure failures return 5xx.
func (h *ScannerHandler) ValidatePass(c echo.Context) error {
    businessID, ok := middleware.BusinessID(c)
    if !ok {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "no business bound to this account"})
    }

    var req validatePassReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }

    result, err := h.Engine.ValidatePass(c.Request().Context(), businessID, service.ValidateRequest{
        Identifier:     req.Identifier,
        Method:         req.ValidationType,
        OriginalAmount: req.OriginalAmount,
        Notes:          req.Notes,
        RequestID:      c.Request().Header.Get("X-Request-ID"),
    })
    if err != nil {
        c.Logger().Errorf("validate pass: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "validation temporarily unavailable"})
    }

    if result.Valid && result.Pass != nil && h.Events != nil {
        go h.publishRedeemed(businessID, req.ValidationType, result)
    }

    return c.JSON(http.StatusOK, validatePassResp{
        Success: true,
        Valid:   result.Valid,
        Message: result.Message,
        Pass:    result.Pass,
    })
}

// publishRedeemed emits the pass.redeemed event after an accepted
// scan. Best-effort: the ledger row is already committed, so a broker
// outage only costs downstream notifications.
func (h *ScannerHandler) publishRedeemed(businessID uint64, method string, result service.ValidateResult) {
    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()

    p := result.Pass
    event := queue.PassRedeemedEvent{
        EventID:          uuid.NewString(),
        RedemptionID:     result.RedemptionID,
        PassID:           p.ID,
        PassName:         p.PassName,
        CustomerID:       p.CustomerID,
        BusinessID:       businessID,
        ValidationMethod: method,
        DiscountPercent:  p.DiscountPercent,
        UsageCount:       p.UsageCount,
        RedeemedAt:       time.Now().UTC().Format(time.RFC3339),
    }
    if d := p.DiscountApplied; d != nil {
        original := d.OriginalAmount
        discounted := d.DiscountedAmount
        event.OriginalAmount = &original
        event.DiscountedAmount = &discounted
    }
    _ = h.Events.PublishPassRedeemed(ctx, event)
}

// GetHistory handles GET /v1/business/history?limit=N. Newest first,
// default 50, capped at 200 in the repository.
func (h *ScannerHandler) GetHistory(c echo.Context) error {
    businessID, ok := middleware.BusinessID(c)
    if !ok {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "no business bound to this account"})
    }

    limit := 0
    if raw := c.QueryParam("limit"); raw != "" {
        n, err := strconv.Atoi(raw)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "limit must be a number"})
        }
        limit = n
    }

    items, err := h.History.ListByBusiness(c.Request().Context(), businessID, limit)
    if err != nil {
        c.Logger().Errorf("list history: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load history"})
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "redemptions": items})
}
