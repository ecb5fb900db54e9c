// Package service contains the pass validation engine. The engine
// turns a scanned identifier into an accepted or rejected redemption:
// resolve the pass, resolve the discount rule for the presenting
// business, check the usage policy and, on success, consume one usage
// and append the ledger row atomically. Every attempt, including
// rejections, leaves exactly one ledger row.
package service

import (
    "context"
    "errors"
    "fmt"
    "math"
    "strings"
    "time"

    "github.com/gezipass/pass-platform/internal/model"
    "github.com/gezipass/pass-platform/internal/repository"
)

// Rejection reasons. These are machine-readable and stored on the
// ledger next to the human-readable message returned to the scanner.
const (
    ReasonNotFound      = "NotFound"
    ReasonExpired       = "Expired"
    ReasonRevoked       = "Revoked"
    ReasonNotEligible   = "NotEligibleAtThisBusiness"
    ReasonUsageExceeded = "UsageExceeded"
)

// Stores required by the engine. Interfaces so tests can run the full
// state machine against in-memory fakes; the SQL implementations live
// in the repository package.
type PassStore interface {
    FindByIdentifier(ctx context.Context, identifier string) (*model.Pass, error)
}

type PassTypeStore interface {
    GetByID(ctx context.Context, id uint64) (*model.PassType, error)
}

type RuleResolver interface {
    Resolve(ctx context.Context, passTypeID, businessID uint64) (*model.BusinessDiscountRule, error)
}

// RedemptionLedger persists validation attempts. ApplyAndRecord must
// consume one usage and write the accepted row as a single atomic
// unit, returning repository.ErrUsageExceeded (and the unchanged
// count) when the counter is already at the limit. Append writes a
// rejected row.
type RedemptionLedger interface {
    Append(ctx context.Context, rec *model.RedemptionRecord) error
    ApplyAndRecord(ctx context.Context, passID, businessID uint64, limit uint32, rec *model.RedemptionRecord) (uint32, error)
}

// ValidateRequest carries one scan from the till.
type ValidateRequest struct {
    Identifier     string
    Method         string // qr_code | pin_code | manual
    OriginalAmount *float64
    Notes          string
    RequestID      string // optional client correlation ID
}

// DiscountApplied reports the money outcome of an accepted validation
// with a sale amount.
type DiscountApplied struct {
    Percentage       uint8    `json:"percentage"`
    OriginalAmount   float64  `json:"originalAmount"`
    DiscountedAmount float64  `json:"discountedAmount"`
    Savings          float64  `json:"savings"`
}

// ValidatedPass is the pass projection returned on acceptance.
type ValidatedPass struct {
    ID              uint64           `json:"id"`
    PassName        string           `json:"passName"`
    CustomerID      uint64           `json:"customerId"`
    ExpiryDate      string           `json:"expiryDate"`
    UsageCount      uint32           `json:"usageCount"`
    MaxUsage        uint32           `json:"maxUsage"` // 0 = unlimited
    DiscountPercent uint8            `json:"discountPercent"`
    DiscountApplied *DiscountApplied `json:"discountApplied,omitempty"`
}

// ValidateResult is the structured outcome of one validation call.
// Rejections are results, not errors: only infrastructure failures
// surface as an error from ValidatePass.
type ValidateResult struct {
    Valid        bool
    Message      string
    Reason       string // empty when Valid
    RedemptionID uint64 // ledger row written for this attempt
    Pass         *ValidatedPass
}

// ValidationEngine orchestrates the state machine
// lookup -> resolve rule -> check usage -> apply-and-record.
type ValidationEngine struct {
    passes    PassStore
    passTypes PassTypeStore
    rules     RuleResolver
    ledger    RedemptionLedger
    now       func() time.Time // injectable for tests
}

// NewValidationEngine wires the engine to its stores.
func NewValidationEngine(passes PassStore, passTypes PassTypeStore, rules RuleResolver, ledger RedemptionLedger) *ValidationEngine {
    return &ValidationEngine{
        passes:    passes,
        passTypes: passTypes,
        rules:     rules,
        ledger:    ledger,
        now:       func() time.Time { return time.Now().UTC() },
    }
}

// ApplyDiscount computes the discounted amount and savings for a sale,
// half up to 2 decimals (TRY display convention). The math runs in
// integer cents: the amount is quantized to cents first and the
// percentage applied with integer arithmetic, so a decimal midpoint
// like 0.05 at 30% rounds up to 0.04 instead of being pulled down by
// binary float error. Savings is the exact cent difference, so
// discounted + savings always reproduces the original.
func ApplyDiscount(original float64, percent uint8) (discounted, savings float64) {
    cents := int64(math.Round(original * 100))
    discCents := (cents*int64(100-percent) + 50) / 100
    return float64(discCents) / 100, float64(cents-discCents) / 100
}

var rejectionMessages = map[string]string{
    ReasonNotFound:      "Pass not found. Check the code and try again.",
    ReasonExpired:       "This pass has expired.",
    ReasonRevoked:       "This pass has been revoked.",
    ReasonNotEligible:   "This pass is not valid at this business.",
    ReasonUsageExceeded: "Usage limit reached for this pass at your business.",
}

// ValidatePass runs one validation attempt for a business. The
// returned error is non-nil only for infrastructure failures (store
// unavailable); all business-rule outcomes, including rejections, come
// back as a ValidateResult.
func (e *ValidationEngine) ValidatePass(ctx context.Context, businessID uint64, req ValidateRequest) (ValidateResult, error) {
    identifier := strings.TrimSpace(req.Identifier)

    pass, err := e.passes.FindByIdentifier(ctx, identifier)
    if err != nil {
        if errors.Is(err, repository.ErrPassNotFound) {
            return e.reject(ctx, nil, businessID, req, ReasonNotFound)
        }
        return ValidateResult{}, fmt.Errorf("lookup pass: %w", err)
    }

    // Revoked wins over expiry; expiry is computed from the expiry
    // date even when the status column still says ACTIVE.
    if pass.Status == model.PassStatusRevoked {
        return e.reject(ctx, pass, businessID, req, ReasonRevoked)
    }
    if pass.Status == model.PassStatusExpired || pass.ExpiryDate.Before(e.now()) {
        return e.reject(ctx, pass, businessID, req, ReasonExpired)
    }

    rule, err := e.rules.Resolve(ctx, pass.PassTypeID, businessID)
    if err != nil {
        if errors.Is(err, repository.ErrNoRuleForBusiness) {
            return e.reject(ctx, pass, businessID, req, ReasonNotEligible)
        }
        return ValidateResult{}, fmt.Errorf("resolve rule: %w", err)
    }

    passType, err := e.passTypes.GetByID(ctx, pass.PassTypeID)
    if err != nil {
        return ValidateResult{}, fmt.Errorf("load pass type: %w", err)
    }

    rec := e.newRecord(pass, businessID, req)
    rec.Outcome = model.OutcomeAccepted
    rec.DiscountPercent = rule.DiscountPercent

    var applied *DiscountApplied
    if req.OriginalAmount != nil {
        original := *req.OriginalAmount
        discounted, savings := ApplyDiscount(original, rule.DiscountPercent)
        rec.DiscountedAmount = &discounted
        applied = &DiscountApplied{
            Percentage:       rule.DiscountPercent,
            OriginalAmount:   original,
            DiscountedAmount: discounted,
            Savings:          savings,
        }
    }

    newCount, err := e.ledger.ApplyAndRecord(ctx, pass.ID, businessID, rule.UsageLimit(), rec)
    if err != nil {
        if errors.Is(err, repository.ErrUsageExceeded) {
            return e.reject(ctx, pass, businessID, req, ReasonUsageExceeded)
        }
        return ValidateResult{}, fmt.Errorf("apply redemption: %w", err)
    }

    message := "Pass accepted."
    if applied != nil {
        message = fmt.Sprintf("Pass accepted: %d%% discount applied.", rule.DiscountPercent)
    }
    return ValidateResult{
        Valid:        true,
        Message:      message,
        RedemptionID: rec.ID,
        Pass: &ValidatedPass{
            ID:              pass.ID,
            PassName:        passType.Name,
            CustomerID:      pass.CustomerID,
            ExpiryDate:      pass.ExpiryDate.UTC().Format(time.RFC3339),
            UsageCount:      newCount,
            MaxUsage:        rule.UsageLimit(),
            DiscountPercent: rule.DiscountPercent,
            DiscountApplied: applied,
        },
    }, nil
}

// reject appends the rejected ledger row and builds the result. The
// row is written outside any transaction so repeated failed scans stay
// auditable even though nothing else changed.
func (e *ValidationEngine) reject(ctx context.Context, pass *model.Pass, businessID uint64, req ValidateRequest, reason string) (ValidateResult, error) {
    rec := e.newRecord(pass, businessID, req)
    rec.Outcome = model.OutcomeRejected
    rec.RejectReason = &reason
    if err := e.ledger.Append(ctx, rec); err != nil {
        return ValidateResult{}, fmt.Errorf("append rejection: %w", err)
    }
    return ValidateResult{
        Valid:        false,
        Message:      rejectionMessages[reason],
        Reason:       reason,
        RedemptionID: rec.ID,
    }, nil
}

func (e *ValidationEngine) newRecord(pass *model.Pass, businessID uint64, req ValidateRequest) *model.RedemptionRecord {
    rec := &model.RedemptionRecord{
        BusinessID:       businessID,
        ValidationMethod: req.Method,
        OriginalAmount:   req.OriginalAmount,
    }
    if pass != nil {
        id := pass.ID
        rec.PassID = &id
    }
    if notes := strings.TrimSpace(req.Notes); notes != "" {
        rec.Notes = &notes
    }
    if rid := strings.TrimSpace(req.RequestID); rid != "" {
        rec.RequestID = &rid
    }
    return rec
}
