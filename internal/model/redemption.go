package model

import "time"

// Validation methods recorded on the ledger.
const (
    MethodQRCode  = "qr_code"
    MethodPINCode = "pin_code"
    MethodManual  = "manual"
)

// Redemption outcomes.
const (
    OutcomeAccepted = "accepted"
    OutcomeRejected = "rejected"
)

// UsageCounter tracks how many times a pass has been redeemed at a
// specific business. The (pass_id, business_id) pair is the unique key,
// which makes the "once" policy a per-business guarantee. The count is
// monotonically increasing and mutated only inside the redemption
// transaction while the row is locked.
type UsageCounter struct {
    PassID     uint64    // usage_counters.pass_id
    BusinessID uint64    // usage_counters.business_id
    Count      uint32    // usage_counters.count
    UpdatedAt  time.Time // usage_counters.updated_at
}

// RedemptionRecord is one row of the append-only ledger. Every
// validation attempt, accepted or rejected, produces exactly one
// record so that support can reconstruct what happened at the till.
//
// Fields:
//  ID               – primary key identifier.
//  PassID           – the pass presented; nil when the identifier did
//                     not resolve to any pass.
//  BusinessID       – business where the attempt happened.
//  RequestID        – optional client-supplied correlation ID.
//  ValidationMethod – qr_code, pin_code or manual.
//  OriginalAmount   – sale amount in TRY, nil when the business
//                     validated without a sale.
//  DiscountedAmount – amount after discount, nil when no amount given.
//  DiscountPercent  – percentage applied (0 on rejections).
//  Notes            – free text entered by the cashier.
//  Outcome          – accepted or rejected.
//  RejectReason     – machine-readable reason, nil when accepted.
type RedemptionRecord struct {
    ID               uint64    // redemption_records.id
    PassID           *uint64   // redemption_records.pass_id (nullable)
    BusinessID       uint64    // redemption_records.business_id
    RequestID        *string   // redemption_records.request_id (nullable)
    ValidationMethod string    // redemption_records.validation_method
    OriginalAmount   *float64  // redemption_records.original_amount (nullable)
    DiscountedAmount *float64  // redemption_records.discounted_amount (nullable)
    DiscountPercent  uint8     // redemption_records.discount_percent
    Notes            *string   // redemption_records.notes (nullable)
    Outcome          string    // redemption_records.outcome
    RejectReason     *string   // redemption_records.reject_reason (nullable)
    CreatedAt        time.Time // redemption_records.created_at
}
