// Package queue defines message payloads exchanged over the message
// broker and the background consumer that processes them.
package queue

// PassRedeemedEvent is published after a validation is accepted and
// committed. It carries enough for downstream consumers (logging,
// partner notifications, settlement exports) without querying the
// primary database.
type PassRedeemedEvent struct {
    EventID          string   `json:"event_id"`
    RedemptionID     uint64   `json:"redemption_id"`
    PassID           uint64   `json:"pass_id"`
    PassName         string   `json:"pass_name"`
    CustomerID       uint64   `json:"customer_id"`
    BusinessID       uint64   `json:"business_id"`
    ValidationMethod string   `json:"validation_method"`
    DiscountPercent  uint8    `json:"discount_percent"`
    OriginalAmount   *float64 `json:"original_amount,omitempty"`
    DiscountedAmount *float64 `json:"discounted_amount,omitempty"`
    UsageCount       uint32   `json:"usage_count"`
    RedeemedAt       string   `json:"redeemed_at"`
}
