package model

import "time"

// Usage policies for a discount rule. "once" allows a single
// redemption per pass at the business, "limited" allows up to
// MaxUsage, "unlimited" never blocks on the counter.
const (
    UsageTypeOnce      = "once"
    UsageTypeLimited   = "limited"
    UsageTypeUnlimited = "unlimited"
)

// BusinessDiscountRule binds a pass type to a business with a discount
// percentage and a usage policy. For a given (pass_type_id,
// business_id) pair exactly one active rule exists at any time; the
// repository enforces this by deactivating the previous rule in the
// same transaction that inserts a replacement.
//
// Fields:
//  ID              – primary key identifier.
//  PassTypeID      – pass type the rule applies to.
//  BusinessID      – business the rule applies at.
//  DiscountPercent – integer percentage, 0–100.
//  UsageType       – once, limited or unlimited.
//  MaxUsage        – per-pass cap; meaningful only when UsageType is
//                    "limited".
//  IsActive        – superseded rules are kept for audit, deactivated.
type BusinessDiscountRule struct {
    ID              uint64    // business_discount_rules.id
    PassTypeID      uint64    // business_discount_rules.pass_type_id
    BusinessID      uint64    // business_discount_rules.business_id
    DiscountPercent uint8     // business_discount_rules.discount_percent
    UsageType       string    // business_discount_rules.usage_type
    MaxUsage        uint32    // business_discount_rules.max_usage
    IsActive        bool      // business_discount_rules.is_active
    CreatedAt       time.Time // business_discount_rules.created_at
    UpdatedAt       time.Time // business_discount_rules.updated_at
}

// UsageLimit converts the rule's policy into a numeric cap on the
// usage counter. Zero means unbounded.
func (r *BusinessDiscountRule) UsageLimit() uint32 {
    switch r.UsageType {
    case UsageTypeOnce:
        return 1
    case UsageTypeLimited:
        return r.MaxUsage
    default:
        return 0
    }
}
