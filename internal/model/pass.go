package model

import "time"

// Pass statuses. A pass is never deleted; it only transitions between
// these states. EXPIRED is set lazily: validation treats a pass whose
// expiry_date has passed as expired even while the column still says
// ACTIVE.
const (
    PassStatusActive  = "ACTIVE"
    PassStatusExpired = "EXPIRED"
    PassStatusRevoked = "REVOKED"
)

// Pass represents a purchased entitlement granting discounts at
// partner businesses. Both the activation code (QR payload) and the
// PIN are alternate lookup keys for the same row.
//
// Fields:
//  ID             – primary key identifier.
//  CustomerID     – owner of the pass.
//  PassTypeID     – the campaign/pass type this pass was issued from.
//  ActivationCode – opaque code embedded in the QR image.
//  PINCode        – short numeric code for manual entry at the till.
//  ExpiryDate     – moment after which the pass no longer validates.
//  Status         – ACTIVE, EXPIRED or REVOKED.
//  CreatedAt      – issuance timestamp.
//  UpdatedAt      – last status transition.
type Pass struct {
    ID             uint64    // passes.id
    CustomerID     uint64    // passes.customer_id
    PassTypeID     uint64    // passes.pass_type_id
    ActivationCode string    // passes.activation_code
    PINCode        string    // passes.pin_code
    ExpiryDate     time.Time // passes.expiry_date
    Status         string    // passes.status
    CreatedAt      time.Time // passes.created_at
    UpdatedAt      time.Time // passes.updated_at
}

// PassType is a sellable pass configuration (a campaign). Passes are
// issued from a pass type when an order is created.
//
// Fields:
//  ID           – primary key identifier.
//  Name         – display name shown on the scanner and in dashboards.
//  Description  – marketing copy for the public listing.
//  PriceAmount  – sale price in TRY.
//  ValidityDays – how long an issued pass stays valid.
//  IsActive     – inactive types are hidden from the public listing
//                 and cannot be ordered.
type PassType struct {
    ID           uint64    // pass_types.id
    Name         string    // pass_types.name
    Description  string    // pass_types.description
    PriceAmount  float64   // pass_types.price_amount
    ValidityDays uint32    // pass_types.validity_days
    IsActive     bool      // pass_types.is_active
    CreatedAt    time.Time // pass_types.created_at
    UpdatedAt    time.Time // pass_types.updated_at
}
