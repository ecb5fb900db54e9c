package model

import "time"

// Order statuses. Cancelling a paid order revokes the pass that was
// issued for it.
const (
    OrderStatusPending   = "PENDING"
    OrderStatusPaid      = "PAID"
    OrderStatusCancelled = "CANCELLED"
)

// Order records a pass purchase. Creating an order issues the pass in
// the same transaction; PassID stays nil only if issuance is deferred.
type Order struct {
    ID         uint64    // orders.id
    CustomerID uint64    // orders.customer_id
    PassTypeID uint64    // orders.pass_type_id
    PassID     *uint64   // orders.pass_id (nullable)
    Amount     float64   // orders.amount (TRY)
    Status     string    // orders.status
    CreatedAt  time.Time // orders.created_at
    UpdatedAt  time.Time // orders.updated_at
}
