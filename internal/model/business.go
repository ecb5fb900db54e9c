package model

import "time"

// Business onboarding states. A partner signs up as PENDING, an admin
// approves it to ACTIVE, and it can later be SUSPENDED and reactivated.
// Only ACTIVE businesses may validate passes.
const (
    BusinessStatusPending   = "PENDING"
    BusinessStatusActive    = "ACTIVE"
    BusinessStatusSuspended = "SUSPENDED"
)

// Business is a partner venue that accepts passes.
//
// Fields:
//  ID           – primary key identifier.
//  Name         – venue name.
//  Category     – free-form classification (restaurant, museum, ...).
//  ContactEmail – onboarding/support contact.
//  Phone        – contact phone number.
//  Address      – street address shown to customers.
//  Status       – PENDING, ACTIVE or SUSPENDED.
type Business struct {
    ID           uint64    // businesses.id
    Name         string    // businesses.name
    Category     string    // businesses.category
    ContactEmail string    // businesses.contact_email
    Phone        string    // businesses.phone
    Address      string    // businesses.address
    Status       string    // businesses.status
    CreatedAt    time.Time // businesses.created_at
    UpdatedAt    time.Time // businesses.updated_at
}

// Customer is an end user who buys passes. Customers are managed from
// the admin dashboard; they do not log into this API.
type Customer struct {
    ID        uint64    // customers.id
    FullName  string    // customers.full_name
    Email     string    // customers.email
    Phone     string    // customers.phone
    IsActive  bool      // customers.is_active
    CreatedAt time.Time // customers.created_at
    UpdatedAt time.Time // customers.updated_at
}
