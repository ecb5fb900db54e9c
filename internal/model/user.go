package model

import "time"

// Dashboard roles. ADMIN users operate the platform dashboard;
// BUSINESS users belong to a partner venue and use the scanner.
const (
    RoleAdmin    = "ADMIN"
    RoleBusiness = "BUSINESS"
)

// User is a dashboard account stored in the `users` table. BUSINESS
// accounts reference the venue they act for; ADMIN accounts leave
// BusinessID nil.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – ADMIN or BUSINESS.
//  BusinessID   – venue the account belongs to (BUSINESS role only).
//  IsActive     – whether the account may log in.
type User struct {
    ID           uint64    // users.id
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    Role         string    // users.role
    BusinessID   *uint64   // users.business_id (nullable)
    IsActive     bool      // users.is_active
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table. The
// plain token is never stored; only its SHA-256 hash.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    UserID    uint64     // refresh_tokens.user_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // refresh_tokens.created_at
}
