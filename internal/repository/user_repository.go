package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/gezipass/pass-platform/internal/model"
    "github.com/gezipass/pass-platform/internal/utils"
)

// UserRepo manages dashboard accounts in the `users` table. BUSINESS
// accounts carry the venue they act for; the JWT issued at login
// embeds that business ID so the scanner endpoints never trust a
// client-supplied one.
type UserRepo struct{ DB *sql.DB }

// NewUserRepo returns a new UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user and returns its ID. businessID must be non-nil
// for BUSINESS accounts and nil for ADMIN accounts; the handler
// enforces that pairing.
func (r *UserRepo) Create(ctx context.Context, email, password, role string, businessID *uint64, cost int) (uint64, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    hash, err := utils.HashPassword(password, cost)
    if err != nil {
        return 0, err
    }
    res, err := r.DB.ExecContext(ctx,
        "INSERT INTO users (email, password_hash, role, business_id) VALUES (?,?,?,?)",
        email, hash, role, businessID)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return 0, ErrEmailExists
        }
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    var u model.User
    var businessID sql.NullInt64
    err := r.DB.QueryRowContext(ctx,
        "SELECT id,email,password_hash,role,business_id,is_active,created_at,updated_at FROM users WHERE email=? LIMIT 1",
        email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &businessID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
    if businessID.Valid {
        bid := uint64(businessID.Int64)
        u.BusinessID = &bid
    }
    return u, err
}

// GetByID fetches a user by primary key.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
    var u model.User
    var businessID sql.NullInt64
    err := r.DB.QueryRowContext(ctx,
        "SELECT id,email,password_hash,role,business_id,is_active,created_at,updated_at FROM users WHERE id=? LIMIT 1",
        id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &businessID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
    if businessID.Valid {
        bid := uint64(businessID.Int64)
        u.BusinessID = &bid
    }
    return u, err
}
