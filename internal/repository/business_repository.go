package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/gezipass/pass-platform/internal/model"
)

// BusinessRepo provides access to the `businesses` table and its
// onboarding workflow. Status transitions are validated here so the
// handlers only translate ErrConflict into a 409.
type BusinessRepo struct {
    db *sql.DB
}

// NewBusinessRepo returns a new BusinessRepo bound to the given database.
func NewBusinessRepo(db *sql.DB) *BusinessRepo { return &BusinessRepo{db: db} }

const businessColumns = `id, name, category, contact_email, phone, address, status, created_at, updated_at`

func scanBusiness(row *sql.Row) (*model.Business, error) {
    var b model.Business
    err := row.Scan(&b.ID, &b.Name, &b.Category, &b.ContactEmail, &b.Phone, &b.Address,
        &b.Status, &b.CreatedAt, &b.UpdatedAt)
    if err != nil {
        return nil, err
    }
    return &b, nil
}

// Create registers a new partner in PENDING state.
func (r *BusinessRepo) Create(ctx context.Context, b *model.Business) error {
    b.ContactEmail = strings.ToLower(strings.TrimSpace(b.ContactEmail))
    b.Status = model.BusinessStatusPending
    const q = `INSERT INTO businesses (name, category, contact_email, phone, address, status)
               VALUES (?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, b.Name, b.Category, b.ContactEmail, b.Phone, b.Address, b.Status)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)
    return nil
}

// GetByID loads a business. Returns sql.ErrNoRows when absent.
func (r *BusinessRepo) GetByID(ctx context.Context, id uint64) (*model.Business, error) {
    const q = `SELECT ` + businessColumns + ` FROM businesses WHERE id = ? LIMIT 1`
    return scanBusiness(r.db.QueryRowContext(ctx, q, id))
}

// GetStatus returns only the status column; the scanner middleware
// calls this on every request so it stays a single indexed read.
func (r *BusinessRepo) GetStatus(ctx context.Context, id uint64) (string, error) {
    const q = `SELECT status FROM businesses WHERE id = ? LIMIT 1`
    var status string
    err := r.db.QueryRowContext(ctx, q, id).Scan(&status)
    return status, err
}

// List returns businesses newest first, optionally filtered by status.
func (r *BusinessRepo) List(ctx context.Context, status string, limit, offset int) ([]model.Business, error) {
    if limit <= 0 || limit > 200 {
        limit = 50
    }
    if offset < 0 {
        offset = 0
    }
    q := `SELECT ` + businessColumns + ` FROM businesses`
    args := []interface{}{}
    if status != "" {
        q += ` WHERE status = ?`
        args = append(args, status)
    }
    q += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
    args = append(args, limit, offset)
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Business, 0, limit)
    for rows.Next() {
        var b model.Business
        if err := rows.Scan(&b.ID, &b.Name, &b.Category, &b.ContactEmail, &b.Phone, &b.Address,
            &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, b)
    }
    return out, rows.Err()
}

// Update changes profile fields. The status column is untouched;
// Transition owns that.
func (r *BusinessRepo) Update(ctx context.Context, b *model.Business) error {
    b.ContactEmail = strings.ToLower(strings.TrimSpace(b.ContactEmail))
    const q = `UPDATE businesses SET name = ?, category = ?, contact_email = ?, phone = ?, address = ?
               WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, b.Name, b.Category, b.ContactEmail, b.Phone, b.Address, b.ID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return sql.ErrNoRows
    }
    return nil
}

// allowedTransitions encodes the onboarding workflow:
// PENDING -> ACTIVE (approve), ACTIVE -> SUSPENDED (suspend),
// SUSPENDED -> ACTIVE (reactivate).
var allowedTransitions = map[string]map[string]bool{
    model.BusinessStatusPending:   {model.BusinessStatusActive: true},
    model.BusinessStatusActive:    {model.BusinessStatusSuspended: true},
    model.BusinessStatusSuspended: {model.BusinessStatusActive: true},
}

// Transition moves a business to a new workflow state. The current
// state is read and checked inside a transaction with the row locked
// so two concurrent admin actions cannot race past each other.
// Returns sql.ErrNoRows when the business does not exist and
// ErrConflict when the transition is not allowed from the current
// state.
func (r *BusinessRepo) Transition(ctx context.Context, id uint64, target string) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    const lock = `SELECT status FROM businesses WHERE id = ? FOR UPDATE`
    var current string
    if err := tx.QueryRowContext(ctx, lock, id).Scan(&current); err != nil {
        return err
    }
    if !allowedTransitions[current][target] {
        return ErrConflict
    }
    const upd = `UPDATE businesses SET status = ? WHERE id = ?`
    if _, err := tx.ExecContext(ctx, upd, target, id); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}
