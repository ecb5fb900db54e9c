package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/gezipass/pass-platform/internal/model"
)

// CustomerRepo provides CRUD access to the `customers` table for the
// admin dashboard. Customers are soft-disabled, never deleted, so
// their passes and ledger history stay intact.
type CustomerRepo struct {
    db *sql.DB
}

// NewCustomerRepo returns a new CustomerRepo bound to the given database.
func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{db: db} }

const customerColumns = `id, full_name, email, phone, is_active, created_at, updated_at`

// Create inserts a customer and populates the generated ID. Email is
// normalized to lower case; a duplicate email returns ErrEmailExists.
func (r *CustomerRepo) Create(ctx context.Context, c *model.Customer) error {
    c.Email = strings.ToLower(strings.TrimSpace(c.Email))
    const q = `INSERT INTO customers (full_name, email, phone) VALUES (?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, c.FullName, c.Email, c.Phone)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return ErrEmailExists
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    c.ID = uint64(id)
    return nil
}

// GetByID loads a customer. Returns sql.ErrNoRows when absent.
func (r *CustomerRepo) GetByID(ctx context.Context, id uint64) (*model.Customer, error) {
    const q = `SELECT ` + customerColumns + ` FROM customers WHERE id = ? LIMIT 1`
    var c model.Customer
    err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.FullName, &c.Email, &c.Phone,
        &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
    if err != nil {
        return nil, err
    }
    return &c, nil
}

// List returns customers newest first. A non-empty search term matches
// name or email as a substring.
func (r *CustomerRepo) List(ctx context.Context, search string, limit, offset int) ([]model.Customer, error) {
    if limit <= 0 || limit > 200 {
        limit = 50
    }
    if offset < 0 {
        offset = 0
    }
    q := `SELECT ` + customerColumns + ` FROM customers`
    args := []interface{}{}
    if s := strings.TrimSpace(search); s != "" {
        q += ` WHERE full_name LIKE ? OR email LIKE ?`
        like := "%" + s + "%"
        args = append(args, like, like)
    }
    q += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
    args = append(args, limit, offset)
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Customer, 0, limit)
    for rows.Next() {
        var c model.Customer
        if err := rows.Scan(&c.ID, &c.FullName, &c.Email, &c.Phone,
            &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, c)
    }
    return out, rows.Err()
}

// Update changes a customer's contact details. Returns sql.ErrNoRows
// when the customer does not exist.
func (r *CustomerRepo) Update(ctx context.Context, c *model.Customer) error {
    c.Email = strings.ToLower(strings.TrimSpace(c.Email))
    const q = `UPDATE customers SET full_name = ?, email = ?, phone = ? WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, c.FullName, c.Email, c.Phone, c.ID)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return ErrEmailExists
        }
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

// SetActive enables or disables a customer account.
func (r *CustomerRepo) SetActive(ctx context.Context, id uint64, active bool) error {
    const q = `UPDATE customers SET is_active = ? WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, active, id)
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
