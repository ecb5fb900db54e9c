package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/gezipass/pass-platform/internal/model"
)

// OrderRepo manages the `orders` table. Issuing the pass and creating
// the order are one transaction so an order never exists without its
// pass, and cancelling a paid order revokes the pass in the same unit.
type OrderRepo struct {
    db     *sql.DB
    passes *PassRepo
}

// NewOrderRepo returns a new OrderRepo. The pass repo is used for
// pass writes inside order transactions.
func NewOrderRepo(db *sql.DB, passes *PassRepo) *OrderRepo {
    return &OrderRepo{db: db, passes: passes}
}

const orderColumns = `id, customer_id, pass_type_id, pass_id, amount, status, created_at, updated_at`

// CreateWithPass inserts the order and issues its pass atomically.
// The pass must arrive with codes and expiry already set; its ID is
// populated on return along with the order's.
func (r *OrderRepo) CreateWithPass(ctx context.Context, o *model.Order, p *model.Pass) error {
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
    if err := r.passes.CreateTx(ctx, tx, p); err != nil {
        return err
    }
    const q = `INSERT INTO orders (customer_id, pass_type_id, pass_id, amount, status)
               VALUES (?, ?, ?, ?, ?)`
    res, err := tx.ExecContext(ctx, q, o.CustomerID, o.PassTypeID, p.ID, o.Amount, o.Status)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    o.ID = uint64(id)
    pid := p.ID
    o.PassID = &pid
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// GetByID loads an order. Returns sql.ErrNoRows when absent.
func (r *OrderRepo) GetByID(ctx context.Context, id uint64) (*model.Order, error) {
    const q = `SELECT ` + orderColumns + ` FROM orders WHERE id = ? LIMIT 1`
    var o model.Order
    var passID sql.NullInt64
    err := r.db.QueryRowContext(ctx, q, id).Scan(&o.ID, &o.CustomerID, &o.PassTypeID,
        &passID, &o.Amount, &o.Status, &o.CreatedAt, &o.UpdatedAt)
    if err != nil {
        return nil, err
    }
    if passID.Valid {
        pid := uint64(passID.Int64)
        o.PassID = &pid
    }
    return &o, nil
}

// List returns orders newest first, optionally filtered by status.
func (r *OrderRepo) List(ctx context.Context, status string, limit, offset int) ([]model.Order, error) {
    if limit <= 0 || limit > 200 {
        limit = 50
    }
    if offset < 0 {
        offset = 0
    }
    q := `SELECT ` + orderColumns + ` FROM orders`
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
    out := make([]model.Order, 0, limit)
    for rows.Next() {
        var o model.Order
        var passID sql.NullInt64
        if err := rows.Scan(&o.ID, &o.CustomerID, &o.PassTypeID, &passID,
            &o.Amount, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
            return nil, err
        }
        if passID.Valid {
            pid := uint64(passID.Int64)
            o.PassID = &pid
        }
        out = append(out, o)
    }
    return out, rows.Err()
}

// MarkPaid transitions a pending order to PAID. Returns ErrConflict
// when the order is not pending.
func (r *OrderRepo) MarkPaid(ctx context.Context, id uint64) error {
    const q = `UPDATE orders SET status = ? WHERE id = ? AND status = ?`
    res, err := r.db.ExecContext(ctx, q, model.OrderStatusPaid, id, model.OrderStatusPending)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        if _, err := r.GetByID(ctx, id); err != nil {
            return err
        }
        return ErrConflict
    }
    return nil
}

// Cancel transitions an order to CANCELLED and revokes its pass in the
// same transaction. Already-cancelled orders return ErrConflict.
func (r *OrderRepo) Cancel(ctx context.Context, id uint64) error {
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
    const lock = `SELECT status, pass_id FROM orders WHERE id = ? FOR UPDATE`
    var status string
    var passID sql.NullInt64
    if err := tx.QueryRowContext(ctx, lock, id).Scan(&status, &passID); err != nil {
        return err
    }
    if status == model.OrderStatusCancelled {
        return ErrConflict
    }
    const upd = `UPDATE orders SET status = ? WHERE id = ?`
    if _, err := tx.ExecContext(ctx, upd, model.OrderStatusCancelled, id); err != nil {
        return err
    }
    if passID.Valid {
        if err := r.passes.RevokeTx(ctx, tx, uint64(passID.Int64)); err != nil {
            return err
        }
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// ExpiryFor computes the expiry of a pass issued now from a pass
// type's validity window.
func ExpiryFor(pt *model.PassType, now time.Time) (time.Time, error) {
    if pt.ValidityDays == 0 {
        return time.Time{}, errors.New("pass type has no validity window")
    }
    return now.UTC().Add(time.Duration(pt.ValidityDays) * 24 * time.Hour), nil
}
