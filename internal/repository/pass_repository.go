package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/gezipass/pass-platform/internal/model"
)

// PassRepo provides access to the `passes` table. Passes are issued
// inside the order transaction, looked up by activation code or PIN at
// validation time, and transitioned between statuses. Rows are never
// deleted.
type PassRepo struct {
    db *sql.DB
}

// NewPassRepo returns a new PassRepo bound to the given database.
func NewPassRepo(db *sql.DB) *PassRepo { return &PassRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions
// that span multiple repositories.
func (r *PassRepo) DB() *sql.DB { return r.db }

const passColumns = `id, customer_id, pass_type_id, activation_code, pin_code, expiry_date, status, created_at, updated_at`

func scanPass(row *sql.Row) (*model.Pass, error) {
    var p model.Pass
    err := row.Scan(&p.ID, &p.CustomerID, &p.PassTypeID, &p.ActivationCode, &p.PINCode,
        &p.ExpiryDate, &p.Status, &p.CreatedAt, &p.UpdatedAt)
    if err != nil {
        return nil, err
    }
    return &p, nil
}

// CreateTx inserts a new pass within an existing transaction and
// populates the generated ID. The caller commits or rolls back.
func (r *PassRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Pass) error {
    const q = `INSERT INTO passes (customer_id, pass_type_id, activation_code, pin_code, expiry_date, status)
               VALUES (?, ?, ?, ?, ?, ?)`
    res, err := tx.ExecContext(ctx, q, p.CustomerID, p.PassTypeID, p.ActivationCode, p.PINCode,
        p.ExpiryDate.UTC().Format("2006-01-02 15:04:05"), p.Status)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    p.ID = uint64(id)
    return nil
}

// FindByIdentifier resolves a scanned identifier to a pass. The
// activation-code match is tried first, then the PIN match, so the two
// formats can share a character set without ambiguity. Status and
// expiry are NOT filtered here: an expired or revoked pass must still
// resolve so the engine can produce a precise rejection instead of a
// generic not-found.
func (r *PassRepo) FindByIdentifier(ctx context.Context, identifier string) (*model.Pass, error) {
    const byCode = `SELECT ` + passColumns + ` FROM passes WHERE activation_code = ? LIMIT 1`
    p, err := scanPass(r.db.QueryRowContext(ctx, byCode, identifier))
    if err == nil {
        return p, nil
    }
    if !errors.Is(err, sql.ErrNoRows) {
        return nil, err
    }
    const byPIN = `SELECT ` + passColumns + ` FROM passes WHERE pin_code = ? LIMIT 1`
    p, err = scanPass(r.db.QueryRowContext(ctx, byPIN, identifier))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrPassNotFound
        }
        return nil, err
    }
    return p, nil
}

// GetByID loads a single pass. Returns sql.ErrNoRows when absent.
func (r *PassRepo) GetByID(ctx context.Context, id uint64) (*model.Pass, error) {
    const q = `SELECT ` + passColumns + ` FROM passes WHERE id = ? LIMIT 1`
    return scanPass(r.db.QueryRowContext(ctx, q, id))
}

// ListByCustomer returns all passes issued to a customer, newest
// first. Used by the admin customer detail screen.
func (r *PassRepo) ListByCustomer(ctx context.Context, customerID uint64) ([]model.Pass, error) {
    const q = `SELECT ` + passColumns + ` FROM passes WHERE customer_id = ? ORDER BY created_at DESC`
    rows, err := r.db.QueryContext(ctx, q, customerID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Pass, 0)
    for rows.Next() {
        var p model.Pass
        if err := rows.Scan(&p.ID, &p.CustomerID, &p.PassTypeID, &p.ActivationCode, &p.PINCode,
            &p.ExpiryDate, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, p)
    }
    return out, rows.Err()
}

// UpdateStatus transitions a pass to a new status. Returns
// sql.ErrNoRows when the pass does not exist.
func (r *PassRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
    const q = `UPDATE passes SET status = ? WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, status, id)
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

// RevokeTx marks a pass revoked within an existing transaction. Used
// when a paid order is cancelled.
func (r *PassRepo) RevokeTx(ctx context.Context, tx *sql.Tx, id uint64) error {
    const q = `UPDATE passes SET status = ? WHERE id = ?`
    _, err := tx.ExecContext(ctx, q, model.PassStatusRevoked, id)
    return err
}

// MarkExpired flips ACTIVE passes whose expiry has passed to EXPIRED.
// Validation does not depend on this running; it is periodic hygiene
// so dashboard listings show the real state.
func (r *PassRepo) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
    const q = `UPDATE passes SET status = ? WHERE status = ? AND expiry_date < ?`
    res, err := r.db.ExecContext(ctx, q, model.PassStatusExpired, model.PassStatusActive,
        now.UTC().Format("2006-01-02 15:04:05"))
    if err != nil {
        return 0, err
    }
    return res.RowsAffected()
}
