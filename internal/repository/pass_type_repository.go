package repository

import (
    "context"
    "database/sql"

    "github.com/gezipass/pass-platform/internal/model"
)

// PassTypeRepo manages the `pass_types` table (campaign
// configuration). Inactive types stay in place so existing passes keep
// resolving their names.
type PassTypeRepo struct {
    db *sql.DB
}

// NewPassTypeRepo returns a new PassTypeRepo bound to the given database.
func NewPassTypeRepo(db *sql.DB) *PassTypeRepo { return &PassTypeRepo{db: db} }

const passTypeColumns = `id, name, description, price_amount, validity_days, is_active, created_at, updated_at`

// Create inserts a pass type and populates the generated ID.
func (r *PassTypeRepo) Create(ctx context.Context, pt *model.PassType) error {
    const q = `INSERT INTO pass_types (name, description, price_amount, validity_days, is_active)
               VALUES (?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, pt.Name, pt.Description, pt.PriceAmount, pt.ValidityDays, pt.IsActive)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    pt.ID = uint64(id)
    return nil
}

// GetByID loads a pass type. Returns sql.ErrNoRows when absent.
func (r *PassTypeRepo) GetByID(ctx context.Context, id uint64) (*model.PassType, error) {
    const q = `SELECT ` + passTypeColumns + ` FROM pass_types WHERE id = ? LIMIT 1`
    var pt model.PassType
    err := r.db.QueryRowContext(ctx, q, id).Scan(&pt.ID, &pt.Name, &pt.Description,
        &pt.PriceAmount, &pt.ValidityDays, &pt.IsActive, &pt.CreatedAt, &pt.UpdatedAt)
    if err != nil {
        return nil, err
    }
    return &pt, nil
}

// List returns pass types, optionally restricted to active ones (the
// public listing). Ordered by name for stable output.
func (r *PassTypeRepo) List(ctx context.Context, activeOnly bool) ([]model.PassType, error) {
    q := `SELECT ` + passTypeColumns + ` FROM pass_types`
    if activeOnly {
        q += ` WHERE is_active = 1`
    }
    q += ` ORDER BY name`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.PassType, 0)
    for rows.Next() {
        var pt model.PassType
        if err := rows.Scan(&pt.ID, &pt.Name, &pt.Description, &pt.PriceAmount,
            &pt.ValidityDays, &pt.IsActive, &pt.CreatedAt, &pt.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, pt)
    }
    return out, rows.Err()
}

// Update changes a pass type's configuration. Existing passes are
// unaffected; validity applies to passes issued afterwards.
func (r *PassTypeRepo) Update(ctx context.Context, pt *model.PassType) error {
    const q = `UPDATE pass_types SET name = ?, description = ?, price_amount = ?, validity_days = ?
               WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, pt.Name, pt.Description, pt.PriceAmount, pt.ValidityDays, pt.ID)
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

// SetActive publishes or retires a campaign.
func (r *PassTypeRepo) SetActive(ctx context.Context, id uint64, active bool) error {
    const q = `UPDATE pass_types SET is_active = ? WHERE id = ?`
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
