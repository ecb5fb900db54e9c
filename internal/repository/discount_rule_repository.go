package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/gezipass/pass-platform/internal/model"
)

// DiscountRuleRepo manages the `business_discount_rules` table. The
// invariant is that at most one ACTIVE rule exists per (pass_type_id,
// business_id) pair; Replace upholds it by deactivating the previous
// rule and inserting the new one in a single transaction. Old rules
// are kept for auditing ledger rows created under them.
type DiscountRuleRepo struct {
    db *sql.DB
}

// NewDiscountRuleRepo returns a new DiscountRuleRepo bound to the given database.
func NewDiscountRuleRepo(db *sql.DB) *DiscountRuleRepo { return &DiscountRuleRepo{db: db} }

const ruleColumns = `id, pass_type_id, business_id, discount_percent, usage_type, max_usage, is_active, created_at, updated_at`

// Resolve returns the single active rule for the pair, or
// ErrNoRuleForBusiness when the business does not participate in the
// pass type at all.
func (r *DiscountRuleRepo) Resolve(ctx context.Context, passTypeID, businessID uint64) (*model.BusinessDiscountRule, error) {
    const q = `SELECT ` + ruleColumns + `
               FROM business_discount_rules
               WHERE pass_type_id = ? AND business_id = ? AND is_active = 1
               LIMIT 1`
    var rule model.BusinessDiscountRule
    err := r.db.QueryRowContext(ctx, q, passTypeID, businessID).Scan(
        &rule.ID, &rule.PassTypeID, &rule.BusinessID, &rule.DiscountPercent,
        &rule.UsageType, &rule.MaxUsage, &rule.IsActive, &rule.CreatedAt, &rule.UpdatedAt)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrNoRuleForBusiness
        }
        return nil, err
    }
    return &rule, nil
}

// Replace installs a new active rule for the (pass type, business)
// pair, deactivating any existing active rule in the same transaction
// so the exactly-one-active invariant holds even under concurrent
// admin edits.
func (r *DiscountRuleRepo) Replace(ctx context.Context, rule *model.BusinessDiscountRule) error {
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
    const deact = `UPDATE business_discount_rules SET is_active = 0
                   WHERE pass_type_id = ? AND business_id = ? AND is_active = 1`
    if _, err := tx.ExecContext(ctx, deact, rule.PassTypeID, rule.BusinessID); err != nil {
        return err
    }
    const ins = `INSERT INTO business_discount_rules
                 (pass_type_id, business_id, discount_percent, usage_type, max_usage, is_active)
                 VALUES (?, ?, ?, ?, ?, 1)`
    res, err := tx.ExecContext(ctx, ins, rule.PassTypeID, rule.BusinessID,
        rule.DiscountPercent, rule.UsageType, rule.MaxUsage)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    rule.ID = uint64(id)
    rule.IsActive = true
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// Deactivate retires the active rule for a pair without installing a
// replacement. The business becomes ineligible for the pass type.
func (r *DiscountRuleRepo) Deactivate(ctx context.Context, passTypeID, businessID uint64) error {
    const q = `UPDATE business_discount_rules SET is_active = 0
               WHERE pass_type_id = ? AND business_id = ? AND is_active = 1`
    res, err := r.db.ExecContext(ctx, q, passTypeID, businessID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrNoRuleForBusiness
    }
    return nil
}

// ListByBusiness returns all active rules at a business, used by the
// partner dashboard to show what it accepts.
func (r *DiscountRuleRepo) ListByBusiness(ctx context.Context, businessID uint64) ([]model.BusinessDiscountRule, error) {
    const q = `SELECT ` + ruleColumns + `
               FROM business_discount_rules
               WHERE business_id = ? AND is_active = 1
               ORDER BY pass_type_id`
    return r.list(ctx, q, businessID)
}

// ListByPassType returns all active rules for a pass type, used by the
// admin campaign screen.
func (r *DiscountRuleRepo) ListByPassType(ctx context.Context, passTypeID uint64) ([]model.BusinessDiscountRule, error) {
    const q = `SELECT ` + ruleColumns + `
               FROM business_discount_rules
               WHERE pass_type_id = ? AND is_active = 1
               ORDER BY business_id`
    return r.list(ctx, q, passTypeID)
}

func (r *DiscountRuleRepo) list(ctx context.Context, q string, arg uint64) ([]model.BusinessDiscountRule, error) {
    rows, err := r.db.QueryContext(ctx, q, arg)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.BusinessDiscountRule, 0)
    for rows.Next() {
        var rule model.BusinessDiscountRule
        if err := rows.Scan(&rule.ID, &rule.PassTypeID, &rule.BusinessID, &rule.DiscountPercent,
            &rule.UsageType, &rule.MaxUsage, &rule.IsActive, &rule.CreatedAt, &rule.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, rule)
    }
    return out, rows.Err()
}
