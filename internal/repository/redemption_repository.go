package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/gezipass/pass-platform/internal/model"
)

// RedemptionRepo owns the append-only `redemption_records` ledger and
// the `usage_counters` table. The two are written together inside
// ApplyAndRecord so an accepted redemption and its counter increment
// are one atomic unit.
type RedemptionRepo struct {
    db *sql.DB
}

// NewRedemptionRepo returns a new RedemptionRepo bound to the given database.
func NewRedemptionRepo(db *sql.DB) *RedemptionRepo { return &RedemptionRepo{db: db} }

// Append inserts a single ledger row. Used for every rejected attempt;
// accepted attempts are written by ApplyAndRecord instead so they
// share the counter's transaction.
func (r *RedemptionRepo) Append(ctx context.Context, rec *model.RedemptionRecord) error {
    return insertRecord(ctx, r.db, rec)
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
    ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func insertRecord(ctx context.Context, ex execer, rec *model.RedemptionRecord) error {
    const q = `INSERT INTO redemption_records
               (pass_id, business_id, request_id, validation_method, original_amount,
                discounted_amount, discount_percent, notes, outcome, reject_reason)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
    res, err := ex.ExecContext(ctx, q, rec.PassID, rec.BusinessID, rec.RequestID,
        rec.ValidationMethod, rec.OriginalAmount, rec.DiscountedAmount,
        rec.DiscountPercent, rec.Notes, rec.Outcome, rec.RejectReason)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    rec.ID = uint64(id)
    return nil
}

// ApplyAndRecord consumes one usage of a pass at a business and writes
// the accepted ledger row, all inside one transaction:
//
//  1. ensure the counter row exists
//  2. SELECT ... FOR UPDATE the counter
//  3. re-check the limit while holding the row lock
//  4. increment and insert the accepted record
//
// limit == 0 means unbounded. When the locked counter is already at
// the limit, the transaction rolls back, the current count is
// returned together with ErrUsageExceeded, and nothing is written;
// the caller appends the rejected row itself. The row lock is what
// guarantees that two concurrent "once" validations cannot both
// observe count 0: the loser blocks on the lock and re-reads 1.
func (r *RedemptionRepo) ApplyAndRecord(ctx context.Context, passID, businessID uint64, limit uint32, rec *model.RedemptionRecord) (uint32, error) {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return 0, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    const ensure = `INSERT INTO usage_counters (pass_id, business_id, count)
                    VALUES (?, ?, 0)
                    ON DUPLICATE KEY UPDATE pass_id = pass_id`
    if _, err := tx.ExecContext(ctx, ensure, passID, businessID); err != nil {
        return 0, err
    }

    const lock = `SELECT count FROM usage_counters
                  WHERE pass_id = ? AND business_id = ?
                  FOR UPDATE`
    var count uint32
    if err := tx.QueryRowContext(ctx, lock, passID, businessID).Scan(&count); err != nil {
        return 0, err
    }

    if limit > 0 && count >= limit {
        return count, ErrUsageExceeded
    }

    const inc = `UPDATE usage_counters SET count = count + 1
                 WHERE pass_id = ? AND business_id = ?`
    if _, err := tx.ExecContext(ctx, inc, passID, businessID); err != nil {
        return 0, err
    }
    if err := insertRecord(ctx, tx, rec); err != nil {
        return 0, err
    }
    if err := tx.Commit(); err != nil {
        return 0, err
    }
    committed = true
    return count + 1, nil
}

// UsageCounts reads a pass's per-business counters without locking.
// Shown on the admin pass detail; authoritative checks happen under
// the lock in ApplyAndRecord.
func (r *RedemptionRepo) UsageCounts(ctx context.Context, passID uint64) ([]model.UsageCounter, error) {
    const q = `SELECT pass_id, business_id, count, updated_at
               FROM usage_counters WHERE pass_id = ? ORDER BY business_id`
    rows, err := r.db.QueryContext(ctx, q, passID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var counters []model.UsageCounter
    for rows.Next() {
        var uc model.UsageCounter
        if err := rows.Scan(&uc.PassID, &uc.BusinessID, &uc.Count, &uc.UpdatedAt); err != nil {
            return nil, err
        }
        counters = append(counters, uc)
    }
    return counters, rows.Err()
}

// HistoryItem is the redemption projection shown in the partner
// dashboard's history screen. Pass and customer names are joined in so
// the client does not need extra lookups; both are null for attempts
// whose identifier never resolved to a pass.
type HistoryItem struct {
    ID               uint64   `json:"id"`
    PassID           *uint64  `json:"pass_id,omitempty"`
    PassName         *string  `json:"pass_name,omitempty"`
    CustomerName     *string  `json:"customer_name,omitempty"`
    ValidationMethod string   `json:"validation_method"`
    OriginalAmount   *float64 `json:"original_amount,omitempty"`
    DiscountedAmount *float64 `json:"discounted_amount,omitempty"`
    DiscountPercent  uint8    `json:"discount_percentage"`
    Notes            *string  `json:"notes,omitempty"`
    Outcome          string   `json:"outcome"`
    RejectReason     *string  `json:"reject_reason,omitempty"`
    CreatedAt        string   `json:"created_at"`
}

// ListByBusiness returns the newest-first redemption history for a
// business, capped at limit. The client groups items by calendar date.
func (r *RedemptionRepo) ListByBusiness(ctx context.Context, businessID uint64, limit int) ([]HistoryItem, error) {
    if limit <= 0 || limit > 200 {
        limit = 50
    }
    const q = `SELECT rr.id, rr.pass_id, pt.name, c.full_name,
                      rr.validation_method, rr.original_amount, rr.discounted_amount,
                      rr.discount_percent, rr.notes, rr.outcome, rr.reject_reason, rr.created_at
               FROM redemption_records rr
               LEFT JOIN passes p ON p.id = rr.pass_id
               LEFT JOIN pass_types pt ON pt.id = p.pass_type_id
               LEFT JOIN customers c ON c.id = p.customer_id
               WHERE rr.business_id = ?
               ORDER BY rr.created_at DESC, rr.id DESC
               LIMIT ?`
    rows, err := r.db.QueryContext(ctx, q, businessID, limit)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    items := make([]HistoryItem, 0, limit)
    for rows.Next() {
        var it HistoryItem
        var passID sql.NullInt64
        var passName, customerName sql.NullString
        var createdAt sql.NullTime
        if err := rows.Scan(&it.ID, &passID, &passName, &customerName,
            &it.ValidationMethod, &it.OriginalAmount, &it.DiscountedAmount,
            &it.DiscountPercent, &it.Notes, &it.Outcome, &it.RejectReason, &createdAt); err != nil {
            return nil, err
        }
        if passID.Valid {
            id := uint64(passID.Int64)
            it.PassID = &id
        }
        if passName.Valid {
            n := passName.String
            it.PassName = &n
        }
        if customerName.Valid {
            n := customerName.String
            it.CustomerName = &n
        }
        if createdAt.Valid {
            it.CreatedAt = createdAt.Time.UTC().Format(time.RFC3339)
        }
        items = append(items, it)
    }
    return items, rows.Err()
}

// ListByPass returns the full attempt history of one pass across all
// businesses, used when investigating support tickets.
func (r *RedemptionRepo) ListByPass(ctx context.Context, passID uint64) ([]model.RedemptionRecord, error) {
    const q = `SELECT id, pass_id, business_id, request_id, validation_method, original_amount,
                      discounted_amount, discount_percent, notes, outcome, reject_reason, created_at
               FROM redemption_records
               WHERE pass_id = ?
               ORDER BY created_at DESC, id DESC`
    rows, err := r.db.QueryContext(ctx, q, passID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.RedemptionRecord, 0)
    for rows.Next() {
        var rec model.RedemptionRecord
        if err := rows.Scan(&rec.ID, &rec.PassID, &rec.BusinessID, &rec.RequestID,
            &rec.ValidationMethod, &rec.OriginalAmount, &rec.DiscountedAmount,
            &rec.DiscountPercent, &rec.Notes, &rec.Outcome, &rec.RejectReason, &rec.CreatedAt); err != nil {
            return nil, err
        }
        out = append(out, rec)
    }
    return out, rows.Err()
}
