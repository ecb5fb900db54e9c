package repository

import (
    "context"
    "database/sql"

    "github.com/gezipass/pass-platform/internal/model"
)

// TicketRepo manages support tickets and their reply threads.
type TicketRepo struct {
    db *sql.DB
}

// NewTicketRepo returns a new TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

const ticketColumns = `id, business_id, subject, body, status, created_at, updated_at`

// Create opens a ticket in OPEN state.
func (r *TicketRepo) Create(ctx context.Context, t *model.SupportTicket) error {
    t.Status = model.TicketStatusOpen
    const q = `INSERT INTO support_tickets (business_id, subject, body, status) VALUES (?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, t.BusinessID, t.Subject, t.Body, t.Status)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    t.ID = uint64(id)
    return nil
}

// GetByID loads a ticket. Returns sql.ErrNoRows when absent.
func (r *TicketRepo) GetByID(ctx context.Context, id uint64) (*model.SupportTicket, error) {
    const q = `SELECT ` + ticketColumns + ` FROM support_tickets WHERE id = ? LIMIT 1`
    var t model.SupportTicket
    var businessID sql.NullInt64
    err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &businessID, &t.Subject, &t.Body,
        &t.Status, &t.CreatedAt, &t.UpdatedAt)
    if err != nil {
        return nil, err
    }
    if businessID.Valid {
        bid := uint64(businessID.Int64)
        t.BusinessID = &bid
    }
    return &t, nil
}

// List returns tickets newest first. Status filters when non-empty;
// businessID scopes to one venue when non-zero (the partner dashboard
// passes its own ID, the admin dashboard passes zero).
func (r *TicketRepo) List(ctx context.Context, status string, businessID uint64, limit, offset int) ([]model.SupportTicket, error) {
    if limit <= 0 || limit > 200 {
        limit = 50
    }
    if offset < 0 {
        offset = 0
    }
    q := `SELECT ` + ticketColumns + ` FROM support_tickets WHERE 1=1`
    args := []interface{}{}
    if status != "" {
        q += ` AND status = ?`
        args = append(args, status)
    }
    if businessID != 0 {
        q += ` AND business_id = ?`
        args = append(args, businessID)
    }
    q += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
    args = append(args, limit, offset)
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.SupportTicket, 0, limit)
    for rows.Next() {
        var t model.SupportTicket
        var bid sql.NullInt64
        if err := rows.Scan(&t.ID, &bid, &t.Subject, &t.Body, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
            return nil, err
        }
        if bid.Valid {
            b := uint64(bid.Int64)
            t.BusinessID = &b
        }
        out = append(out, t)
    }
    return out, rows.Err()
}

// UpdateStatus moves a ticket through the workflow. Any state may move
// to any other; the dashboard is trusted here, unlike the business
// onboarding workflow.
func (r *TicketRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
    const q = `UPDATE support_tickets SET status = ? WHERE id = ?`
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

// AddReply appends a message to the ticket's thread.
func (r *TicketRepo) AddReply(ctx context.Context, reply *model.TicketReply) error {
    const q = `INSERT INTO ticket_replies (ticket_id, author_user_id, body) VALUES (?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, reply.TicketID, reply.AuthorUserID, reply.Body)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    reply.ID = uint64(id)
    return nil
}

// Replies returns a ticket's thread oldest first.
func (r *TicketRepo) Replies(ctx context.Context, ticketID uint64) ([]model.TicketReply, error) {
    const q = `SELECT id, ticket_id, author_user_id, body, created_at
               FROM ticket_replies WHERE ticket_id = ? ORDER BY created_at`
    rows, err := r.db.QueryContext(ctx, q, ticketID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.TicketReply, 0)
    for rows.Next() {
        var rep model.TicketReply
        if err := rows.Scan(&rep.ID, &rep.TicketID, &rep.AuthorUserID, &rep.Body, &rep.CreatedAt); err != nil {
            return nil, err
        }
        out = append(out, rep)
    }
    return out, rows.Err()
}
