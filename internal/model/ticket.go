package model

import "time"

// Support ticket states.
const (
    TicketStatusOpen       = "OPEN"
    TicketStatusInProgress = "IN_PROGRESS"
    TicketStatusResolved   = "RESOLVED"
    TicketStatusClosed     = "CLOSED"
)

// SupportTicket is raised by a business (or on its behalf by an admin)
// about onboarding, payouts or disputed redemptions. Disputed scans are
// investigated against the redemption ledger.
type SupportTicket struct {
    ID         uint64    // support_tickets.id
    BusinessID *uint64   // support_tickets.business_id (nullable for platform-level issues)
    Subject    string    // support_tickets.subject
    Body       string    // support_tickets.body
    Status     string    // support_tickets.status
    CreatedAt  time.Time // support_tickets.created_at
    UpdatedAt  time.Time // support_tickets.updated_at
}

// TicketReply is one message in a ticket's thread.
type TicketReply struct {
    ID           uint64    // ticket_replies.id
    TicketID     uint64    // ticket_replies.ticket_id
    AuthorUserID uint64    // ticket_replies.author_user_id
    Body         string    // ticket_replies.body
    CreatedAt    time.Time // ticket_replies.created_at
}
