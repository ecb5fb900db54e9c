package handler

import (
    "time"

    "github.com/gezipass/pass-platform/internal/model"
)

// JSON projections of the domain models. Models stay tag-free so the
// wire shape is decided here, next to the handlers that serve it.

type customerView struct {
    ID        uint64 `json:"id"`
    FullName  string `json:"full_name"`
    Email     string `json:"email"`
    Phone     string `json:"phone"`
    IsActive  bool   `json:"is_active"`
    CreatedAt string `json:"created_at"`
}

func viewCustomer(c *model.Customer) customerView {
    return customerView{
        ID:        c.ID,
        FullName:  c.FullName,
        Email:     c.Email,
        Phone:     c.Phone,
        IsActive:  c.IsActive,
        CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
    }
}

func viewCustomers(in []model.Customer) []customerView {
    out := make([]customerView, 0, len(in))
    for i := range in {
        out = append(out, viewCustomer(&in[i]))
    }
    return out
}

type businessView struct {
    ID           uint64 `json:"id"`
    Name         string `json:"name"`
    Category     string `json:"category"`
    ContactEmail string `json:"contact_email"`
    Phone        string `json:"phone"`
    Address      string `json:"address"`
    Status       string `json:"status"`
    CreatedAt    string `json:"created_at"`
}

func viewBusiness(b *model.Business) businessView {
    return businessView{
        ID:           b.ID,
        Name:         b.Name,
        Category:     b.Category,
        ContactEmail: b.ContactEmail,
        Phone:        b.Phone,
        Address:      b.Address,
        Status:       b.Status,
        CreatedAt:    b.CreatedAt.UTC().Format(time.RFC3339),
    }
}

func viewBusinesses(in []model.Business) []businessView {
    out := make([]businessView, 0, len(in))
    for i := range in {
        out = append(out, viewBusiness(&in[i]))
    }
    return out
}

type passTypeView struct {
    ID           uint64  `json:"id"`
    Name         string  `json:"name"`
    Description  string  `json:"description"`
    PriceAmount  float64 `json:"price_amount"`
    ValidityDays uint32  `json:"validity_days"`
    IsActive     bool    `json:"is_active"`
}

func viewPassType(pt *model.PassType) passTypeView {
    return passTypeView{
        ID:           pt.ID,
        Name:         pt.Name,
        Description:  pt.Description,
        PriceAmount:  pt.PriceAmount,
        ValidityDays: pt.ValidityDays,
        IsActive:     pt.IsActive,
    }
}

func viewPassTypes(in []model.PassType) []passTypeView {
    out := make([]passTypeView, 0, len(in))
    for i := range in {
        out = append(out, viewPassType(&in[i]))
    }
    return out
}

type ruleView struct {
    ID              uint64 `json:"id"`
    PassTypeID      uint64 `json:"pass_type_id"`
    BusinessID      uint64 `json:"business_id"`
    DiscountPercent uint8  `json:"discount_percentage"`
    UsageType       string `json:"usage_type"`
    MaxUsage        uint32 `json:"max_usage"`
}

func viewRule(r *model.BusinessDiscountRule) ruleView {
    return ruleView{
        ID:              r.ID,
        PassTypeID:      r.PassTypeID,
        BusinessID:      r.BusinessID,
        DiscountPercent: r.DiscountPercent,
        UsageType:       r.UsageType,
        MaxUsage:        r.MaxUsage,
    }
}

func viewRules(in []model.BusinessDiscountRule) []ruleView {
    out := make([]ruleView, 0, len(in))
    for i := range in {
        out = append(out, viewRule(&in[i]))
    }
    return out
}

// passView includes the activation code and PIN: it is served only on
// the admin surface, where staff read codes out to customers.
type passView struct {
    ID             uint64 `json:"id"`
    CustomerID     uint64 `json:"customer_id"`
    PassTypeID     uint64 `json:"pass_type_id"`
    ActivationCode string `json:"activation_code"`
    PINCode        string `json:"pin_code"`
    ExpiryDate     string `json:"expiry_date"`
    Status         string `json:"status"`
}

func viewPass(p *model.Pass) passView {
    return passView{
        ID:             p.ID,
        CustomerID:     p.CustomerID,
        PassTypeID:     p.PassTypeID,
        ActivationCode: p.ActivationCode,
        PINCode:        p.PINCode,
        ExpiryDate:     p.ExpiryDate.UTC().Format(time.RFC3339),
        Status:         p.Status,
    }
}

func viewPasses(in []model.Pass) []passView {
    out := make([]passView, 0, len(in))
    for i := range in {
        out = append(out, viewPass(&in[i]))
    }
    return out
}

type orderView struct {
    ID         uint64  `json:"id"`
    CustomerID uint64  `json:"customer_id"`
    PassTypeID uint64  `json:"pass_type_id"`
    PassID     *uint64 `json:"pass_id,omitempty"`
    Amount     float64 `json:"amount"`
    Status     string  `json:"status"`
    CreatedAt  string  `json:"created_at"`
}

func viewOrder(o *model.Order) orderView {
    return orderView{
        ID:         o.ID,
        CustomerID: o.CustomerID,
        PassTypeID: o.PassTypeID,
        PassID:     o.PassID,
        Amount:     o.Amount,
        Status:     o.Status,
        CreatedAt:  o.CreatedAt.UTC().Format(time.RFC3339),
    }
}

func viewOrders(in []model.Order) []orderView {
    out := make([]orderView, 0, len(in))
    for i := range in {
        out = append(out, viewOrder(&in[i]))
    }
    return out
}

type ticketView struct {
    ID         uint64  `json:"id"`
    BusinessID *uint64 `json:"business_id,omitempty"`
    Subject    string  `json:"subject"`
    Body       string  `json:"body"`
    Status     string  `json:"status"`
    CreatedAt  string  `json:"created_at"`
}

func viewTicket(t *model.SupportTicket) ticketView {
    return ticketView{
        ID:         t.ID,
        BusinessID: t.BusinessID,
        Subject:    t.Subject,
        Body:       t.Body,
        Status:     t.Status,
        CreatedAt:  t.CreatedAt.UTC().Format(time.RFC3339),
    }
}

func viewTickets(in []model.SupportTicket) []ticketView {
    out := make([]ticketView, 0, len(in))
    for i := range in {
        out = append(out, viewTicket(&in[i]))
    }
    return out
}

type replyView struct {
    ID           uint64 `json:"id"`
    TicketID     uint64 `json:"ticket_id"`
    AuthorUserID uint64 `json:"author_user_id"`
    Body         string `json:"body"`
    CreatedAt    string `json:"created_at"`
}

func viewReplies(in []model.TicketReply) []replyView {
    out := make([]replyView, 0, len(in))
    for i := range in {
        out = append(out, replyView{
            ID:           in[i].ID,
            TicketID:     in[i].TicketID,
            AuthorUserID: in[i].AuthorUserID,
            Body:         in[i].Body,
            CreatedAt:    in[i].CreatedAt.UTC().Format(time.RFC3339),
        })
    }
    return out
}
