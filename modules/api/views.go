package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/shieldstack/billing/svc/billing"
	"github.com/shieldstack/billing/svc/invoice"
	"github.com/shieldstack/billing/svc/plan"
	"github.com/shieldstack/billing/svc/subscription"
	"github.com/shieldstack/billing/svc/user"
)

// Response views. Domain structs never cross the HTTP boundary directly
// so field renames inside svc packages cannot silently change the API.

type userView struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	CompanyName string    `json:"company_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type authView struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

type planView struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Module       string    `json:"module"`
	Price        int64     `json:"price"`
	BillingCycle string    `json:"billing_cycle"`
	Features     []string  `json:"features"`
	CreatedAt    time.Time `json:"created_at"`
}

type subscriptionView struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	PlanID       uuid.UUID  `json:"plan_id"`
	ExternalID   string     `json:"external_id"`
	Status       string     `json:"status"`
	CurrentStart *time.Time `json:"current_start,omitempty"`
	CurrentEnd   *time.Time `json:"current_end,omitempty"`
	ChargeAt     *time.Time `json:"charge_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	Plan         *planView  `json:"plan,omitempty"`
}

type lineItemView struct {
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
}

type invoiceView struct {
	ID             uuid.UUID      `json:"id"`
	UserID         uuid.UUID      `json:"user_id"`
	SubscriptionID uuid.UUID      `json:"subscription_id"`
	Amount         int64          `json:"amount"`
	Status         string         `json:"status"`
	InvoiceDate    time.Time      `json:"invoice_date"`
	DueDate        time.Time      `json:"due_date"`
	LineItems      []lineItemView `json:"line_items"`
	CreatedAt      time.Time      `json:"created_at"`
}

type subscribeView struct {
	Subscription subscriptionView `json:"subscription"`
	Invoice      invoiceView      `json:"invoice"`
}

type paymentView struct {
	Invoice      invoiceView       `json:"invoice"`
	Subscription *subscriptionView `json:"subscription"`
}

func toUserView(u user.User) userView {
	return userView{
		ID:          u.ID,
		Email:       u.Email,
		CompanyName: u.CompanyName,
		CreatedAt:   u.CreatedAt,
	}
}

func toPlanView(p plan.Plan) planView {
	return planView{
		ID:           p.ID,
		Name:         p.Name,
		Module:       string(p.Module),
		Price:        p.Price,
		BillingCycle: string(p.BillingCycle),
		Features:     p.Features,
		CreatedAt:    p.CreatedAt,
	}
}

func toSubscriptionView(s subscription.Subscription) subscriptionView {
	return subscriptionView{
		ID:           s.ID,
		UserID:       s.UserID,
		PlanID:       s.PlanID,
		ExternalID:   s.ExternalID,
		Status:       string(s.Status),
		CurrentStart: s.CurrentStart,
		CurrentEnd:   s.CurrentEnd,
		ChargeAt:     s.ChargeAt,
		CreatedAt:    s.CreatedAt,
	}
}

func toEnrichedSubscriptionView(s billing.SubscriptionWithPlan) subscriptionView {
	v := toSubscriptionView(s.Subscription)
	if s.Plan != nil {
		p := toPlanView(*s.Plan)
		v.Plan = &p
	}
	return v
}

func toInvoiceView(i invoice.Invoice) invoiceView {
	items := make([]lineItemView, 0, len(i.LineItems))
	for _, li := range i.LineItems {
		items = append(items, lineItemView{Description: li.Description, Amount: li.Amount})
	}
	return invoiceView{
		ID:             i.ID,
		UserID:         i.UserID,
		SubscriptionID: i.SubscriptionID,
		Amount:         i.Amount,
		Status:         string(i.Status),
		InvoiceDate:    i.InvoiceDate,
		DueDate:        i.DueDate,
		LineItems:      items,
		CreatedAt:      i.CreatedAt,
	}
}
