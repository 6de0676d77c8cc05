// Package billing implements the orchestrator that ties the subscription
// lifecycle to invoice generation. It owns no records itself: every
// operation coordinates the subscription and invoice ledgers plus
// read-only views of the plan catalog and user directory, and only this
// package may mutate more than one ledger per operation.
package billing

import (
	"context"

	"github.com/google/uuid"

	"github.com/shieldstack/billing/svc/invoice"
	"github.com/shieldstack/billing/svc/plan"
	"github.com/shieldstack/billing/svc/subscription"
)

// PlanCatalog is the orchestrator's read-only view of the plan catalog.
type PlanCatalog interface {
	Get(ctx context.Context, id uuid.UUID) (plan.Plan, error)
}

// Directory is the orchestrator's view of the identity provider: an
// opaque existence check for user ids.
type Directory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// SubscriptionWithPlan is the read-time enrichment of a subscription
// with its plan for display. Plan is nil when the referenced plan no
// longer resolves; the subscription itself is still listed.
type SubscriptionWithPlan struct {
	Subscription subscription.Subscription
	Plan         *plan.Plan
}

// SubscribeResult is the aggregate state produced by Subscribe.
type SubscribeResult struct {
	Subscription subscription.Subscription
	Invoice      invoice.Invoice
}

// FailureResult is the aggregate state produced by SimulateFailure.
type FailureResult struct {
	Subscription subscription.Subscription
	Invoice      invoice.Invoice
}

// PaymentResult is the aggregate state produced by PayInvoice.
// Subscription is nil when the invoice's subscription record no longer
// exists; the invoice is settled regardless.
type PaymentResult struct {
	Invoice      invoice.Invoice
	Subscription *subscription.Subscription
}
