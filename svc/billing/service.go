package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shieldstack/billing/pkg/logger"
	"github.com/shieldstack/billing/pkg/statemachine"
	"github.com/shieldstack/billing/svc/invoice"
	"github.com/shieldstack/billing/svc/subscription"
)

// renewalDueIn is how long a customer has to settle a renewal-failure
// invoice.
const renewalDueIn = 14 * 24 * time.Hour

// Service is the billing orchestrator. It holds no persistent state.
type Service struct {
	plans     PlanCatalog
	subs      subscription.Store
	invoices  invoice.Store
	directory Directory
	gateway   Gateway
	lifecycle *statemachine.Machine
	locks     *keyedMutex
	log       *slog.Logger
}

// Option configures the orchestrator.
type Option func(*Service)

// WithGateway replaces the simulated payment gateway.
func WithGateway(g Gateway) Option {
	return func(s *Service) {
		if g != nil {
			s.gateway = g
		}
	}
}

// WithLogger supplies an external slog.Logger. If nil, logs are discarded.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// NewService wires the orchestrator over its collaborators.
func NewService(plans PlanCatalog, subs subscription.Store, invoices invoice.Store, directory Directory, opts ...Option) *Service {
	if plans == nil || subs == nil || invoices == nil || directory == nil {
		panic("billing.NewService: nil collaborator")
	}

	s := &Service{
		plans:     plans,
		subs:      subs,
		invoices:  invoices,
		directory: directory,
		gateway:   NewSimulatedGateway(),
		lifecycle: newLifecycle(),
		locks:     newKeyedMutex(),
		log:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("billing_orchestrator"))
	return s
}

// Subscribe enrolls the caller in a plan. The simulated payment
// succeeds instantly, so the subscription starts active and the first
// invoice is created already paid, snapshotting the plan price.
func (s *Service) Subscribe(ctx context.Context, callerID, planID uuid.UUID) (SubscribeResult, error) {
	p, err := s.plans.Get(ctx, planID)
	if err != nil {
		return SubscribeResult{}, err
	}

	exists, err := s.directory.Exists(ctx, callerID)
	if err != nil {
		return SubscribeResult{}, fmt.Errorf("look up user: %w", err)
	}
	if !exists {
		return SubscribeResult{}, ErrUserNotFound
	}

	externalID, err := s.gateway.CreateSubscription(ctx, callerID, planID)
	if err != nil {
		return SubscribeResult{}, fmt.Errorf("payment gateway: %w", err)
	}

	now := time.Now().UTC()
	sub := subscription.Subscription{
		ID:         uuid.New(),
		UserID:     callerID,
		PlanID:     p.ID,
		ExternalID: externalID,
		Status:     subscription.StatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.subs.Create(ctx, sub); err != nil {
		return SubscribeResult{}, fmt.Errorf("create subscription: %w", err)
	}

	inv, err := s.invoices.Create(ctx, invoice.CreateParams{
		UserID:         callerID,
		SubscriptionID: sub.ID,
		Amount:         p.Price,
		Status:         invoice.StatusPaid,
		LineItems: []invoice.LineItem{
			{Description: fmt.Sprintf("%s (%s)", p.Name, p.Module), Amount: p.Price},
		},
	})
	if err != nil {
		// The subscription write already landed; surface the mixed
		// state instead of silently losing the invoice.
		s.log.ErrorContext(ctx, "invoice creation failed after subscription write",
			logger.SubscriptionID(sub.ID),
			logger.UserID(callerID),
			logger.Error(err),
		)
		return SubscribeResult{}, errors.Join(ErrPartialFailure, err)
	}

	s.log.InfoContext(ctx, "subscription created",
		logger.SubscriptionID(sub.ID),
		logger.UserID(callerID),
		logger.PlanID(p.ID),
		slog.String("external_id", externalID),
	)
	return SubscribeResult{Subscription: sub, Invoice: inv}, nil
}

// Cancel moves the caller's subscription to cancelled. Cancelling an
// already-cancelled subscription is rejected with ErrAlreadyCancelled.
func (s *Service) Cancel(ctx context.Context, callerID, subID uuid.UUID) (subscription.Subscription, error) {
	unlock := s.locks.Lock(subID)
	defer unlock()

	sub, err := s.subs.Get(ctx, subID)
	if err != nil {
		return subscription.Subscription{}, err
	}
	if sub.UserID != callerID {
		return subscription.Subscription{}, ErrUnauthorized
	}

	next, err := nextStatus(s.lifecycle, sub.Status, eventCancel)
	if err != nil {
		if statemachine.IsNoTransitionAvailableError(err) {
			return subscription.Subscription{}, ErrAlreadyCancelled
		}
		return subscription.Subscription{}, err
	}

	updated, err := s.subs.UpdateStatus(ctx, subID, next)
	if err != nil {
		return subscription.Subscription{}, fmt.Errorf("update subscription status: %w", err)
	}

	s.log.InfoContext(ctx, "subscription cancelled",
		logger.SubscriptionID(subID),
		logger.UserID(callerID),
	)
	return updated, nil
}

// SimulateFailure marks the caller's subscription past_due regardless of
// its prior state and generates an unpaid renewal invoice due in 14
// days, priced from the subscription's current plan.
func (s *Service) SimulateFailure(ctx context.Context, callerID, subID uuid.UUID) (FailureResult, error) {
	unlock := s.locks.Lock(subID)
	defer unlock()

	sub, err := s.subs.Get(ctx, subID)
	if err != nil {
		return FailureResult{}, err
	}
	if sub.UserID != callerID {
		return FailureResult{}, ErrUnauthorized
	}

	p, err := s.plans.Get(ctx, sub.PlanID)
	if err != nil {
		return FailureResult{}, fmt.Errorf("look up subscription plan: %w", err)
	}

	next, err := nextStatus(s.lifecycle, sub.Status, eventPaymentFailed)
	if err != nil {
		return FailureResult{}, err
	}

	updated, err := s.subs.UpdateStatus(ctx, subID, next)
	if err != nil {
		return FailureResult{}, fmt.Errorf("update subscription status: %w", err)
	}

	inv, err := s.invoices.Create(ctx, invoice.CreateParams{
		UserID:         callerID,
		SubscriptionID: subID,
		Amount:         p.Price,
		Status:         invoice.StatusUnpaid,
		LineItems: []invoice.LineItem{
			{Description: fmt.Sprintf("%s (Renewal)", p.Name), Amount: p.Price},
		},
		DueDate: time.Now().UTC().Add(renewalDueIn),
	})
	if err != nil {
		s.log.ErrorContext(ctx, "renewal invoice creation failed after status write",
			logger.SubscriptionID(subID),
			logger.UserID(callerID),
			logger.Error(err),
		)
		return FailureResult{}, errors.Join(ErrPartialFailure, err)
	}

	s.log.InfoContext(ctx, "payment failure simulated",
		logger.SubscriptionID(subID),
		logger.InvoiceID(inv.ID),
		logger.UserID(callerID),
	)
	return FailureResult{Subscription: updated, Invoice: inv}, nil
}

// PayInvoice settles an unpaid invoice owned by the caller and brings
// the linked subscription back to active. A missing subscription record
// is tolerated: the invoice is still settled and the result carries a
// nil subscription.
func (s *Service) PayInvoice(ctx context.Context, callerID, invoiceID uuid.UUID) (PaymentResult, error) {
	inv, err := s.invoices.Get(ctx, invoiceID)
	if err != nil {
		return PaymentResult{}, err
	}
	if inv.UserID != callerID {
		return PaymentResult{}, ErrUnauthorized
	}

	unlock := s.locks.Lock(inv.SubscriptionID)
	defer unlock()

	paid, err := s.invoices.MarkPaid(ctx, invoiceID)
	if err != nil {
		return PaymentResult{}, err
	}

	result := PaymentResult{Invoice: paid}

	sub, err := s.subs.Get(ctx, paid.SubscriptionID)
	switch {
	case errors.Is(err, subscription.ErrNotFound):
		s.log.WarnContext(ctx, "paid invoice references a missing subscription",
			logger.InvoiceID(invoiceID),
			logger.SubscriptionID(paid.SubscriptionID),
		)
	case err != nil:
		return PaymentResult{}, errors.Join(ErrPartialFailure, err)
	default:
		next, err := nextStatus(s.lifecycle, sub.Status, eventPaymentSucceeded)
		if err != nil {
			return PaymentResult{}, errors.Join(ErrPartialFailure, err)
		}
		updated, err := s.subs.UpdateStatus(ctx, sub.ID, next)
		if err != nil {
			s.log.ErrorContext(ctx, "subscription reactivation failed after invoice settled",
				logger.InvoiceID(invoiceID),
				logger.SubscriptionID(sub.ID),
				logger.Error(err),
			)
			return PaymentResult{}, errors.Join(ErrPartialFailure, err)
		}
		result.Subscription = &updated
	}

	s.log.InfoContext(ctx, "invoice paid",
		logger.InvoiceID(invoiceID),
		logger.UserID(callerID),
	)
	return result, nil
}

// ListSubscriptions returns the user's subscriptions enriched with plan
// data at read time. Only the owner may list their subscriptions.
func (s *Service) ListSubscriptions(ctx context.Context, callerID, userID uuid.UUID) ([]SubscriptionWithPlan, error) {
	if callerID != userID {
		return nil, ErrUnauthorized
	}

	subs, err := s.subs.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}

	out := make([]SubscriptionWithPlan, 0, len(subs))
	for _, sub := range subs {
		item := SubscriptionWithPlan{Subscription: sub}
		if p, err := s.plans.Get(ctx, sub.PlanID); err == nil {
			item.Plan = &p
		}
		out = append(out, item)
	}
	return out, nil
}

// ListInvoices returns the user's invoices, most recent invoice date
// first. Only the owner may list their invoices.
func (s *Service) ListInvoices(ctx context.Context, callerID, userID uuid.UUID) ([]invoice.Invoice, error) {
	if callerID != userID {
		return nil, ErrUnauthorized
	}
	return s.invoices.ListByUser(ctx, userID)
}
