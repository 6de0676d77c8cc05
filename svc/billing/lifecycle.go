package billing

import (
	"github.com/shieldstack/billing/pkg/statemachine"
	"github.com/shieldstack/billing/svc/subscription"
)

// Lifecycle events. Subscriptions are created directly in active (the
// simulated gateway settles instantly), so there is no creation event.
const (
	eventCancel           = statemachine.StringEvent("cancel")
	eventPaymentFailed    = statemachine.StringEvent("payment_failed")
	eventPaymentSucceeded = statemachine.StringEvent("payment_succeeded")
)

// newLifecycle builds the subscription lifecycle table:
//
//	cancel:            any non-cancelled state -> cancelled
//	payment_failed:    any state               -> past_due
//	payment_succeeded: any state               -> active
//
// suspended appears only as a source state: it is reserved and no event
// produces it. The missing cancelled--cancel edge is what rejects
// cancelling an already-cancelled subscription.
func newLifecycle() *statemachine.Machine {
	m := statemachine.New()

	all := []subscription.Status{
		subscription.StatusActive,
		subscription.StatusCancelled,
		subscription.StatusPastDue,
		subscription.StatusSuspended,
	}

	for _, from := range all {
		if from != subscription.StatusCancelled {
			mustAdd(m, from, eventCancel, subscription.StatusCancelled)
		}
		mustAdd(m, from, eventPaymentFailed, subscription.StatusPastDue)
		mustAdd(m, from, eventPaymentSucceeded, subscription.StatusActive)
	}

	return m
}

func mustAdd(m *statemachine.Machine, from subscription.Status, event statemachine.StringEvent, to subscription.Status) {
	if err := m.AddTransition(
		statemachine.StringState(from),
		event,
		statemachine.StringState(to),
	); err != nil {
		panic(err)
	}
}

// nextStatus consults the lifecycle table for the state an event leads
// to from the given status.
func nextStatus(m *statemachine.Machine, from subscription.Status, event statemachine.StringEvent) (subscription.Status, error) {
	to, err := m.Next(statemachine.StringState(from), event)
	if err != nil {
		return "", err
	}
	return subscription.Status(to.Name()), nil
}
