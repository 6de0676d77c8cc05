// Package subscription implements the subscription ledger: a dumb store
// for subscription records. Which status transitions are legal is decided
// by the billing orchestrator, not here.
package subscription

import (
	"time"

	"github.com/google/uuid"
)

// Status is a subscription lifecycle state.
type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusPastDue   Status = "past_due"
	// StatusSuspended is reserved: accepted by the ledger but never
	// produced by any current transition.
	StatusSuspended Status = "suspended"
)

// Valid reports whether the status is part of the lifecycle enumeration.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusCancelled, StatusPastDue, StatusSuspended:
		return true
	}
	return false
}

// Subscription is a user's enrollment in a plan.
//
// CurrentStart, CurrentEnd, and ChargeAt mirror the billing period markers
// of a real payment provider. They are stored for forward compatibility
// but no operation reads or advances them.
type Subscription struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	PlanID       uuid.UUID
	ExternalID   string // simulated payment-processor reference, unique
	Status       Status
	CurrentStart *time.Time
	CurrentEnd   *time.Time
	ChargeAt     *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (s *Subscription) IsActive() bool {
	return s.Status == StatusActive
}

func (s *Subscription) IsCancelled() bool {
	return s.Status == StatusCancelled
}

func (s *Subscription) IsPastDue() bool {
	return s.Status == StatusPastDue
}
