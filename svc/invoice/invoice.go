// Package invoice implements the invoice ledger: billing documents that
// snapshot an amount at generation time, independent of later plan
// changes.
package invoice

import (
	"time"

	"github.com/google/uuid"
)

// Status is an invoice settlement state.
type Status string

const (
	StatusPaid    Status = "paid"
	StatusPending Status = "pending"
	StatusFailed  Status = "failed"
	StatusUnpaid  Status = "unpaid"
)

// Valid reports whether the status is part of the enumeration.
func (s Status) Valid() bool {
	switch s {
	case StatusPaid, StatusPending, StatusFailed, StatusUnpaid:
		return true
	}
	return false
}

// LineItem is one priced entry on an invoice.
type LineItem struct {
	Description string
	Amount      int64
}

// Invoice bills a subscription. Amount is snapshotted from the plan at
// generation time, in the smallest currency unit.
type Invoice struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	SubscriptionID uuid.UUID
	Amount         int64
	Status         Status
	InvoiceDate    time.Time
	DueDate        time.Time
	LineItems      []LineItem
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (i *Invoice) IsPaid() bool {
	return i.Status == StatusPaid
}

func (i *Invoice) IsUnpaid() bool {
	return i.Status == StatusUnpaid
}

// CreateParams carries the fields required to create an invoice.
// DueDate defaults to the invoice date when left zero, matching
// instant-pay invoices.
type CreateParams struct {
	UserID         uuid.UUID
	SubscriptionID uuid.UUID
	Amount         int64
	Status         Status
	LineItems      []LineItem
	DueDate        time.Time
}
