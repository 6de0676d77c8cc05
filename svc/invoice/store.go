package invoice

import (
	"context"

	"github.com/google/uuid"
)

// Store is the storage contract for the invoice ledger.
//
// MarkPaid must be a conditional atomic write: the status check against
// StatusUnpaid belongs in the write itself, not in a read-then-write
// sequence, so a racing payment cannot settle the same invoice twice.
type Store interface {
	Create(ctx context.Context, params CreateParams) (Invoice, error)
	Get(ctx context.Context, id uuid.UUID) (Invoice, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Invoice, error)
	MarkPaid(ctx context.Context, id uuid.UUID) (Invoice, error)
}
