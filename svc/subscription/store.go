package subscription

import (
	"context"

	"github.com/google/uuid"
)

// Store is the storage contract for the subscription ledger.
//
// UpdateStatus is an unconditional single-field write keyed by id: it
// must compare against the record's identity, never a previously read
// snapshot, so concurrent writers cannot lose each other's updates.
type Store interface {
	Create(ctx context.Context, sub Subscription) error
	Get(ctx context.Context, id uuid.UUID) (Subscription, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Subscription, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (Subscription, error)
}
