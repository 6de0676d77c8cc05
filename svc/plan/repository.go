package plan

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the storage contract for the plan catalog.
// Create must fail with ErrDuplicateName when the name is taken.
type Repository interface {
	Create(ctx context.Context, p Plan) error
	Get(ctx context.Context, id uuid.UUID) (Plan, error)
	List(ctx context.Context) ([]Plan, error)
}
