package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the storage contract for the user directory.
// Create must fail with ErrEmailTaken when the email is registered.
type Repository interface {
	Create(ctx context.Context, u User) error
	Get(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
}
