// Package user implements the identity directory: registration,
// credential verification, and token issuance. The billing orchestrator
// consumes it only as an existence lookup for user ids.
package user

import (
	"time"

	"github.com/google/uuid"
)

// User is a directory entry. PasswordHash never leaves the package
// through the API layer.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash []byte
	CompanyName  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
