package subscription

import "errors"

var (
	// ErrNotFound is returned when the subscription does not exist.
	ErrNotFound = errors.New("subscription not found")
	// ErrDuplicateExternalID is returned when the processor reference is taken.
	ErrDuplicateExternalID = errors.New("subscription external id already exists")
	// ErrInvalidStatus is returned when a status outside the enumeration
	// would be written.
	ErrInvalidStatus = errors.New("invalid subscription status")
)
