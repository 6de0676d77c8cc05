package billing

import "errors"

var (
	// ErrUnauthorized is returned when the caller does not own the
	// resource an operation targets. No mutation happens.
	ErrUnauthorized = errors.New("user not authorized")
	// ErrUserNotFound is returned when the referenced user id is not in
	// the directory.
	ErrUserNotFound = errors.New("user not found")
	// ErrAlreadyCancelled is returned when cancelling a subscription
	// that is already cancelled.
	ErrAlreadyCancelled = errors.New("subscription is already cancelled")
	// ErrPartialFailure is returned when a multi-record operation failed
	// after one ledger write was already applied. The applied write is
	// left as-is and logged for reconciliation; there is no automatic
	// rollback.
	ErrPartialFailure = errors.New("billing operation partially applied")
)
