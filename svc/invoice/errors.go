package invoice

import "errors"

var (
	// ErrNotFound is returned when the invoice does not exist.
	ErrNotFound = errors.New("invoice not found")
	// ErrInvalidState is returned when marking paid an invoice that is
	// not awaiting payment.
	ErrInvalidState = errors.New("invoice is not awaiting payment")
	// ErrInvalidStatus is returned when a status outside the enumeration
	// would be written.
	ErrInvalidStatus = errors.New("invalid invoice status")
)
