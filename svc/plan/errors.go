package plan

import "errors"

var (
	// ErrNotFound is returned when the referenced plan does not exist.
	ErrNotFound = errors.New("plan not found")
	// ErrDuplicateName is returned when a plan with the same name exists.
	ErrDuplicateName = errors.New("plan with this name already exists")
	// ErrInvalidName is returned when the plan name is empty.
	ErrInvalidName = errors.New("plan name is required")
	// ErrInvalidModule is returned for modules outside the known set.
	ErrInvalidModule = errors.New("invalid plan module")
	// ErrInvalidBillingCycle is returned for cycles other than monthly/yearly.
	ErrInvalidBillingCycle = errors.New("invalid billing cycle")
	// ErrInvalidPrice is returned for non-positive prices.
	ErrInvalidPrice = errors.New("plan price must be positive")
	// ErrNoFeatures is returned when a plan is created without features.
	ErrNoFeatures = errors.New("plan requires at least one feature")
)
