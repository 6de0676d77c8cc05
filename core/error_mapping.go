package core

import (
	"errors"

	"github.com/shieldstack/billing/svc/billing"
	"github.com/shieldstack/billing/svc/invoice"
	"github.com/shieldstack/billing/svc/plan"
	"github.com/shieldstack/billing/svc/subscription"
	"github.com/shieldstack/billing/svc/user"
)

// MapError resolves a domain error to its HTTPError. An HTTPError
// already present in the chain wins; unknown errors map to 500 so
// storage failures never leak details to the client.
func MapError(err error) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	switch {
	case errors.Is(err, plan.ErrNotFound),
		errors.Is(err, subscription.ErrNotFound),
		errors.Is(err, invoice.ErrNotFound),
		errors.Is(err, user.ErrNotFound),
		errors.Is(err, billing.ErrUserNotFound):
		return ErrNotFound

	case errors.Is(err, plan.ErrDuplicateName),
		errors.Is(err, subscription.ErrDuplicateExternalID),
		errors.Is(err, user.ErrEmailTaken),
		errors.Is(err, billing.ErrAlreadyCancelled):
		return ErrConflict

	case errors.Is(err, billing.ErrUnauthorized),
		errors.Is(err, user.ErrInvalidCredentials),
		errors.Is(err, user.ErrInvalidToken):
		return ErrUnauthorized

	case errors.Is(err, invoice.ErrInvalidState),
		errors.Is(err, plan.ErrInvalidName),
		errors.Is(err, plan.ErrInvalidModule),
		errors.Is(err, plan.ErrInvalidBillingCycle),
		errors.Is(err, plan.ErrInvalidPrice),
		errors.Is(err, plan.ErrNoFeatures),
		errors.Is(err, user.ErrInvalidEmail),
		errors.Is(err, user.ErrWeakPassword):
		return ErrBadRequest
	}

	// billing.ErrPartialFailure lands here on purpose: the write set is
	// inconsistent and the client must not treat it as a clean failure.
	return ErrInternalServerError
}
