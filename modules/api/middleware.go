package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/shieldstack/billing/core"
	"github.com/shieldstack/billing/svc/user"
)

type ctxKey int

const callerKey ctxKey = iota

// authenticate resolves the caller's user id from the Authorization
// bearer token and stores it in the request context.
func (h *handlers) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			core.JSONError(w, user.ErrInvalidToken)
			return
		}

		callerID, err := h.tokens.Parse(token)
		if err != nil {
			core.JSONError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), callerKey, callerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}

// callerID returns the authenticated user id put there by authenticate.
func callerID(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(callerKey).(uuid.UUID)
	return id
}
