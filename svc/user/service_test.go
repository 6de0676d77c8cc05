package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/shieldstack/billing/svc/user"
)

func newService() *user.Service {
	return user.NewService(user.NewMemoryRepository(), bcrypt.MinCost, nil)
}

func TestService_Register(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("registers with hashed password", func(t *testing.T) {
		t.Parallel()
		svc := newService()

		u, err := svc.Register(ctx, "ops@example.com", "correct horse", "Example Ltd")
		require.NoError(t, err)
		assert.Equal(t, "ops@example.com", u.Email)
		assert.Equal(t, "Example Ltd", u.CompanyName)
		assert.NotContains(t, string(u.PasswordHash), "correct horse")
	})

	t.Run("normalizes email", func(t *testing.T) {
		t.Parallel()
		svc := newService()

		u, err := svc.Register(ctx, "  Ops@Example.COM ", "correct horse", "")
		require.NoError(t, err)
		assert.Equal(t, "ops@example.com", u.Email)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		t.Parallel()
		svc := newService()

		_, err := svc.Register(ctx, "ops@example.com", "correct horse", "")
		require.NoError(t, err)

		_, err = svc.Register(ctx, "OPS@example.com", "another pass", "")
		assert.ErrorIs(t, err, user.ErrEmailTaken)
	})

	t.Run("rejects weak password", func(t *testing.T) {
		t.Parallel()
		svc := newService()

		_, err := svc.Register(ctx, "ops@example.com", "short", "")
		assert.ErrorIs(t, err, user.ErrWeakPassword)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		t.Parallel()
		svc := newService()

		_, err := svc.Register(ctx, "not-an-email", "correct horse", "")
		assert.ErrorIs(t, err, user.ErrInvalidEmail)
	})
}

func TestService_Authenticate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("accepts the right password", func(t *testing.T) {
		t.Parallel()
		svc := newService()

		registered, err := svc.Register(ctx, "ops@example.com", "correct horse", "")
		require.NoError(t, err)

		u, err := svc.Authenticate(ctx, "ops@example.com", "correct horse")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, u.ID)
	})

	t.Run("rejects the wrong password", func(t *testing.T) {
		t.Parallel()
		svc := newService()

		_, err := svc.Register(ctx, "ops@example.com", "correct horse", "")
		require.NoError(t, err)

		_, err = svc.Authenticate(ctx, "ops@example.com", "wrong horse")
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})

	t.Run("unknown email yields the same error as a wrong password", func(t *testing.T) {
		t.Parallel()
		svc := newService()

		_, err := svc.Authenticate(ctx, "ghost@example.com", "whatever pass")
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})
}

func TestService_Exists(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newService()
	u, err := svc.Register(ctx, "ops@example.com", "correct horse", "")
	require.NoError(t, err)

	exists, err := svc.Exists(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = svc.Exists(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestTokenIssuer(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		issuer, err := user.NewTokenIssuer("test-secret-at-least-32-bytes-long", "billing-test", time.Hour)
		require.NoError(t, err)

		userID := uuid.New()
		token, err := issuer.Issue(userID)
		require.NoError(t, err)

		parsed, err := issuer.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, userID, parsed)
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		t.Parallel()
		issuer, err := user.NewTokenIssuer("secret-one-which-is-long-enough!", "billing-test", time.Hour)
		require.NoError(t, err)
		other, err := user.NewTokenIssuer("secret-two-which-is-long-enough!", "billing-test", time.Hour)
		require.NoError(t, err)

		token, err := other.Issue(uuid.New())
		require.NoError(t, err)

		_, err = issuer.Parse(token)
		assert.ErrorIs(t, err, user.ErrInvalidToken)
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		t.Parallel()
		issuer, err := user.NewTokenIssuer("test-secret-at-least-32-bytes-long", "billing-test", time.Hour)
		require.NoError(t, err)

		_, err = issuer.Parse("not.a.token")
		assert.ErrorIs(t, err, user.ErrInvalidToken)
	})

	t.Run("requires a secret", func(t *testing.T) {
		t.Parallel()
		_, err := user.NewTokenIssuer("", "billing-test", time.Hour)
		assert.ErrorIs(t, err, user.ErrMissingTokenSecret)
	})
}
