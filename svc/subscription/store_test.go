package subscription_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shieldstack/billing/svc/subscription"
)

func newSubscription(userID uuid.UUID, externalID string) subscription.Subscription {
	now := time.Now().UTC()
	return subscription.Subscription{
		ID:         uuid.New(),
		UserID:     userID,
		PlanID:     uuid.New(),
		ExternalID: externalID,
		Status:     subscription.StatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestMemoryStore_Create(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("stores a subscription", func(t *testing.T) {
		t.Parallel()
		store := subscription.NewMemoryStore()
		sub := newSubscription(uuid.New(), "sub_aaa")

		require.NoError(t, store.Create(ctx, sub))

		got, err := store.Get(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, sub.ExternalID, got.ExternalID)
		assert.True(t, got.IsActive())
	})

	t.Run("rejects duplicate external id", func(t *testing.T) {
		t.Parallel()
		store := subscription.NewMemoryStore()

		require.NoError(t, store.Create(ctx, newSubscription(uuid.New(), "sub_dup")))
		err := store.Create(ctx, newSubscription(uuid.New(), "sub_dup"))
		assert.ErrorIs(t, err, subscription.ErrDuplicateExternalID)
	})

	t.Run("rejects status outside the enumeration", func(t *testing.T) {
		t.Parallel()
		store := subscription.NewMemoryStore()
		sub := newSubscription(uuid.New(), "sub_bad")
		sub.Status = "halted"

		err := store.Create(ctx, sub)
		assert.ErrorIs(t, err, subscription.ErrInvalidStatus)
	})
}

func TestMemoryStore_Get(t *testing.T) {
	t.Parallel()

	store := subscription.NewMemoryStore()
	_, err := store.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, subscription.ErrNotFound)
}

func TestMemoryStore_ListByUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := subscription.NewMemoryStore()
	userID := uuid.New()

	for i := range 3 {
		sub := newSubscription(userID, fmt.Sprintf("sub_%d", i))
		sub.CreatedAt = time.Now().UTC().Add(time.Duration(i) * time.Minute)
		require.NoError(t, store.Create(ctx, sub))
	}
	require.NoError(t, store.Create(ctx, newSubscription(uuid.New(), "sub_other")))

	subs, err := store.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, subs, 3)
	// Newest first.
	assert.True(t, subs[0].CreatedAt.After(subs[1].CreatedAt))
	assert.True(t, subs[1].CreatedAt.After(subs[2].CreatedAt))
}

func TestMemoryStore_UpdateStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("writes the status field only", func(t *testing.T) {
		t.Parallel()
		store := subscription.NewMemoryStore()
		sub := newSubscription(uuid.New(), "sub_upd")
		require.NoError(t, store.Create(ctx, sub))

		updated, err := store.UpdateStatus(ctx, sub.ID, subscription.StatusPastDue)
		require.NoError(t, err)
		assert.Equal(t, subscription.StatusPastDue, updated.Status)
		assert.Equal(t, sub.ExternalID, updated.ExternalID)
		assert.Equal(t, sub.PlanID, updated.PlanID)
	})

	t.Run("unknown id", func(t *testing.T) {
		t.Parallel()
		store := subscription.NewMemoryStore()
		_, err := store.UpdateStatus(ctx, uuid.New(), subscription.StatusCancelled)
		assert.ErrorIs(t, err, subscription.ErrNotFound)
	})

	t.Run("invalid status", func(t *testing.T) {
		t.Parallel()
		store := subscription.NewMemoryStore()
		sub := newSubscription(uuid.New(), "sub_inv")
		require.NoError(t, store.Create(ctx, sub))

		_, err := store.UpdateStatus(ctx, sub.ID, "exploded")
		assert.ErrorIs(t, err, subscription.ErrInvalidStatus)
	})

	t.Run("concurrent writers do not corrupt the record", func(t *testing.T) {
		t.Parallel()
		store := subscription.NewMemoryStore()
		sub := newSubscription(uuid.New(), "sub_race")
		require.NoError(t, store.Create(ctx, sub))

		var wg sync.WaitGroup
		statuses := []subscription.Status{
			subscription.StatusActive,
			subscription.StatusPastDue,
			subscription.StatusCancelled,
		}
		for i := range 30 {
			wg.Add(1)
			go func(status subscription.Status) {
				defer wg.Done()
				_, err := store.UpdateStatus(ctx, sub.ID, status)
				assert.NoError(t, err)
			}(statuses[i%len(statuses)])
		}
		wg.Wait()

		got, err := store.Get(ctx, sub.ID)
		require.NoError(t, err)
		assert.True(t, got.Status.Valid())
		assert.Equal(t, sub.ExternalID, got.ExternalID)
	})
}
