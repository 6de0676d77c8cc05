package subscription

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memoryStore keeps subscriptions in process memory. Used by tests and
// as a storage fallback when no MongoDB is configured.
type memoryStore struct {
	mu         sync.RWMutex
	subs       map[uuid.UUID]Subscription
	byExternal map[string]uuid.UUID
}

// NewMemoryStore returns an empty in-memory subscription store.
func NewMemoryStore() Store {
	return &memoryStore{
		subs:       make(map[uuid.UUID]Subscription),
		byExternal: make(map[string]uuid.UUID),
	}
}

func (s *memoryStore) Create(_ context.Context, sub Subscription) error {
	if !sub.Status.Valid() {
		return ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byExternal[sub.ExternalID]; exists {
		return ErrDuplicateExternalID
	}
	s.subs[sub.ID] = sub
	s.byExternal[sub.ExternalID] = sub.ID
	return nil
}

func (s *memoryStore) Get(_ context.Context, id uuid.UUID) (Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.subs[id]
	if !ok {
		return Subscription{}, ErrNotFound
	}
	return sub, nil
}

func (s *memoryStore) ListByUser(_ context.Context, userID uuid.UUID) ([]Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Subscription, 0)
	for _, sub := range s.subs {
		if sub.UserID == userID {
			out = append(out, sub)
		}
	}
	// Newest first, matching the Mongo store's sort.
	slices.SortFunc(out, func(a, b Subscription) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func (s *memoryStore) UpdateStatus(_ context.Context, id uuid.UUID, status Status) (Subscription, error) {
	if !status.Valid() {
		return Subscription{}, ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subs[id]
	if !ok {
		return Subscription{}, ErrNotFound
	}
	sub.Status = status
	sub.UpdatedAt = time.Now().UTC()
	s.subs[id] = sub
	return sub, nil
}
