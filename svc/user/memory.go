package user

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// memoryRepository keeps users in process memory. Used by tests and as a
// storage fallback when no MongoDB is configured.
type memoryRepository struct {
	mu      sync.RWMutex
	users   map[uuid.UUID]User
	byEmail map[string]uuid.UUID
}

// NewMemoryRepository returns an empty in-memory user repository.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		users:   make(map[uuid.UUID]User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (r *memoryRepository) Create(_ context.Context, u User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(u.Email)
	if _, exists := r.byEmail[key]; exists {
		return ErrEmailTaken
	}
	r.users[u.ID] = u
	r.byEmail[key] = u.ID
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id uuid.UUID) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (r *memoryRepository) GetByEmail(_ context.Context, email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return User{}, ErrNotFound
	}
	return r.users[id], nil
}
