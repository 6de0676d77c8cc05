package plan

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// memoryRepository keeps the catalog in process memory. Used by tests
// and as a storage fallback when no MongoDB is configured.
type memoryRepository struct {
	mu    sync.RWMutex
	plans map[uuid.UUID]Plan
}

// NewMemoryRepository returns an empty in-memory plan repository.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		plans: make(map[uuid.UUID]Plan),
	}
}

func (r *memoryRepository) Create(_ context.Context, p Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.plans {
		if strings.EqualFold(existing.Name, p.Name) {
			return ErrDuplicateName
		}
	}
	r.plans[p.ID] = clone(p)
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id uuid.UUID) (Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.plans[id]
	if !ok {
		return Plan{}, ErrNotFound
	}
	return clone(p), nil
}

func (r *memoryRepository) List(_ context.Context) ([]Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Plan, 0, len(r.plans))
	for _, p := range r.plans {
		out = append(out, clone(p))
	}
	// Deterministic order for display and tests.
	slices.SortFunc(out, func(a, b Plan) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out, nil
}

// clone prevents callers from mutating the repository's copy through the
// shared features slice.
func clone(p Plan) Plan {
	p.Features = slices.Clone(p.Features)
	return p
}
