package plan

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const cacheKey = "billing:plans"

// cachedRepository is a read-through cache over another Repository.
// The catalog is small and rarely changes, so the full list is cached
// as one value and dropped on every write.
type cachedRepository struct {
	next   Repository
	client *redis.Client
	ttl    time.Duration
}

// NewCachedRepository wraps repo with a Redis read-through cache for List.
// Get and Create pass through; Create invalidates the cached list.
func NewCachedRepository(repo Repository, client *redis.Client, ttl time.Duration) Repository {
	if repo == nil {
		panic("plan.NewCachedRepository: nil repository")
	}
	if client == nil {
		panic("plan.NewCachedRepository: nil redis client")
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &cachedRepository{
		next:   repo,
		client: client,
		ttl:    ttl,
	}
}

func (r *cachedRepository) Create(ctx context.Context, p Plan) error {
	if err := r.next.Create(ctx, p); err != nil {
		return err
	}
	// Cache drop failures are not fatal: the stale list expires on TTL.
	_ = r.client.Del(ctx, cacheKey).Err()
	return nil
}

func (r *cachedRepository) Get(ctx context.Context, id uuid.UUID) (Plan, error) {
	return r.next.Get(ctx, id)
}

func (r *cachedRepository) List(ctx context.Context) ([]Plan, error) {
	raw, err := r.client.Get(ctx, cacheKey).Bytes()
	if err == nil {
		var plans []Plan
		if err := json.Unmarshal(raw, &plans); err == nil {
			return plans, nil
		}
		// Corrupt cache entry; fall through to the source of truth.
		_ = r.client.Del(ctx, cacheKey).Err()
	} else if err != redis.Nil {
		// Redis being down must not take the catalog down with it.
		return r.next.List(ctx)
	}

	plans, err := r.next.List(ctx)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(plans); err == nil {
		_ = r.client.Set(ctx, cacheKey, raw, r.ttl).Err()
	}
	return plans, nil
}
