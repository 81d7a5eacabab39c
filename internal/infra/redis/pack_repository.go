package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/ismailukman/millionaire-live/internal/domain"
)

// PackLoader fetches pack content from a backing store (e.g. Postgres).
type PackLoader interface {
	LoadPack(ctx context.Context, packID string) (domain.Pack, error)
}

// PackRepository caches whole packs as JSON in Redis and falls back to a
// loader on cache miss. Packs are stored as: SET pack:{packID} {json}.
// Concurrent misses for the same pack collapse into one load.
type PackRepository struct {
	client *redis.Client
	loader PackLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewPackRepository(client *redis.Client, loader PackLoader, ttl time.Duration) *PackRepository {
	return &PackRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *PackRepository) GetPack(ctx context.Context, packID string) (domain.Pack, error) {
	key := r.key(packID)

	if raw, err := r.client.Get(ctx, key).Result(); err == nil {
		var pack domain.Pack
		if err := json.Unmarshal([]byte(raw), &pack); err == nil {
			return pack, nil
		}
		// Corrupt cache entry; drop it and reload.
		_ = r.client.Del(ctx, key).Err()
	}

	result, err, _ := r.sf.Do(packID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if raw, err := r.client.Get(ctx, key).Result(); err == nil {
			var pack domain.Pack
			if err := json.Unmarshal([]byte(raw), &pack); err == nil {
				return pack, nil
			}
		}

		pack, err := r.loader.LoadPack(ctx, packID)
		if err != nil {
			return domain.Pack{}, err
		}

		if raw, err := json.Marshal(pack); err == nil {
			_ = r.client.Set(ctx, key, raw, r.ttlWithJitter()).Err()
		}
		return pack, nil
	})
	if err != nil {
		return domain.Pack{}, err
	}
	return result.(domain.Pack), nil
}

// Invalidate drops the cached copy, used after a pack is re-imported.
func (r *PackRepository) Invalidate(ctx context.Context, packID string) error {
	return r.client.Del(ctx, r.key(packID)).Err()
}

func (r *PackRepository) key(packID string) string {
	return "pack:" + packID
}

func (r *PackRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
