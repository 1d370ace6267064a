package cart

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisRepository keeps each cart in a hash at cart:<sessionID>. Every write
// pushes the key's expiry out to ttl.
type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRepository(client *redis.Client, ttl time.Duration) *RedisRepository {
	return &RedisRepository{client: client, ttl: ttl}
}

func cartKey(sessionID string) string {
	return "cart:" + sessionID
}

// addItem applies a quantity change, drops the line once it reaches zero and
// refreshes the expiry, all in one step so concurrent adds cannot interleave.
var addItem = redis.NewScript(`
local n = redis.call('HINCRBY', KEYS[1], ARGV[1], ARGV[2])
if n <= 0 then
  redis.call('HDEL', KEYS[1], ARGV[1])
end
redis.call('EXPIRE', KEYS[1], ARGV[3])
return n
`)

func (r *RedisRepository) Add(ctx context.Context, sessionID, productID string, delta int64) ([]Item, error) {
	ttl := int64(r.ttl / time.Second)
	if ttl < 1 {
		ttl = 1
	}
	if err := addItem.Run(ctx, r.client, []string{cartKey(sessionID)}, productID, delta, ttl).Err(); err != nil {
		return nil, fmt.Errorf("cart add: %w", err)
	}
	return r.Get(ctx, sessionID)
}

func (r *RedisRepository) Get(ctx context.Context, sessionID string) ([]Item, error) {
	raw, err := r.client.HGetAll(ctx, cartKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("cart load: %w", err)
	}
	m := make(map[string]int64, len(raw))
	for pid, v := range raw {
		q, err := strconv.ParseInt(v, 10, 64)
		if err != nil || q <= 0 {
			continue
		}
		m[pid] = q
	}
	return toItems(m), nil
}

func (r *RedisRepository) Clear(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("cart clear: %w", err)
	}
	return nil
}
