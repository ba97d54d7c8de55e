package hold

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisLocker serializes hold acquisition across replicas with SET NX
// keys. The key TTL only covers a crashed process mid-acquisition; the
// normal path deletes the keys as soon as the hold row is committed.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &RedisLocker{client: client, ttl: ttl}
}

func (l *RedisLocker) Acquire(ctx context.Context, keys []string) (func(), error) {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)

	acquired := make([]string, 0, len(sorted))
	rollback := func() {
		if len(acquired) == 0 {
			return
		}
		if err := l.client.Del(context.Background(), acquired...).Err(); err != nil {
			log.Println("hold: failed to release slot lock keys:", err)
		}
	}

	for _, k := range sorted {
		ok, err := l.client.SetNX(ctx, k, "1", l.ttl).Result()
		if err != nil {
			rollback()
			return nil, err
		}
		if !ok {
			rollback()
			return nil, ErrSlotBusy
		}
		acquired = append(acquired, k)
	}

	return rollback, nil
}
