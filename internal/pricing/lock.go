package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/angelmondragon/leadquote-backend/pkg/instance"
)

const defaultLockTTL = 10 * time.Minute

// lockStore defines the redis operations used by the batch lock.
type lockStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	BatchLockKey(leadID, scope string) string
}

// redisLock holds one acquired key.
type redisLock struct {
	client lockStore
	key    string
	owner  string
}

func acquireRedisLock(ctx context.Context, client lockStore, leadID, scope string, ttl time.Duration) (*redisLock, bool, error) {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	key := client.BatchLockKey(leadID, scope)
	owner := instance.GetID() + ":" + uuid.NewString()
	ok, err := client.SetNX(ctx, key, owner, ttl)
	if err != nil {
		return nil, false, fmt.Errorf("setnx: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	return &redisLock{client: client, key: key, owner: owner}, true, nil
}

// release frees the key only if the owner value still matches.
func (l *redisLock) release(ctx context.Context) error {
	if l == nil || l.owner == "" {
		return nil
	}
	value, err := l.client.Get(ctx, l.key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("read lock owner: %w", err)
	}
	if value != l.owner {
		return nil
	}
	if err := l.client.Del(ctx, l.key); err != nil {
		return fmt.Errorf("delete lock: %w", err)
	}
	l.owner = ""
	return nil
}
