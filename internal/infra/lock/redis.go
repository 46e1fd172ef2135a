package lock

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"restaurant-engine/internal/infra/redisx"
	"restaurant-engine/internal/pkg/errs"
	"restaurant-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultLockTTL = 30 * time.Second
	retryBase      = 5 * time.Millisecond
	retryMax       = 100 * time.Millisecond
)

// releaseScript deletes the key only if this holder still owns it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker coordinates keyed locks across processes with SET NX PX.
type RedisLocker struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisLocker(rdb *redis.Client, ttl time.Duration, logger *slog.Logger) shared.Locker {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &RedisLocker{rdb: rdb, ttl: ttl, logger: logger}
}

func (l *RedisLocker) Lock(ctx context.Context, keys ...string) (func(), error) {
	keys = normalize(keys)
	token := uuid.NewString()
	held := make([]string, 0, len(keys))
	for _, k := range keys {
		if err := l.acquire(ctx, redisx.LockKey(k), token); err != nil {
			l.releaseAll(held, token)
			return nil, errs.Wrapf(err, "acquire lock %s", k)
		}
		held = append(held, redisx.LockKey(k))
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.releaseAll(held, token) })
	}, nil
}

func (l *RedisLocker) acquire(ctx context.Context, key, token string) error {
	wait := retryBase
	for {
		ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait = min(wait*2, retryMax)
	}
}

func (l *RedisLocker) releaseAll(keys []string, token string) {
	// Release must outlive a cancelled request context.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for i := len(keys) - 1; i >= 0; i-- {
		if err := releaseScript.Run(ctx, l.rdb, []string{keys[i]}, token).Err(); err != nil {
			l.logger.Warn("failed to release redis lock",
				slog.String("key", keys[i]),
				slog.Any("error", err))
		}
	}
}
