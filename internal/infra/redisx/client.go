package redisx

import (
	"context"
	"fmt"
	"time"

	"restaurant-engine/internal/pkg/config"
	"restaurant-engine/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

const (
	keyLock     = "restaurant:lock:%s"
	keySequence = "restaurant:seq:orders:%s"

	// sequences outlive their day so late retries still see the counter
	ttlSequence = 48 * time.Hour
)

func LockKey(key string) string     { return fmt.Sprintf(keyLock, key) }
func SequenceKey(day string) string { return fmt.Sprintf(keySequence, day) }

func New(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errs.Wrap(err, "ping redis")
	}
	return rdb, nil
}

// Sequence issues order numbers shared by every engine instance.
type Sequence struct {
	rdb *redis.Client
}

func NewSequence(rdb *redis.Client) *Sequence {
	return &Sequence{rdb: rdb}
}

func (s *Sequence) Next(ctx context.Context, day string) (int64, error) {
	key := SequenceKey(day)
	pipe := s.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, ttlSequence)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, errs.Wrap(err, "increment order sequence")
	}
	return incr.Val(), nil
}
