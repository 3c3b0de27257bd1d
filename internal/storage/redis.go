package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores snapshots as plain redis strings under Prefix+key.
type RedisBackend struct {
	Rdb    *redis.Client
	Prefix string
}

func (r *RedisBackend) Load(ctx context.Context, key string) ([]byte, error) {
	b, err := r.Rdb.Get(ctx, r.Prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoSnapshot
		}
		return nil, err
	}
	return b, nil
}

func (r *RedisBackend) Save(ctx context.Context, key string, payload []byte) error {
	return r.Rdb.Set(ctx, r.Prefix+key, payload, 0).Err()
}

func (r *RedisBackend) Delete(ctx context.Context, key string) error {
	return r.Rdb.Del(ctx, r.Prefix+key).Err()
}
