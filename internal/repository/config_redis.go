package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type ConfigRedis struct {
	rdb redis.UniversalClient
	key string
}

func NewConfigRedis(rdb redis.UniversalClient, key string) *ConfigRedis {
	return &ConfigRedis{rdb: rdb, key: key}
}

var _ ConfigRepo = (*ConfigRedis)(nil)

// Save stores the blob under the fixed key without expiry.
func (r *ConfigRedis) Save(ctx context.Context, raw []byte) error {
	if err := r.rdb.Set(ctx, r.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", r.key, err)
	}
	return nil
}

// Load returns the stored blob or (nil, nil) if the key does not exist.
func (r *ConfigRedis) Load(ctx context.Context) ([]byte, error) {
	b, err := r.rdb.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get %q: %w", r.key, err)
	}
	return b, nil
}
