package repository

import (
	"context"
	"database/sql"

	"github.com/redis/go-redis/v9"
)

// ConfigRepo stores the single dashboard configuration blob.
type ConfigRepo interface {
	// Save replaces the stored blob.
	Save(ctx context.Context, raw []byte) error
	// Load returns the stored blob, or (nil, nil) when nothing was saved yet.
	Load(ctx context.Context) ([]byte, error)
}

type Repository struct {
	Config ConfigRepo
}

// NewRepository wires the SQLite-backed repositories.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Config: NewConfigSQLite(db),
	}
}

// NewRedisRepository wires the Redis-backed repositories.
func NewRedisRepository(rdb redis.UniversalClient, key string) *Repository {
	return &Repository{
		Config: NewConfigRedis(rdb, key),
	}
}
