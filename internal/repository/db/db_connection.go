package db

import (
	"database/sql"
	"fmt"

	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"
)

const sqliteDriverName = "sqlite"

// InitDB opens/creates a SQLite DB file and ensures tables exist.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// one writer is all SQLite handles well
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

const schemaDashboardConfig = `
CREATE TABLE IF NOT EXISTS dashboard_config (
    key TEXT PRIMARY KEY,
    body TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
`

func ensureSchema(db *sql.DB) error {
	if _, err := db.Exec(schemaDashboardConfig); err != nil {
		return fmt.Errorf("apply dashboard_config schema: %w", err)
	}
	return nil
}

// RedisOptions mirrors the store.redis config section.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// InitRedis builds a Redis client. Connectivity is not checked here;
// the first Load surfaces an unreachable server.
func InitRedis(o RedisOptions) redis.UniversalClient {
	return redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    []string{o.Addr},
		Password: o.Password,
		DB:       o.DB,
	})
}
