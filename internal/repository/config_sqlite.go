package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type ConfigSQLite struct {
	db *sql.DB
}

func NewConfigSQLite(db *sql.DB) *ConfigSQLite {
	return &ConfigSQLite{db: db}
}

var _ ConfigRepo = (*ConfigSQLite)(nil)

const (
	dashboardConfigKey = "config"

	upsertConfigSQL = `
		INSERT INTO dashboard_config (key, body, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			body=excluded.body,
			updated_at=excluded.updated_at
	`

	selectConfigSQL = `SELECT body FROM dashboard_config WHERE key = ?`
)

// Save upserts the single dashboard_config row.
func (r *ConfigSQLite) Save(ctx context.Context, raw []byte) error {
	_, err := r.db.ExecContext(ctx, upsertConfigSQL,
		dashboardConfigKey,
		string(raw),
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert dashboard config: %w", err)
	}
	return nil
}

// Load returns the stored blob or (nil, nil) if the row does not exist.
func (r *ConfigSQLite) Load(ctx context.Context) ([]byte, error) {
	var body string
	err := r.db.QueryRowContext(ctx, selectConfigSQL, dashboardConfigKey).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select dashboard config: %w", err)
	}
	return []byte(body), nil
}
