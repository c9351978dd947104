package db

import (
	"path/filepath"
	"testing"
)

func TestInitDB_CreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "homeboy.db")
	db, err := InitDB(path)
	if err != nil {
		t.Fatalf("InitDB() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='dashboard_config'`).Scan(&name)
	if err != nil {
		t.Fatalf("dashboard_config table missing: %v", err)
	}

	// reopening an existing file must not fail on the schema
	db2, err := InitDB(path)
	if err != nil {
		t.Fatalf("InitDB() on existing file error = %v", err)
	}
	_ = db2.Close()
}

func TestInitDB_BadPath(t *testing.T) {
	if _, err := InitDB(filepath.Join(t.TempDir(), "missing", "dir", "x.db")); err == nil {
		t.Fatalf("expected error for unreachable path")
	}
}
