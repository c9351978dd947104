package service

import (
	"context"
	"errors"
	"sync"

	"homeboy/internal/models"
)

type mockCacheReader struct {
	mu     sync.Mutex
	values map[string]any
	errs   map[string]error
	calls  []string
}

func (m *mockCacheReader) GetItem(ctx context.Context, cfg models.Config, key string) (models.CacheItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, key)
	if err, ok := m.errs[key]; ok {
		return models.CacheItem{}, err
	}
	return models.CacheItem{Key: key, Value: m.values[key]}, nil
}

func (m *mockCacheReader) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

type mockConfigRepo struct {
	mu      sync.Mutex
	saved   []byte
	saves   int
	loadErr error
	saveErr error
}

func (m *mockConfigRepo) Save(ctx context.Context, raw []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.saved = append([]byte(nil), raw...)
	return nil
}

func (m *mockConfigRepo) Load(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.saved, nil
}

type mockReloader struct {
	mu      sync.Mutex
	reloads []models.Config
}

func (m *mockReloader) Reload(cfg models.Config) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reloads = append(m.reloads, cfg)
}

var errBoom = errors.New("boom")
