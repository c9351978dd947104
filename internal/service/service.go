package service

import (
	"context"

	"homeboy/internal/logger"
	"homeboy/internal/metrics"
	"homeboy/internal/models"
	"homeboy/internal/repository"
)

// Configuration owns the user-supplied dashboard config and the mode switch
// between config entry (no config) and dashboard (config present).
type Configuration interface {
	Current() (models.Config, bool)
	Load(ctx context.Context) (bool, error)
	Submit(ctx context.Context, raw []byte) (models.Config, error)
}

// Poller runs poll cycles against the remote cache.
// Run blocks until ctx is cancelled; Reload (re)starts polling for a config.
type Poller interface {
	Run(ctx context.Context)
	Reload(cfg models.Config)
	Refresh(ctx context.Context) (models.Snapshot, error)
}

// Dashboard exposes the display state and the rendered view models.
type Dashboard interface {
	Snapshot() models.Snapshot
	View() (models.DashboardView, error)
}

// CacheReader fetches single items from the remote cache.
type CacheReader interface {
	GetItem(ctx context.Context, cfg models.Config, key string) (models.CacheItem, error)
}

type Service struct {
	Configuration
	Poller
	Dashboard
}

func NewService(repos *repository.Repository, reader CacheReader, log *logger.Logger, m metrics.Handler) *Service {
	state := NewStateStore()
	poller := NewPollerService(reader, state, log, m)
	configs := NewConfigService(repos.Config, poller, log)
	return &Service{
		Configuration: configs,
		Poller:        poller,
		Dashboard:     NewDashboardService(configs, state),
	}
}
