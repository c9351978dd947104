package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"homeboy/internal/ironcache"
	"homeboy/internal/logger"
	"homeboy/internal/metrics"
	"homeboy/internal/models"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// PollerService owns the poll interval. Every tick starts a cycle in its own
// goroutine, so slow cycles may overlap; whichever completes last wins.
// A config reload stops the old ticker but does not cancel cycles in flight.
type PollerService struct {
	reader  CacheReader
	state   *StateStore
	log     *logger.Logger
	metrics metrics.Handler
	now     func() time.Time

	mu        sync.Mutex
	current   models.Config
	hasConfig bool
	reload    chan models.Config

	inflight sync.WaitGroup
}

func NewPollerService(reader CacheReader, state *StateStore, log *logger.Logger, m metrics.Handler) *PollerService {
	if log == nil {
		log = logger.Nop()
	}
	return &PollerService{
		reader:  reader,
		state:   state,
		log:     log,
		metrics: m,
		now:     time.Now,
		reload:  make(chan models.Config, 1),
	}
}

// Reload hands a new config to the loop. Only the latest pending config is
// kept if the loop has not picked up the previous one yet.
func (p *PollerService) Reload(cfg models.Config) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = cfg
	p.hasConfig = true
	select {
	case <-p.reload:
	default:
	}
	p.reload <- cfg
}

// Run polls until ctx is cancelled. Nothing happens before the first Reload.
func (p *PollerService) Run(ctx context.Context) {
	var (
		ticker *time.Ticker
		tick   <-chan time.Time
		cfg    models.Config
	)
	stopTicker := func() {
		if ticker != nil {
			ticker.Stop()
			ticker, tick = nil, nil
		}
	}
	defer stopTicker()

	for {
		select {
		case <-ctx.Done():
			p.log.Infow("poll_loop_stopped")
			return
		case cfg = <-p.reload:
			stopTicker()
			p.startCycle(ctx, cfg)
			if d := cfg.RefreshInterval(); d > 0 {
				ticker = time.NewTicker(d)
				tick = ticker.C
			}
			p.log.Infow("poll_loop_started", "interval", cfg.RefreshInterval(), "keys", len(cfg.CacheKeys()))
		case <-tick:
			p.startCycle(ctx, cfg)
		}
	}
}

// Wait blocks until all cycles started by Run have finished.
func (p *PollerService) Wait() {
	p.inflight.Wait()
}

func (p *PollerService) startCycle(ctx context.Context, cfg models.Config) {
	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()
		_, _ = p.PollOnce(ctx, cfg)
	}()
}

// Refresh runs one cycle synchronously with the current config.
func (p *PollerService) Refresh(ctx context.Context) (models.Snapshot, error) {
	p.mu.Lock()
	cfg, ok := p.current, p.hasConfig
	p.mu.Unlock()
	if !ok {
		return models.Snapshot{}, ErrNoConfig
	}
	return p.PollOnce(ctx, cfg)
}

// PollOnce fetches every configured key concurrently and, only if all
// requests succeed, replaces the display state with the results.
// Keys the cache does not hold are left out of the new state.
func (p *PollerService) PollOnce(ctx context.Context, cfg models.Config) (models.Snapshot, error) {
	start := p.now()
	keys := cfg.CacheKeys()
	items := make([]*models.CacheItem, len(keys))

	var g errgroup.Group
	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			item, err := p.reader.GetItem(ctx, cfg, key)
			if err != nil {
				if errors.Is(err, ironcache.ErrItemNotFound) {
					p.log.Debugw("cache_item_missing", "key", key)
					return nil
				}
				p.log.Warnw("cache_request_failed", "key", key, "err", err)
				return err
			}
			items[i] = &item
			return nil
		})
	}
	err := g.Wait()
	elapsed := p.now().Sub(start)

	if err != nil {
		p.observe(metrics.OutcomeFailure, elapsed)
		p.log.Warnw("poll_cycle_failed", "keys", len(keys), "err", err)
		return models.Snapshot{}, fmt.Errorf("poll cycle: %w", err)
	}

	values := make(models.SensorState, len(keys))
	for _, item := range items {
		if item != nil {
			values[item.Key] = item.Value
		}
	}
	snap := models.Snapshot{
		Values:    values,
		UpdatedAt: p.now().UTC(),
		CycleID:   uuid.NewString(),
	}
	p.state.Replace(snap)

	p.observe(metrics.OutcomeSuccess, elapsed)
	if p.metrics != nil {
		p.metrics.SetLastSuccess(snap.UpdatedAt)
	}
	p.log.Debugw("poll_cycle_completed", "cycle_id", snap.CycleID, "keys", len(keys), "values", len(values), "elapsed", elapsed)
	return snap, nil
}

func (p *PollerService) observe(outcome string, d time.Duration) {
	if p.metrics != nil {
		p.metrics.ObserveCycle(outcome, d)
	}
}
