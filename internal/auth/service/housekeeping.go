package service

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aussiebroadwan/sessiond/internal/auth/store"
)

// Purger drops expired entries from an in-process cache and reports how
// many went.
type Purger interface {
	Purge(now time.Time) int
}

// HousekeepingService periodically deletes expired sessions and purges
// in-memory caches. Correctness never depends on it: expiry is also checked
// whenever a token is presented.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration
	Purgers  []Purger
	Now      func() time.Time

	// Internal channels for lifecycle management
	stopCh   chan struct{}
	doneCh   chan struct{}
	started  atomic.Bool
	stopOnce sync.Once
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval time.Duration, purgers ...Purger) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:    store,
		Logger:   logger,
		Interval: interval,
		Purgers:  purgers,
		Now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop gracefully shuts down the background worker.
// Blocks until the worker has finished any in-progress cleanup. Safe to call
// more than once, and without Start.
func (s *HousekeepingService) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	if !s.started.Load() {
		return
	}
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup runs one pass. Each step is independent, a failure in one doesn't
// stop the others.
func (s *HousekeepingService) Cleanup(ctx context.Context) {
	now := s.Now()

	var sessions int64
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		sessions, err = tx.Sessions().DeleteExpiredSessions(ctx, now)
		return err
	})
	if err != nil {
		s.Logger.Error("failed to delete expired sessions", "error", err)
	}

	purged := 0
	for _, p := range s.Purgers {
		purged += p.Purge(now)
	}

	s.Logger.Info("housekeeping cleanup completed",
		"expired_sessions", sessions,
		"purged_entries", purged,
	)
}
