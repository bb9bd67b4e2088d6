package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
)

//go:generate moq -out mocks/pruner.go -pkg mocks -skip-ensure -fmt goimports . Pruner

// Pruner removes journal entries finished before the given time
type Pruner interface {
	PruneRuns(ctx context.Context, olderThan time.Time) (int64, error)
}

// Config holds scheduler configuration
type Config struct {
	Retention       time.Duration
	CleanupInterval time.Duration
}

// Scheduler periodically prunes the run journal
type Scheduler struct {
	pruner          Pruner
	retention       time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
	wg              sync.WaitGroup
	cancel          context.CancelFunc
}

// NewScheduler creates a new scheduler instance
func NewScheduler(pruner Pruner, cfg Config) *Scheduler {
	if cfg.Retention == 0 {
		cfg.Retention = 30 * 24 * time.Hour
	}
	if cfg.CleanupInterval == 0 {
		cfg.CleanupInterval = time.Hour
	}

	return &Scheduler{
		pruner:          pruner,
		retention:       cfg.Retention,
		cleanupInterval: cfg.CleanupInterval,
		now:             time.Now,
	}
}

// Start begins the scheduler
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.cleanupWorker(ctx)

	lgr.Printf("[INFO] scheduler started with retention %v, cleanup interval %v", s.retention, s.cleanupInterval)
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	lgr.Printf("[INFO] stopping scheduler...")
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	lgr.Printf("[INFO] scheduler stopped")
}

// cleanupWorker periodically removes expired journal entries
func (s *Scheduler) cleanupWorker(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	// run immediately on start
	s.cleanup(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cleanup(ctx)
		}
	}
}

// CleanupNow prunes expired journal entries immediately
func (s *Scheduler) CleanupNow(ctx context.Context) (int64, error) {
	return s.pruner.PruneRuns(ctx, s.now().Add(-s.retention))
}

func (s *Scheduler) cleanup(ctx context.Context) {
	deleted, err := s.CleanupNow(ctx)
	if err != nil {
		if ctx.Err() == nil {
			lgr.Printf("[WARN] failed to prune run journal: %v", err)
		}
		return
	}
	if deleted > 0 {
		lgr.Printf("[DEBUG] pruned %d journal entries older than %v", deleted, s.retention)
	}
}
