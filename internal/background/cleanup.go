package background

import (
	"context"
	"log/slog"
	"time"
)

// ExpiredRowCleaner removes expired rows from a database table
type ExpiredRowCleaner interface {
	CleanupExpired(ctx context.Context) (int64, error)
}

// ExpiredEntrySweeper drops expired in-memory entries (pending sign-in
// attempts, enrollment sessions)
type ExpiredEntrySweeper interface {
	SweepExpired() int
}

// CleanupManager periodically removes expired revoked tokens and reset
// tokens from the database, and sweeps in-memory challenge state.
type CleanupManager struct {
	cleaners map[string]ExpiredRowCleaner
	sweepers map[string]ExpiredEntrySweeper
	logger   *slog.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewCleanupManager creates a new cleanup manager
func NewCleanupManager(logger *slog.Logger, interval time.Duration) *CleanupManager {
	return &CleanupManager{
		cleaners: make(map[string]ExpiredRowCleaner),
		sweepers: make(map[string]ExpiredEntrySweeper),
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// AddCleaner registers a database cleaner under a name used in logs
func (cm *CleanupManager) AddCleaner(name string, cleaner ExpiredRowCleaner) {
	cm.cleaners[name] = cleaner
}

// AddSweeper registers an in-memory sweeper under a name used in logs
func (cm *CleanupManager) AddSweeper(name string, sweeper ExpiredEntrySweeper) {
	cm.sweepers[name] = sweeper
}

// Start begins the periodic cleanup task
func (cm *CleanupManager) Start(ctx context.Context) {
	ticker := time.NewTicker(cm.interval)
	defer ticker.Stop()

	// Run immediately on startup
	cm.runCleanup(ctx)

	for {
		select {
		case <-ticker.C:
			cm.runCleanup(ctx)
		case <-cm.stopCh:
			cm.logger.Info("cleanup manager stopped")
			return
		case <-ctx.Done():
			cm.logger.Info("cleanup manager context cancelled")
			return
		}
	}
}

func (cm *CleanupManager) runCleanup(ctx context.Context) {
	for name, sweeper := range cm.sweepers {
		if removed := sweeper.SweepExpired(); removed > 0 {
			cm.logger.Info("expired entries swept",
				slog.String("target", name),
				slog.Int("removed", removed))
		}
	}

	for name, cleaner := range cm.cleaners {
		cleanupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		rowsDeleted, err := cleaner.CleanupExpired(cleanupCtx)
		cancel()
		if err != nil {
			cm.logger.Error("cleanup failed",
				slog.String("target", name),
				slog.Any("error", err))
			continue
		}
		if rowsDeleted > 0 {
			cm.logger.Info("expired rows cleaned up",
				slog.String("target", name),
				slog.Int64("rows_deleted", rowsDeleted))
		}
	}
}

// Stop signals the cleanup manager to stop
func (cm *CleanupManager) Stop() {
	close(cm.stopCh)
}
