// Package scheduler runs the library index on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/EtsTest-AndroidApps/QReader/internal/library"
	"github.com/EtsTest-AndroidApps/QReader/internal/settingsstore"
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Indexer runs one library index.
type Indexer interface {
	IndexAll(ctx context.Context) (*library.Result, error)
}

// Settings supplies the schedule and records run outcomes.
type Settings interface {
	GetIndexSyncConfig() settingsstore.IndexSyncConfig
	SetIndexSyncStatus(status, message string) error
}

// IndexSyncScheduler triggers library index runs on the configured schedule.
type IndexSyncScheduler struct {
	settings   Settings
	indexer    Indexer
	runTimeout time.Duration

	cron    *cron.Cron
	entryID cron.EntryID

	mu        sync.RWMutex
	isRunning bool
	isSyncing bool
	baseCtx   context.Context
	stopWatch context.CancelFunc
}

// NewIndexSyncScheduler creates a stopped scheduler.
func NewIndexSyncScheduler(settings Settings, indexer Indexer) *IndexSyncScheduler {
	return &IndexSyncScheduler{
		settings:   settings,
		indexer:    indexer,
		runTimeout: time.Hour,
		baseCtx:    context.Background(),
	}
}

// Start schedules the index if it is enabled. Cancelling ctx stops the
// scheduler and any run in flight.
func (s *IndexSyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	s.baseCtx = ctx

	cfg := s.settings.GetIndexSyncConfig()
	if !cfg.Enabled {
		log.Printf("Index scheduler: disabled")
		return nil
	}
	if err := settingsstore.ValidateCronSchedule(cfg.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", cfg.Schedule, err)
	}

	c := cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)))
	entryID, err := c.AddFunc(cfg.Schedule, s.runSync)
	if err != nil {
		return fmt.Errorf("failed to schedule index job: %w", err)
	}
	s.cron = c
	s.entryID = entryID
	c.Start()
	s.isRunning = true

	watchCtx, cancel := context.WithCancel(ctx)
	s.stopWatch = cancel
	go func() {
		<-watchCtx.Done()
		if ctx.Err() != nil {
			s.Stop()
		}
	}()

	nextRun, _ := settingsstore.GetNextRunTime(cfg.Schedule)
	log.Printf("Index scheduler: started with schedule '%s'. Next run: %v", cfg.Schedule, nextRun)
	return nil
}

// Stop removes the schedule and waits for a scheduled run to return.
func (s *IndexSyncScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	c := s.cron
	s.isRunning = false
	s.cron = nil
	if s.stopWatch != nil {
		s.stopWatch()
		s.stopWatch = nil
	}
	s.mu.Unlock()

	<-c.Stop().Done()
	log.Printf("Index scheduler: stopped")
}

// Reschedule restarts the scheduler with the current settings.
func (s *IndexSyncScheduler) Reschedule() error {
	s.Stop()

	s.mu.RLock()
	ctx := s.baseCtx
	s.mu.RUnlock()
	return s.Start(ctx)
}

// RunNow starts an index run in the background.
func (s *IndexSyncScheduler) RunNow() {
	go s.runSync()
}

// IsRunning reports whether a schedule is active.
func (s *IndexSyncScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// IsSyncing reports whether a run is in progress.
func (s *IndexSyncScheduler) IsSyncing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isSyncing
}

// GetNextRunTime returns the next scheduled run, or nil when stopped.
func (s *IndexSyncScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *IndexSyncScheduler) runSync() {
	s.mu.Lock()
	if s.isSyncing {
		s.mu.Unlock()
		log.Printf("Index sync: skipped (already syncing)")
		return
	}
	s.isSyncing = true
	baseCtx := s.baseCtx
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isSyncing = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(baseCtx, s.runTimeout)
	defer cancel()

	log.Printf("Index sync: starting")
	started := time.Now()

	result, err := s.indexer.IndexAll(ctx)
	switch {
	case errors.Is(err, library.ErrIndexRunning):
		log.Printf("Index sync: skipped (index started elsewhere)")
		return
	case err != nil:
		msg := fmt.Sprintf("Index failed: %v", err)
		log.Printf("Index sync: %s", msg)
		s.recordStatus(StatusFailed, msg)
		return
	}

	msg := fmt.Sprintf("Refreshed %d of %d books (%d skipped, %d failed) in %v",
		result.Refreshed, result.TotalBooks, result.Skipped, result.Failed,
		time.Since(started).Round(time.Millisecond))
	log.Printf("Index sync: %s", msg)
	s.recordStatus(StatusSuccess, msg)
}

func (s *IndexSyncScheduler) recordStatus(status, message string) {
	if err := s.settings.SetIndexSyncStatus(status, message); err != nil {
		log.Printf("Index sync: failed to record status: %v", err)
	}
}
