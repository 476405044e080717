// Package sync provides database operations for library index progress.
//
// Progress lives in a single row that every index run resets. This package
// implements the ProgressReporter interface used by the library indexer.
//
// # Interface Implementation
//
//	var _ library.ProgressReporter = (*Repository)(nil)
package sync

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/EtsTest-AndroidApps/QReader/internal/entities"
)

// DefaultStaleAfter is how long a running record may go without updates
// before it is treated as interrupted.
const DefaultStaleAfter = 10 * time.Minute

// Counts is a progress snapshot reported while a run is in flight.
type Counts struct {
	Processed int
	Succeeded int
	Failed    int
	Skipped   int
}

// Repository tracks the progress of library index runs.
type Repository struct {
	db         *gorm.DB
	staleAfter time.Duration
	now        func() time.Time
}

// NewRepository creates a progress repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, staleAfter: DefaultStaleAfter, now: time.Now}
}

func (r *Repository) row() *gorm.DB {
	return r.db.Model(&entities.IndexProgress{}).Where("id = ?", entities.IndexProgressID)
}

// Get retrieves the progress of the last run, if there was one.
func (r *Repository) Get() (*entities.IndexProgress, error) {
	var progress entities.IndexProgress
	if err := r.db.First(&progress, entities.IndexProgressID).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

// Start resets the record for a run over totalBooks books.
func (r *Repository) Start(totalBooks int) error {
	now := r.now()
	progress := entities.IndexProgress{
		ID:         entities.IndexProgressID,
		Status:     entities.IndexStatusRunning,
		TotalBooks: totalBooks,
		StartedAt:  now,
		UpdatedAt:  now,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"status":       entities.IndexStatusRunning,
			"total_books":  totalBooks,
			"processed":    0,
			"succeeded":    0,
			"failed":       0,
			"skipped":      0,
			"current_book": "",
			"error":        "",
			"started_at":   now,
			"updated_at":   now,
			"completed_at": nil,
		}),
	}).Create(&progress).Error
}

// Update records counts and the book currently being refreshed.
func (r *Repository) Update(counts Counts, currentBook string) error {
	return r.row().Updates(map[string]any{
		"processed":    counts.Processed,
		"succeeded":    counts.Succeeded,
		"failed":       counts.Failed,
		"skipped":      counts.Skipped,
		"current_book": currentBook,
		"updated_at":   r.now(),
	}).Error
}

// Complete finishes the run as completed or failed.
func (r *Repository) Complete(succeeded bool, errorMsg string) error {
	now := r.now()
	status := entities.IndexStatusCompleted
	if !succeeded {
		status = entities.IndexStatusFailed
	}

	updates := map[string]any{
		"status":       status,
		"current_book": "",
		"updated_at":   now,
		"completed_at": now,
	}
	if errorMsg != "" {
		updates["error"] = errorMsg
	}
	return r.row().Updates(updates).Error
}

// IsRunning reports whether a run is in flight. A running record that has
// not been updated within the stale window is marked failed and ignored.
func (r *Repository) IsRunning() (bool, error) {
	progress, err := r.Get()
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if progress.Status != entities.IndexStatusRunning {
		return false, nil
	}

	if progress.UpdatedAt.Before(r.now().Add(-r.staleAfter)) {
		_ = r.Complete(false, "index was interrupted")
		return false, nil
	}
	return true, nil
}
