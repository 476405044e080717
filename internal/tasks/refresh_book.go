package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
	"gorm.io/gorm"

	"github.com/EtsTest-AndroidApps/QReader/internal/database"
	"github.com/EtsTest-AndroidApps/QReader/internal/library"
)

// RefreshBookTask re-fetches a single book's chapter groups.
type RefreshBookTask struct {
	BookID string `json:"book_id"`
}

// Config returns the queue configuration for book refresh tasks.
func (t RefreshBookTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "refresh_book",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// BookRefresher loads a book and refreshes it.
type BookRefresher struct {
	DB     *database.Database
	Groups library.GroupRefresher
}

// RefreshBookProcessor creates a processor function for RefreshBookTask.
// Books that no longer exist are dropped without retrying.
func RefreshBookProcessor(refresher BookRefresher) backlite.QueueProcessor[RefreshBookTask] {
	return func(ctx context.Context, task RefreshBookTask) error {
		if refresher.DB == nil || refresher.Groups == nil {
			return fmt.Errorf("book refresher not configured")
		}

		book, err := refresher.DB.Queries(ctx).Books.GetByID(task.BookID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[TASK] Book %s no longer exists, skipping refresh", task.BookID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("get book %s: %w", task.BookID, err)
		}

		view, err := refresher.Groups.GetGroups(ctx, book, true)
		if err != nil {
			return fmt.Errorf("refresh book %s: %w", task.BookID, err)
		}

		if view != nil {
			if groups, err := view.Get(ctx); err == nil {
				log.Printf("[TASK] Refreshed book %s (%s): %d groups", book.ID, book.Name, len(groups))
			}
		}
		return nil
	}
}

// NewRefreshBookQueue creates a backlite queue for book refresh tasks.
func NewRefreshBookQueue(refresher BookRefresher) backlite.Queue {
	return backlite.NewQueue(RefreshBookProcessor(refresher))
}
