package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/EtsTest-AndroidApps/QReader/internal/library"
)

// IndexLibraryTask refreshes every book of the library.
type IndexLibraryTask struct{}

// Config returns the queue configuration for library index tasks.
func (t IndexLibraryTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "index_library",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     60 * time.Minute, // Allow time to process all books
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// LibraryIndexer runs a full library index.
type LibraryIndexer interface {
	IndexAll(ctx context.Context) (*library.Result, error)
}

// IndexLibraryProcessor creates a processor function for IndexLibraryTask.
// A run that finds another one in progress is a no-op.
func IndexLibraryProcessor(indexer LibraryIndexer) backlite.QueueProcessor[IndexLibraryTask] {
	return func(ctx context.Context, task IndexLibraryTask) error {
		if indexer == nil {
			return fmt.Errorf("indexer not configured")
		}

		result, err := indexer.IndexAll(ctx)
		if errors.Is(err, library.ErrIndexRunning) {
			log.Printf("[TASK] Library index already running, skipping")
			return nil
		}
		if err != nil {
			return fmt.Errorf("index library: %w", err)
		}

		log.Printf("[TASK] Library index complete: %d total, %d refreshed, %d skipped, %d failed",
			result.TotalBooks, result.Refreshed, result.Skipped, result.Failed)
		return nil
	}
}

// NewIndexLibraryQueue creates a backlite queue for library index tasks.
func NewIndexLibraryQueue(indexer LibraryIndexer) backlite.Queue {
	return backlite.NewQueue(IndexLibraryProcessor(indexer))
}
