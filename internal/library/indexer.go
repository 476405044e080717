// Package library refreshes the chapter groups of every book in the library.
package library

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/EtsTest-AndroidApps/QReader/internal/database"
	"github.com/EtsTest-AndroidApps/QReader/internal/database/books"
	progress "github.com/EtsTest-AndroidApps/QReader/internal/database/sync"
	"github.com/EtsTest-AndroidApps/QReader/internal/entities"
	"github.com/EtsTest-AndroidApps/QReader/internal/live"
)

// ErrIndexRunning is returned when an index run is already in progress.
var ErrIndexRunning = errors.New("library: index already running")

// GroupRefresher refreshes a single book.
type GroupRefresher interface {
	GetGroups(ctx context.Context, book *entities.Book, refresh bool) (*live.Query[[]entities.Group], error)
}

// ProgressReporter reports index progress updates.
type ProgressReporter interface {
	Start(totalBooks int) error
	Update(counts progress.Counts, currentBook string) error
	Complete(succeeded bool, errorMsg string) error
	IsRunning() (bool, error)
}

// Result summarizes an index run.
type Result struct {
	TotalBooks int `json:"total_books"`
	Refreshed  int `json:"refreshed"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
}

// Indexer refreshes every book of the library.
type Indexer struct {
	db       *database.Database
	groups   GroupRefresher
	progress ProgressReporter
}

// NewIndexer creates an Indexer.
func NewIndexer(db *database.Database, groups GroupRefresher) *Indexer {
	return &Indexer{db: db, groups: groups}
}

// SetProgressReporter sets the reporter for index runs (optional).
func (i *Indexer) SetProgressReporter(reporter ProgressReporter) {
	i.progress = reporter
}

// IndexAll refreshes the chapter groups of every unfinished book, one book
// at a time. Completed books are skipped. A failing book is logged and
// counted; the run carries on with the next one.
func (i *Indexer) IndexAll(ctx context.Context) (*Result, error) {
	if i.progress != nil {
		running, err := i.progress.IsRunning()
		if err != nil {
			return nil, fmt.Errorf("check index status: %w", err)
		}
		if running {
			return nil, ErrIndexRunning
		}
	}

	library, err := i.db.Queries(ctx).Books.ListBooks(books.ListOptions{Sort: books.SortByName})
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	result := &Result{TotalBooks: len(library)}
	if i.progress != nil {
		if err := i.progress.Start(len(library)); err != nil {
			return nil, fmt.Errorf("start index progress: %w", err)
		}
	}

	for idx := range library {
		book := &library[idx]

		if err := ctx.Err(); err != nil {
			i.complete(false, "index cancelled")
			return result, err
		}

		switch {
		case book.Completed:
			result.Skipped++
		default:
			if _, err := i.groups.GetGroups(ctx, book, true); err != nil {
				log.Printf("Library index: failed to refresh %q (%s): %v", book.Name, book.ID, err)
				result.Failed++
			} else {
				result.Refreshed++
			}
		}

		if i.progress != nil {
			counts := progress.Counts{
				Processed: idx + 1,
				Succeeded: result.Refreshed,
				Failed:    result.Failed,
				Skipped:   result.Skipped,
			}
			if err := i.progress.Update(counts, book.Name); err != nil {
				log.Printf("Library index: failed to record progress: %v", err)
			}
		}
	}

	var errorMsg string
	if result.Failed > 0 {
		errorMsg = fmt.Sprintf("%d of %d books failed to refresh", result.Failed, result.TotalBooks)
	}
	i.complete(true, errorMsg)

	log.Printf("Library index: %d books, %d refreshed, %d skipped, %d failed",
		result.TotalBooks, result.Refreshed, result.Skipped, result.Failed)
	return result, nil
}

func (i *Indexer) complete(succeeded bool, errorMsg string) {
	if i.progress == nil {
		return
	}
	if err := i.progress.Complete(succeeded, errorMsg); err != nil {
		log.Printf("Library index: failed to record completion: %v", err)
	}
}
