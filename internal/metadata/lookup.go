// Package metadata resolves the web-novel identity of a book.
//
// The identity is cached in web_novel_books. On refresh, or when nothing is
// cached yet, the provider's search page is scraped and the best match is
// stored. Callers observe the result as a live view.
package metadata

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/EtsTest-AndroidApps/QReader/internal/database"
	"github.com/EtsTest-AndroidApps/QReader/internal/entities"
	"github.com/EtsTest-AndroidApps/QReader/internal/live"
)

// SearchProvider finds books on the web-novel provider.
type SearchProvider interface {
	Search(ctx context.Context, keywords string) ([]SearchResult, error)
}

// Lookup resolves and caches web-novel identities.
type Lookup struct {
	db       *database.Database
	provider SearchProvider
}

// NewLookup creates a Lookup over the given store and search provider.
func NewLookup(db *database.Database, provider SearchProvider) *Lookup {
	return &Lookup{db: db, provider: provider}
}

// GetBook returns a live view of the book's web-novel identity. The view
// yields nil while the book is unknown to the provider.
//
// When refresh is set, or no identity is cached, the provider is searched
// first. Search failures are returned; a search without matches is not an
// error.
func (l *Lookup) GetBook(ctx context.Context, book *entities.Book, refresh bool) (*live.Query[*entities.WebNovelBook], error) {
	cached, err := l.cached(ctx, book.ID)
	if err != nil {
		return nil, err
	}

	if refresh || cached == nil {
		if err := l.resolve(ctx, book); err != nil {
			return nil, err
		}
	}

	return live.NewQuery(l.db.Hub(), func(ctx context.Context) (*entities.WebNovelBook, error) {
		return l.cached(ctx, book.ID)
	}, entities.WebNovelBook{}.TableName()), nil
}

func (l *Lookup) cached(ctx context.Context, bookID string) (*entities.WebNovelBook, error) {
	wn, err := l.db.Queries(ctx).Books.GetWebNovelByID(bookID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get web-novel book: %w", err)
	}
	return wn, nil
}

func (l *Lookup) resolve(ctx context.Context, book *entities.Book) error {
	results, err := l.provider.Search(ctx, book.Name)
	if err != nil {
		return fmt.Errorf("search web-novel for %q: %w", book.Name, err)
	}

	match, ok := BestMatch(book.Name, results)
	if !ok {
		log.Printf("[metadata] No web-novel match for %q", book.Name)
		return nil
	}

	err = l.db.Queries(ctx).Books.SaveWebNovel(&entities.WebNovelBook{
		BookID:     book.ID,
		WebNovelID: match.ID,
		Link:       match.Link,
	})
	if err != nil {
		return fmt.Errorf("save web-novel book: %w", err)
	}
	return nil
}
