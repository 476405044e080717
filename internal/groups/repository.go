// Package groups keeps a book's chapter groups in sync with the remote
// providers and serves them to readers.
//
// GetGroups is the entry point: it decides which provider path a book takes,
// merges the remote listing into the local store and returns a live view of
// the book's groups. The remaining methods are the read-side facade used by
// the reader screens.
//
// # Usage
//
//	repo := groups.NewRepository(db, groups.Dependencies{
//		Underground: undergroundClient,
//		WebNovel:    webNovelClient,
//		Metadata:    lookup,
//		Preferences: settingsStore,
//	})
//
//	view, err := repo.GetGroups(ctx, book, true)
//	for res := range view.Subscribe(ctx) {
//		...
//	}
package groups

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/EtsTest-AndroidApps/QReader/internal/database"
	"github.com/EtsTest-AndroidApps/QReader/internal/entities"
	"github.com/EtsTest-AndroidApps/QReader/internal/live"
	"github.com/EtsTest-AndroidApps/QReader/internal/sources"
)

var (
	// ErrStaleGroup is returned when a group reference no longer matches a
	// stored group.
	ErrStaleGroup = errors.New("groups: group does not exist")

	// ErrNoWebNovelRecord is returned when a web-novel-only book has no
	// web-novel identity stored.
	ErrNoWebNovelRecord = errors.New("groups: book has no web-novel record")
)

// MetadataResolver resolves the web-novel identity of a book.
type MetadataResolver interface {
	GetBook(ctx context.Context, book *entities.Book, refresh bool) (*live.Query[*entities.WebNovelBook], error)
}

// Preferences exposes the library preferences the engine reads.
type Preferences interface {
	CheckForWebNovel() bool
}

// Dependencies are the collaborators of a Repository.
type Dependencies struct {
	Underground sources.Source
	WebNovel    sources.Source
	Metadata    MetadataResolver
	Preferences Preferences
}

// Repository is the chapter group engine and facade.
type Repository struct {
	db          *database.Database
	underground sources.Source
	webNovel    sources.Source
	metadata    MetadataResolver
	prefs       Preferences
}

// NewRepository creates a Repository.
func NewRepository(db *database.Database, deps Dependencies) *Repository {
	return &Repository{
		db:          db,
		underground: deps.Underground,
		webNovel:    deps.WebNovel,
		metadata:    deps.Metadata,
		prefs:       deps.Preferences,
	}
}

// GetBook returns a live view of the book owning group. The view stays
// empty while the book does not exist.
func (r *Repository) GetBook(group *entities.Group) *live.Query[*entities.Book] {
	bookID := group.BookID
	return live.NewQuery(r.db.Hub(), func(ctx context.Context) (*entities.Book, error) {
		book, err := r.db.Queries(ctx).Books.GetByID(bookID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, live.ErrEmpty
		}
		return book, err
	}, entities.Book{}.TableName())
}

// GetChaptersByBook returns a live view of every group of the book owning
// group, in reading order.
func (r *Repository) GetChaptersByBook(group *entities.Group) *live.Query[[]entities.Group] {
	return r.chapters(group.BookID)
}

// GetGroupByLink returns a live view of the group stored under link. The view
// stays empty while no such group exists.
func (r *Repository) GetGroupByLink(link string) *live.Query[*entities.Group] {
	return live.NewQuery(r.db.Hub(), func(ctx context.Context) (*entities.Group, error) {
		group, err := r.db.Queries(ctx).Groups.Get(link)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, live.ErrEmpty
		}
		return group, err
	}, entities.Group{}.TableName())
}

// IsDownloaded reports whether every chapter of group has been downloaded.
func (r *Repository) IsDownloaded(ctx context.Context, group *entities.Group) (bool, error) {
	total, err := Total(group.Text)
	if err != nil {
		return false, err
	}

	count, err := r.db.Queries(ctx).Contents.CountByGroupLink(group.Link)
	if err != nil {
		return false, fmt.Errorf("count contents: %w", err)
	}
	return count == int64(total), nil
}

// UpdateLastRead sets the last-read marker of the group stored under
// group.Link. ErrStaleGroup means the group no longer exists.
func (r *Repository) UpdateLastRead(ctx context.Context, group *entities.Group, lastRead int) error {
	n, err := r.db.Queries(ctx).Groups.UpdateLastRead(lastRead, group.Link)
	if err != nil {
		return fmt.Errorf("update last read: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrStaleGroup, group.Link)
	}
	return nil
}

// UpdateBookLastRead sets the last-read position of a book.
func (r *Repository) UpdateBookLastRead(ctx context.Context, bookID string, lastRead int) error {
	if err := r.db.Queries(ctx).Books.UpdateLastRead(bookID, lastRead); err != nil {
		return fmt.Errorf("update book last read: %w", err)
	}
	return nil
}

// SetBookCompleted sets the completion flag of a book.
func (r *Repository) SetBookCompleted(ctx context.Context, bookID string, completed bool) error {
	if err := r.db.Queries(ctx).Books.SetCompleted(bookID, completed); err != nil {
		return fmt.Errorf("set book completed: %w", err)
	}
	return nil
}

func (r *Repository) chapters(bookID string) *live.Query[[]entities.Group] {
	return live.NewQuery(r.db.Hub(), func(ctx context.Context) ([]entities.Group, error) {
		return r.db.Queries(ctx).Books.Chapters(bookID)
	}, entities.Group{}.TableName())
}
