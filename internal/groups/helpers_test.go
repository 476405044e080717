package groups

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/EtsTest-AndroidApps/QReader/internal/database"
	"github.com/EtsTest-AndroidApps/QReader/internal/entities"
	"github.com/EtsTest-AndroidApps/QReader/internal/live"
	"github.com/EtsTest-AndroidApps/QReader/internal/sources"
)

type fakeSource struct {
	kind entities.GroupSource

	mu         sync.Mutex
	candidates []sources.Candidate
	err        error
	block      bool
	calls      atomic.Int32
	started    chan struct{}
}

func newFakeSource(kind entities.GroupSource, candidates ...sources.Candidate) *fakeSource {
	return &fakeSource{kind: kind, candidates: candidates, started: make(chan struct{}, 8)}
}

func (f *fakeSource) Kind() entities.GroupSource { return f.kind }

func (f *fakeSource) ListChapters(ctx context.Context, ref sources.Ref) ([]sources.Candidate, error) {
	f.calls.Add(1)
	select {
	case f.started <- struct{}{}:
	default:
	}

	f.mu.Lock()
	block, candidates, err := f.block, f.candidates, f.err
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return candidates, err
}

func (f *fakeSource) set(candidates ...sources.Candidate) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.candidates = candidates
}

type fakeMetadata struct {
	hub   *live.Hub
	wn    *entities.WebNovelBook
	err   error
	calls atomic.Int32
}

func (f *fakeMetadata) GetBook(ctx context.Context, book *entities.Book, refresh bool) (*live.Query[*entities.WebNovelBook], error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	wn := f.wn
	return live.NewQuery(f.hub, func(ctx context.Context) (*entities.WebNovelBook, error) {
		return wn, nil
	}, entities.WebNovelBook{}.TableName()), nil
}

type fakePrefs bool

func (p fakePrefs) CheckForWebNovel() bool { return bool(p) }

func ug(text, link string) sources.Candidate {
	return sources.Candidate{Text: text, Link: link}
}

func wn(text, link string) sources.Candidate {
	return sources.Candidate{Text: text, Link: link}
}

type fixture struct {
	db          *database.Database
	repo        *Repository
	underground *fakeSource
	webNovel    *fakeSource
	metadata    *fakeMetadata
}

func newFixture(t *testing.T, prefs bool) *fixture {
	t.Helper()
	db, err := database.NewDatabaseWithOptions(filepath.Join(t.TempDir(), "groups.db"), database.Options{LogLevel: logger.Silent})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &fixture{
		db:          db,
		underground: newFakeSource(entities.GroupSourceUnderground),
		webNovel:    newFakeSource(entities.GroupSourceWebNovel),
		metadata:    &fakeMetadata{hub: db.Hub()},
	}
	f.repo = NewRepository(db, Dependencies{
		Underground: f.underground,
		WebNovel:    f.webNovel,
		Metadata:    f.metadata,
		Preferences: fakePrefs(prefs),
	})
	return f
}

func (f *fixture) undergroundBook(t *testing.T, id string) *entities.Book {
	t.Helper()
	book := &entities.Book{ID: id, Name: "Book " + id}
	require.NoError(t, f.db.Queries(context.Background()).Books.CreateBook(book, &entities.UndergroundBook{UndergroundID: "ug-" + id}, nil))
	return book
}

func (f *fixture) webNovelBook(t *testing.T, id, link string) *entities.Book {
	t.Helper()
	book := &entities.Book{ID: id, Name: "Book " + id}
	require.NoError(t, f.db.Queries(context.Background()).Books.CreateBook(book, nil, &entities.WebNovelBook{WebNovelID: "wn-" + id, Link: link}))
	return book
}

func (f *fixture) cache(t *testing.T, book *entities.Book, source entities.GroupSource, text, link string) {
	t.Helper()
	first, err := FirstChapter(text)
	require.NoError(t, err)
	_, err = f.db.Queries(context.Background()).Groups.Insert(&entities.Group{
		BookID: book.ID, Text: text, Link: link, Source: source, FirstChapter: first,
	})
	require.NoError(t, err)
}

func (f *fixture) download(t *testing.T, link string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, f.db.Queries(context.Background()).Contents.Insert(&entities.Content{GroupLink: link, Title: "chapter"}))
	}
}

func (f *fixture) stored(t *testing.T, book *entities.Book) []entities.Group {
	t.Helper()
	groups, err := f.db.Queries(context.Background()).Books.Chapters(book.ID)
	require.NoError(t, err)
	return groups
}

func texts(groups []entities.Group) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Text + "|" + g.Link
	}
	return out
}
