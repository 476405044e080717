package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/EtsTest-AndroidApps/QReader/internal/database/books"
	"github.com/EtsTest-AndroidApps/QReader/internal/entities"
	"github.com/EtsTest-AndroidApps/QReader/internal/live"
)

func setupTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabaseWithOptions(filepath.Join(t.TempDir(), "qreader.db"), Options{LogLevel: logger.Silent})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seedBook(t *testing.T, db *Database, id string, underground bool) *entities.Book {
	t.Helper()
	book := &entities.Book{ID: id, Name: "Book " + id, Author: "Author"}
	var ug *entities.UndergroundBook
	if underground {
		ug = &entities.UndergroundBook{UndergroundID: "ug-" + id}
	}
	require.NoError(t, db.Queries(context.Background()).Books.CreateBook(book, ug, nil))
	return book
}

func TestGroups_InsertIgnoresDuplicateLink(t *testing.T) {
	db := setupTestDB(t)
	seedBook(t, db, "b1", true)
	q := db.Queries(context.Background())

	inserted, err := q.Groups.Insert(&entities.Group{BookID: "b1", Text: "1 - 5", Link: "A", FirstChapter: 1})
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = q.Groups.Insert(&entities.Group{BookID: "b1", Text: "1 - 9", Link: "A", FirstChapter: 1})
	require.NoError(t, err)
	assert.False(t, inserted)

	group, err := q.Groups.Get("A")
	require.NoError(t, err)
	assert.Equal(t, "1 - 5", group.Text)
}

func TestGroups_UpdateRewritesTextAndLink(t *testing.T) {
	db := setupTestDB(t)
	seedBook(t, db, "b1", true)
	q := db.Queries(context.Background())

	_, err := q.Groups.Insert(&entities.Group{BookID: "b1", Text: "1 - 5", Link: "A", FirstChapter: 1})
	require.NoError(t, err)

	n, err := q.Groups.Update("A", "1 - 7", "B", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = q.Groups.Get("A")
	assert.True(t, books.IsNotFound(err))

	group, err := q.Groups.Get("B")
	require.NoError(t, err)
	assert.Equal(t, "1 - 7", group.Text)

	n, err = q.Groups.Update("A", "1 - 9", "C", 1)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestBooks_ChaptersOrdersByFirstChapter(t *testing.T) {
	db := setupTestDB(t)
	seedBook(t, db, "b1", true)
	q := db.Queries(context.Background())

	for _, g := range []entities.Group{
		{BookID: "b1", Text: "11 - 20", Link: "C", FirstChapter: 11},
		{BookID: "b1", Text: "1 - 5", Link: "A", FirstChapter: 1},
		{BookID: "b1", Text: "6 - 10", Link: "B", FirstChapter: 6},
	} {
		g := g
		_, err := q.Groups.Insert(&g)
		require.NoError(t, err)
	}

	groups, err := q.Books.Chapters("b1")
	require.NoError(t, err)
	require.Len(t, groups, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{groups[0].Link, groups[1].Link, groups[2].Link})
}

func TestContents_ForeignKeyBlocksLinkUpdate(t *testing.T) {
	db := setupTestDB(t)
	seedBook(t, db, "b1", true)
	q := db.Queries(context.Background())

	_, err := q.Groups.Insert(&entities.Group{BookID: "b1", Text: "1 - 5", Link: "A", FirstChapter: 1})
	require.NoError(t, err)
	require.NoError(t, q.Contents.Insert(&entities.Content{GroupLink: "A", Title: "Chapter 1"}))

	_, err = q.Groups.Update("A", "1 - 7", "B", 1)
	assert.Error(t, err)

	deleted, err := q.Contents.DeleteByGroupLink("A")
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = q.Groups.Update("A", "1 - 7", "B", 1)
	assert.NoError(t, err)
}

func TestContents_InsertRequiresGroup(t *testing.T) {
	db := setupTestDB(t)
	err := db.Queries(context.Background()).Contents.Insert(&entities.Content{GroupLink: "missing", Title: "x"})
	assert.Error(t, err)
}

func TestContents_CountByGroupLink(t *testing.T) {
	db := setupTestDB(t)
	seedBook(t, db, "b1", true)
	q := db.Queries(context.Background())

	_, err := q.Groups.Insert(&entities.Group{BookID: "b1", Text: "1 - 2", Link: "A", FirstChapter: 1})
	require.NoError(t, err)
	require.NoError(t, q.Contents.Insert(&entities.Content{GroupLink: "A", Title: "1"}))
	require.NoError(t, q.Contents.Insert(&entities.Content{GroupLink: "A", Title: "2"}))

	count, err := q.Contents.CountByGroupLink("A")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestTransaction_PublishesAfterCommit(t *testing.T) {
	db := setupTestDB(t)
	seedBook(t, db, "b1", true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := live.NewQuery(db.Hub(), func(ctx context.Context) ([]entities.Group, error) {
		return db.Queries(ctx).Books.Chapters("b1")
	}, entities.Group{}.TableName())
	ch := q.Subscribe(ctx)

	first := <-ch
	require.NoError(t, first.Err)
	assert.Empty(t, first.Value)

	err := db.Transaction(ctx, func(q *Queries) error {
		if _, err := q.Groups.Insert(&entities.Group{BookID: "b1", Text: "1", Link: "A", FirstChapter: 1}); err != nil {
			return err
		}
		_, err := q.Groups.Insert(&entities.Group{BookID: "b1", Text: "2", Link: "B", FirstChapter: 2})
		return err
	})
	require.NoError(t, err)

	select {
	case res := <-ch:
		require.NoError(t, res.Err)
		assert.Len(t, res.Value, 2)
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot after commit")
	}
}

func TestTransaction_RollbackPublishesNothing(t *testing.T) {
	db := setupTestDB(t)
	seedBook(t, db, "b1", true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := live.NewQuery(db.Hub(), func(ctx context.Context) ([]entities.Group, error) {
		return db.Queries(ctx).Books.Chapters("b1")
	}, entities.Group{}.TableName())
	ch := q.Subscribe(ctx)
	<-ch

	errBoom := errors.New("boom")
	err := db.Transaction(ctx, func(q *Queries) error {
		if _, err := q.Groups.Insert(&entities.Group{BookID: "b1", Text: "1", Link: "A", FirstChapter: 1}); err != nil {
			return err
		}
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)

	select {
	case <-ch:
		t.Fatal("rolled-back transaction must not publish")
	case <-time.After(100 * time.Millisecond):
	}

	count, err := db.Queries(ctx).Groups.Count("b1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestBooks_ListBooksSortAndSearch(t *testing.T) {
	db := setupTestDB(t)
	q := db.Queries(context.Background())

	require.NoError(t, q.Books.CreateBook(&entities.Book{ID: "1", Name: "Zeta", Author: "Ann", Rating: 4.5}, nil, nil))
	require.NoError(t, q.Books.CreateBook(&entities.Book{ID: "2", Name: "Alpha", Author: "Bob", Rating: 3.0}, nil, nil))
	require.NoError(t, q.Books.CreateBook(&entities.Book{ID: "3", Name: "Mid", Author: "Ann", Rating: 5.0}, nil, nil))

	list, err := q.Books.ListBooks(books.ListOptions{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Alpha", list[0].Name)

	list, err = q.Books.ListBooks(books.ListOptions{Sort: books.SortByRating, Descending: true})
	require.NoError(t, err)
	assert.Equal(t, "3", list[0].ID)

	list, err = q.Books.ListBooks(books.ListOptions{Query: "ann"})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestBooks_Affiliation(t *testing.T) {
	db := setupTestDB(t)
	seedBook(t, db, "ug", true)
	seedBook(t, db, "wn", false)
	q := db.Queries(context.Background())

	ug, err := q.Books.GetUndergroundByID("ug")
	require.NoError(t, err)
	assert.Equal(t, "ug-ug", ug.UndergroundID)

	_, err = q.Books.GetUndergroundByID("wn")
	assert.True(t, books.IsNotFound(err))
}

func TestBooks_SaveWebNovelUpserts(t *testing.T) {
	db := setupTestDB(t)
	seedBook(t, db, "b1", false)
	q := db.Queries(context.Background())

	require.NoError(t, q.Books.SaveWebNovel(&entities.WebNovelBook{BookID: "b1", WebNovelID: "1", Link: "https://wn/book/1"}))
	require.NoError(t, q.Books.SaveWebNovel(&entities.WebNovelBook{BookID: "b1", WebNovelID: "2", Link: "https://wn/book/2"}))

	wn, err := q.Books.GetWebNovelByID("b1")
	require.NoError(t, err)
	assert.Equal(t, "2", wn.WebNovelID)
	assert.Equal(t, "https://wn/book/2", wn.Link)
}

func TestBooks_UpdateLastReadAndCompleted(t *testing.T) {
	db := setupTestDB(t)
	seedBook(t, db, "b1", false)
	q := db.Queries(context.Background())

	require.NoError(t, q.Books.UpdateLastRead("b1", 12))
	require.NoError(t, q.Books.SetCompleted("b1", true))

	book, err := q.Books.GetByID("b1")
	require.NoError(t, err)
	assert.Equal(t, 12, book.LastRead)
	assert.True(t, book.Completed)

	assert.True(t, books.IsNotFound(q.Books.UpdateLastRead("missing", 1)))
}
