package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EtsTest-AndroidApps/QReader/internal/database"
	"github.com/EtsTest-AndroidApps/QReader/internal/database/books"
	"github.com/EtsTest-AndroidApps/QReader/internal/entities"
)

// BooksController serves the library listing and per-book chapter groups.
type BooksController struct {
	db     *database.Database
	groups GroupSyncer
}

func NewBooksController(db *database.Database, groups GroupSyncer) *BooksController {
	return &BooksController{db: db, groups: groups}
}

// ListBooks handles GET /api/books?sort=&desc=&q=
func (bc *BooksController) ListBooks(c *gin.Context) {
	list, err := bc.db.Queries(c.Request.Context()).Books.ListBooks(books.ListOptions{
		Sort:       books.ParseSortField(c.Query("sort")),
		Descending: parseBoolQuery(c, "desc"),
		Query:      c.Query("q"),
	})
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"books": list, "count": len(list)})
}

// GetBook handles GET /api/books/:id
func (bc *BooksController) GetBook(c *gin.Context) {
	book, ok := bc.loadBook(c)
	if !ok {
		return
	}
	c.IndentedJSON(http.StatusOK, book)
}

// GetGroups handles GET /api/books/:id/groups?refresh=
// It runs the engine and returns the first snapshot of the book's groups.
func (bc *BooksController) GetGroups(c *gin.Context) {
	book, ok := bc.loadBook(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	view, err := bc.groups.GetGroups(ctx, book, parseBoolQuery(c, "refresh"))
	if err != nil {
		respondClassified(c, err, "get groups")
		return
	}

	list, err := view.Get(ctx)
	if err != nil {
		respondClassified(c, err, "read groups")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"book_id": book.ID, "groups": list, "count": len(list)})
}

// StreamGroups handles GET /api/books/:id/groups/stream
// It sends a "groups" server-sent event for every snapshot of the live view
// until the client disconnects.
func (bc *BooksController) StreamGroups(c *gin.Context) {
	book, ok := bc.loadBook(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	view, err := bc.groups.GetGroups(ctx, book, parseBoolQuery(c, "refresh"))
	if err != nil {
		respondClassified(c, err, "stream groups")
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("Content-Type", "text/event-stream")

	for res := range view.Subscribe(ctx) {
		if res.Err != nil {
			c.SSEvent("error", gin.H{"error": res.Err.Error()})
		} else {
			c.SSEvent("groups", res.Value)
		}
		c.Writer.Flush()
	}
}

type updateBookLastReadRequest struct {
	LastRead *int `json:"last_read" binding:"required"`
}

// UpdateLastRead handles PUT /api/books/:id/last-read
func (bc *BooksController) UpdateLastRead(c *gin.Context) {
	var req updateBookLastReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "last_read is required")
		return
	}

	id := c.Param("id")
	if err := bc.db.Queries(c.Request.Context()).Books.UpdateLastRead(id, *req.LastRead); err != nil {
		respondClassified(c, err, "update book last read")
		return
	}
	respondSuccess(c, "last read updated", gin.H{"id": id, "last_read": *req.LastRead})
}

type setCompletedRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

// SetCompleted handles PUT /api/books/:id/completed
func (bc *BooksController) SetCompleted(c *gin.Context) {
	var req setCompletedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "completed is required")
		return
	}

	id := c.Param("id")
	if err := bc.db.Queries(c.Request.Context()).Books.SetCompleted(id, *req.Completed); err != nil {
		respondClassified(c, err, "set book completed")
		return
	}
	respondSuccess(c, "book updated", gin.H{"id": id, "completed": *req.Completed})
}

func (bc *BooksController) loadBook(c *gin.Context) (*entities.Book, bool) {
	book, err := bc.db.Queries(c.Request.Context()).Books.GetByID(c.Param("id"))
	if books.IsNotFound(err) {
		respondNotFound(c, "book")
		return nil, false
	}
	if err != nil {
		respondInternalError(c, err, "get book")
		return nil, false
	}
	return book, true
}
