// Package books provides database operations for books and their provider
// affiliations.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.GetByID("qidian-123")
//	ug, err := repo.GetUndergroundByID(book.ID) // gorm.ErrRecordNotFound: web-novel only
package books

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/EtsTest-AndroidApps/QReader/internal/entities"
)

// SortField selects the column books are listed by.
type SortField string

const (
	SortByName      SortField = "name"
	SortByAuthor    SortField = "author"
	SortByRating    SortField = "rating"
	SortByLastRead  SortField = "last_read"
	SortByCompleted SortField = "completed"
)

// ParseSortField maps a user-supplied value to a SortField, defaulting to name.
func ParseSortField(s string) SortField {
	switch SortField(s) {
	case SortByAuthor, SortByRating, SortByLastRead, SortByCompleted:
		return SortField(s)
	default:
		return SortByName
	}
}

// ListOptions controls ListBooks.
type ListOptions struct {
	Sort       SortField
	Descending bool
	Query      string
}

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByID retrieves a book by its ID.
func (r *Repository) GetByID(id string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Where("id = ?", id).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetUndergroundByID returns the underground affiliation of a book.
// gorm.ErrRecordNotFound means the book is web-novel only.
func (r *Repository) GetUndergroundByID(bookID string) (*entities.UndergroundBook, error) {
	var ug entities.UndergroundBook
	err := r.db.Where("book_id = ?", bookID).First(&ug).Error
	if err != nil {
		return nil, err
	}
	return &ug, nil
}

// GetWebNovelByID returns the web-novel identity of a book.
func (r *Repository) GetWebNovelByID(bookID string) (*entities.WebNovelBook, error) {
	var wn entities.WebNovelBook
	err := r.db.Where("book_id = ?", bookID).First(&wn).Error
	if err != nil {
		return nil, err
	}
	return &wn, nil
}

// Chapters returns the cached chapter groups of a book in reading order.
func (r *Repository) Chapters(bookID string) ([]entities.Group, error) {
	var groups []entities.Group
	err := r.db.Where("book_id = ?", bookID).
		Order("first_chapter ASC, id ASC").
		Find(&groups).Error
	return groups, err
}

// ListBooks returns the library, optionally filtered by name or author.
func (r *Repository) ListBooks(opts ListOptions) ([]entities.Book, error) {
	query := r.db.Model(&entities.Book{})
	if opts.Query != "" {
		pattern := "%" + opts.Query + "%"
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(author) LIKE LOWER(?)", pattern, pattern)
	}

	sort := opts.Sort
	if sort == "" {
		sort = SortByName
	}
	query = query.Order(clause.OrderByColumn{Column: clause.Column{Name: string(sort)}, Desc: opts.Descending}).
		Order("id ASC")

	var books []entities.Book
	err := query.Find(&books).Error
	return books, err
}

// CreateBook stores a book and its optional provider affiliations. It is the
// entry point for onboarding flows; the sync engine never creates books.
func (r *Repository) CreateBook(book *entities.Book, underground *entities.UndergroundBook, webNovel *entities.WebNovelBook) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(book).Error; err != nil {
			return fmt.Errorf("create book: %w", err)
		}
		if underground != nil {
			underground.BookID = book.ID
			if err := tx.Omit(clause.Associations).Create(underground).Error; err != nil {
				return fmt.Errorf("create underground book: %w", err)
			}
		}
		if webNovel != nil {
			webNovel.BookID = book.ID
			if err := tx.Omit(clause.Associations).Create(webNovel).Error; err != nil {
				return fmt.Errorf("create web-novel book: %w", err)
			}
		}
		return nil
	})
}

// SaveWebNovel creates or replaces the web-novel identity of a book.
func (r *Repository) SaveWebNovel(wn *entities.WebNovelBook) error {
	return r.db.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "book_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"web_novel_id", "link", "updated_at"}),
	}).Create(wn).Error
}

// UpdateLastRead sets the last-read position of a book.
func (r *Repository) UpdateLastRead(bookID string, lastRead int) error {
	return r.updateField(bookID, "last_read", lastRead)
}

// SetCompleted sets the completion flag of a book.
func (r *Repository) SetCompleted(bookID string, completed bool) error {
	return r.updateField(bookID, "completed", completed)
}

func (r *Repository) updateField(bookID, column string, value any) error {
	result := r.db.Model(&entities.Book{}).Where("id = ?", bookID).Update(column, value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IsNotFound reports whether err is a missing-row error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
