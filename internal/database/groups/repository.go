// Package groups provides database operations for chapter groups.
//
// Groups are keyed by their link. Inserts ignore rows whose link already
// exists, so replaying a remote listing only adds new groups.
package groups

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/EtsTest-AndroidApps/QReader/internal/entities"
)

// Repository handles all chapter group database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new groups repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get retrieves a group by link.
func (r *Repository) Get(link string) (*entities.Group, error) {
	var group entities.Group
	err := r.db.Where("link = ?", link).First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// Insert adds a group unless one with the same link exists. It reports
// whether a row was written.
func (r *Repository) Insert(group *entities.Group) (bool, error) {
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(group)
	return result.RowsAffected > 0, result.Error
}

// Update rewrites the text and link of the group currently stored under link.
// firstChapter is the new sort key for updatedText. It reports the number of
// rows changed; zero means no group had that link.
func (r *Repository) Update(link, updatedText, updatedLink string, firstChapter int) (int64, error) {
	result := r.db.Model(&entities.Group{}).
		Where("link = ?", link).
		Updates(map[string]any{
			"text":          updatedText,
			"link":          updatedLink,
			"first_chapter": firstChapter,
		})
	return result.RowsAffected, result.Error
}

// UpdateLastRead sets the last-read marker of the group with the given link.
func (r *Repository) UpdateLastRead(lastRead int, link string) (int64, error) {
	result := r.db.Model(&entities.Group{}).
		Where("link = ?", link).
		Update("last_read", lastRead)
	return result.RowsAffected, result.Error
}

// Count returns the number of groups of a book.
func (r *Repository) Count(bookID string) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Group{}).Where("book_id = ?", bookID).Count(&count).Error
	return count, err
}
