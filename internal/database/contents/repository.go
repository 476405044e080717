// Package contents provides database operations for downloaded chapters.
package contents

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/EtsTest-AndroidApps/QReader/internal/entities"
)

// Repository handles all content database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new contents repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Insert stores a downloaded chapter. The referenced group must exist.
func (r *Repository) Insert(content *entities.Content) error {
	return r.db.Omit(clause.Associations).Create(content).Error
}

// CountByGroupLink returns the number of downloaded chapters of a group.
func (r *Repository) CountByGroupLink(link string) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Content{}).Where("group_link = ?", link).Count(&count).Error
	return count, err
}

// DeleteByGroupLink removes every downloaded chapter of a group.
func (r *Repository) DeleteByGroupLink(link string) (int64, error) {
	result := r.db.Where("group_link = ?", link).Delete(&entities.Content{})
	return result.RowsAffected, result.Error
}
