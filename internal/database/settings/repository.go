// Package settings provides database operations for application settings.
//
// # Usage
//
//	repo := settings.NewRepository(db)
//	enabled, ok, err := repo.GetBool(entities.SettingKeyCheckForWebNovel)
package settings

import (
	"errors"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/EtsTest-AndroidApps/QReader/internal/entities"
)

// Repository handles all settings database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new settings repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetSetting retrieves a setting by key.
func (r *Repository) GetSetting(key string) (*entities.Setting, error) {
	var setting entities.Setting
	err := r.db.Where("key = ?", key).First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// SetSetting creates or updates a setting.
func (r *Repository) SetSetting(key, value string) error {
	setting := entities.Setting{Key: key, Value: value}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
}

// GetBool reads a boolean setting. ok is false when the key is unset or empty.
func (r *Repository) GetBool(key string) (value bool, ok bool, err error) {
	setting, err := r.GetSetting(key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	if setting.Value == "" {
		return false, false, nil
	}
	return setting.Value == "true" || setting.Value == "1", true, nil
}

// SetBool stores a boolean setting.
func (r *Repository) SetBool(key string, value bool) error {
	return r.SetSetting(key, strconv.FormatBool(value))
}

// DeleteSetting removes a setting by key.
func (r *Repository) DeleteSetting(key string) error {
	return r.db.Where("key = ?", key).Delete(&entities.Setting{}).Error
}
