package settingsstore

import (
	"context"
	"errors"
	"os"

	"gorm.io/gorm"

	"github.com/EtsTest-AndroidApps/QReader/internal/database"
	"github.com/EtsTest-AndroidApps/QReader/internal/database/settings"
	"github.com/EtsTest-AndroidApps/QReader/internal/entities"
)

const (
	SourceDatabase    = "database"
	SourceEnvironment = "environment"
	SourceDefault     = "default"
)

// Priority: database > environment > default
type SettingsStore struct {
	db *database.Database
}

func New(db *database.Database) *SettingsStore {
	return &SettingsStore{db: db}
}

func (s *SettingsStore) repo() *settings.Repository {
	return s.db.Queries(context.Background()).Settings
}

// CheckForWebNovel reports whether underground books should always be
// checked against the web-novel provider too.
func (s *SettingsStore) CheckForWebNovel() bool {
	if value, ok, err := s.repo().GetBool(entities.SettingKeyCheckForWebNovel); err == nil && ok {
		return value
	}

	if envVal := os.Getenv("LIBRARY_CHECK_FOR_WEBNOVEL"); envVal != "" {
		return envVal == "true" || envVal == "1"
	}

	return false
}

func (s *SettingsStore) SetCheckForWebNovel(enabled bool) error {
	return s.repo().SetBool(entities.SettingKeyCheckForWebNovel, enabled)
}

func (s *SettingsStore) GetCheckForWebNovelSource() string {
	if _, ok, err := s.repo().GetBool(entities.SettingKeyCheckForWebNovel); err == nil && ok {
		return SourceDatabase
	}
	if envVal := os.Getenv("LIBRARY_CHECK_FOR_WEBNOVEL"); envVal != "" {
		return SourceEnvironment
	}
	return SourceDefault
}

type CheckForWebNovelInfo struct {
	Enabled bool   `json:"enabled"`
	Source  string `json:"source"` // "database", "environment", or "default"
}

func (s *SettingsStore) GetCheckForWebNovelInfo() CheckForWebNovelInfo {
	return CheckForWebNovelInfo{
		Enabled: s.CheckForWebNovel(),
		Source:  s.GetCheckForWebNovelSource(),
	}
}

func (s *SettingsStore) ClearCheckForWebNovel() error {
	err := s.repo().DeleteSetting(entities.SettingKeyCheckForWebNovel)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
