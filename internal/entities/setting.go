package entities

import (
	"time"
)

type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// Known setting keys
const (
	// Library preferences
	SettingKeyCheckForWebNovel = "library_check_for_webnovel"

	// Library index settings
	SettingKeyIndexSyncEnabled     = "index_sync_enabled"
	SettingKeyIndexSyncSchedule    = "index_sync_schedule"
	SettingKeyIndexSyncLastAt      = "index_sync_last_at"
	SettingKeyIndexSyncLastStatus  = "index_sync_last_status"
	SettingKeyIndexSyncLastMessage = "index_sync_last_message"
)
