package settingsstore

import (
	"os"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/EtsTest-AndroidApps/QReader/internal/config"
	"github.com/EtsTest-AndroidApps/QReader/internal/entities"
)

const defaultIndexSchedule = "0 */6 * * *"

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// IndexSyncConfig is the effective configuration of the periodic library index.
type IndexSyncConfig struct {
	Enabled  bool   `json:"enabled"`
	Schedule string `json:"schedule"`
}

// IndexSyncStatus is the outcome of the last index run.
type IndexSyncStatus struct {
	LastSyncAt *time.Time `json:"last_sync_at,omitempty"`
	Status     string     `json:"status,omitempty"`  // "success", "failed", ""
	Message    string     `json:"message,omitempty"` // Error message or stats summary
}

// GetIndexSyncEnabled returns whether the periodic index is enabled (database > env > default)
func (s *SettingsStore) GetIndexSyncEnabled() bool {
	if value, ok, err := s.repo().GetBool(entities.SettingKeyIndexSyncEnabled); err == nil && ok {
		return value
	}
	if envVal := os.Getenv("INDEX_SYNC_ENABLED"); envVal != "" {
		return envVal == "true" || envVal == "1"
	}
	return false
}

func (s *SettingsStore) SetIndexSyncEnabled(enabled bool) error {
	return s.repo().SetBool(entities.SettingKeyIndexSyncEnabled, enabled)
}

// GetIndexSyncSchedule returns the cron schedule (database > env > default)
func (s *SettingsStore) GetIndexSyncSchedule() string {
	setting, err := s.repo().GetSetting(entities.SettingKeyIndexSyncSchedule)
	if err == nil && setting.Value != "" {
		return setting.Value
	}
	if envVal := os.Getenv("INDEX_SYNC_SCHEDULE"); envVal != "" {
		return envVal
	}
	return defaultIndexSchedule
}

// SetIndexSyncSchedule validates and stores the schedule.
func (s *SettingsStore) SetIndexSyncSchedule(schedule string) error {
	if err := ValidateCronSchedule(schedule); err != nil {
		return err
	}
	return s.repo().SetSetting(entities.SettingKeyIndexSyncSchedule, schedule)
}

func (s *SettingsStore) GetIndexSyncConfig() IndexSyncConfig {
	return IndexSyncConfig{
		Enabled:  s.GetIndexSyncEnabled(),
		Schedule: s.GetIndexSyncSchedule(),
	}
}

func (s *SettingsStore) GetIndexSyncStatus() IndexSyncStatus {
	status := IndexSyncStatus{}
	repo := s.repo()

	if setting, err := repo.GetSetting(entities.SettingKeyIndexSyncLastAt); err == nil && setting.Value != "" {
		if ts, err := time.Parse(time.RFC3339, setting.Value); err == nil {
			status.LastSyncAt = &ts
		}
	}
	if setting, err := repo.GetSetting(entities.SettingKeyIndexSyncLastStatus); err == nil {
		status.Status = setting.Value
	}
	if setting, err := repo.GetSetting(entities.SettingKeyIndexSyncLastMessage); err == nil {
		status.Message = setting.Value
	}
	return status
}

// SetIndexSyncStatus records the outcome of a run.
func (s *SettingsStore) SetIndexSyncStatus(status, message string) error {
	repo := s.repo()
	now := time.Now().UTC().Format(time.RFC3339)

	if err := repo.SetSetting(entities.SettingKeyIndexSyncLastAt, now); err != nil {
		return err
	}
	if err := repo.SetSetting(entities.SettingKeyIndexSyncLastStatus, status); err != nil {
		return err
	}
	return repo.SetSetting(entities.SettingKeyIndexSyncLastMessage, message)
}

// ValidateCronSchedule validates a five-field cron schedule string
func ValidateCronSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// GetNextRunTime calculates when the next run is due
func GetNextRunTime(schedule string) (*time.Time, error) {
	sched, err := cronParser.Parse(schedule)
	if err != nil {
		return nil, err
	}
	next := sched.Next(time.Now())
	return &next, nil
}

// NewIndexSyncConfigFromEnv builds the configuration before the database is ready.
func NewIndexSyncConfigFromEnv(cfg config.IndexSync) IndexSyncConfig {
	schedule := cfg.Schedule
	if schedule == "" {
		schedule = defaultIndexSchedule
	}
	return IndexSyncConfig{Enabled: cfg.Enabled, Schedule: schedule}
}
