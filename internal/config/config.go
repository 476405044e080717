package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Sources
		Library
		IndexSync
		Tasks
	}

	HTTP struct {
		Port int32
		Host string
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Sources struct {
		UndergroundBaseURL string
		WebNovelBaseURL    string
		Timeout            time.Duration
		RetryCount         int
		RetryWait          time.Duration
	}
	Library struct {
		CheckForWebNovel bool // Always fetch web-novel chapters for underground books
	}
	IndexSync struct {
		Enabled  bool
		Schedule string // Cron format: "0 */6 * * *" = every 6 hours
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		MaxRetries        int
		RetryDelay        time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Remote providers
	v.SetDefault("underground_base_url", DefaultUndergroundBaseURL)
	v.SetDefault("webnovel_base_url", DefaultWebNovelBaseURL)
	v.SetDefault("source_timeout", "30s")
	v.SetDefault("source_retry_count", 3)
	v.SetDefault("source_retry_wait", "2s")

	v.SetDefault("library_check_for_webnovel", false)
	v.SetDefault("index_sync_enabled", false)
	v.SetDefault("index_sync_schedule", "0 */6 * * *")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_max_retries", 3)
	v.SetDefault("task_retry_delay", "1m")
	v.SetDefault("task_timeout", "5m")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Sources: Sources{
			UndergroundBaseURL: v.GetString("UNDERGROUND_BASE_URL"),
			WebNovelBaseURL:    v.GetString("WEBNOVEL_BASE_URL"),
			Timeout:            v.GetDuration("SOURCE_TIMEOUT"),
			RetryCount:         v.GetInt("SOURCE_RETRY_COUNT"),
			RetryWait:          v.GetDuration("SOURCE_RETRY_WAIT"),
		},
		Library: Library{
			CheckForWebNovel: v.GetBool("LIBRARY_CHECK_FOR_WEBNOVEL"),
		},
		IndexSync: IndexSync{
			Enabled:  v.GetBool("INDEX_SYNC_ENABLED"),
			Schedule: v.GetString("INDEX_SYNC_SCHEDULE"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			MaxRetries:        v.GetInt("TASK_MAX_RETRIES"),
			RetryDelay:        v.GetDuration("TASK_RETRY_DELAY"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
	}
}
