package http

import (
	"github.com/EtsTest-AndroidApps/QReader/internal/database"
)

// RouterConfig contains the dependencies of NewRouter. Optional features are
// left out of the router when their dependency is nil.
type RouterConfig struct {
	Database *database.Database
	Version  string

	Groups interface {
		GroupSyncer
		GroupReader
	}

	// Optional
	Settings  PreferenceStore
	Scheduler IndexScheduler
	Tasks     TaskEnqueuer
}
