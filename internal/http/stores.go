package http

import (
	"context"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/EtsTest-AndroidApps/QReader/internal/entities"
	"github.com/EtsTest-AndroidApps/QReader/internal/live"
	"github.com/EtsTest-AndroidApps/QReader/internal/settingsstore"
)

// Each controller declares the narrow interface it needs. The production
// implementations are wired in entrypoint.

// GroupSyncer runs the chapter group engine for a book.
type GroupSyncer interface {
	GetGroups(ctx context.Context, book *entities.Book, refresh bool) (*live.Query[[]entities.Group], error)
}

// GroupReader is the read side of the group facade.
type GroupReader interface {
	GetGroupByLink(link string) *live.Query[*entities.Group]
	GetBook(group *entities.Group) *live.Query[*entities.Book]
	GetChaptersByBook(group *entities.Group) *live.Query[[]entities.Group]
	IsDownloaded(ctx context.Context, group *entities.Group) (bool, error)
	UpdateLastRead(ctx context.Context, group *entities.Group, lastRead int) error
}

// TaskEnqueuer submits background work and reports on it.
type TaskEnqueuer interface {
	Enqueue(task backlite.Task) (string, error)
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// PreferenceStore reads and writes the library preferences.
type PreferenceStore interface {
	GetCheckForWebNovelInfo() settingsstore.CheckForWebNovelInfo
	SetCheckForWebNovel(enabled bool) error
	ClearCheckForWebNovel() error
	GetIndexSyncConfig() settingsstore.IndexSyncConfig
	GetIndexSyncStatus() settingsstore.IndexSyncStatus
	SetIndexSyncEnabled(enabled bool) error
	SetIndexSyncSchedule(schedule string) error
}

// IndexScheduler controls the periodic library index.
type IndexScheduler interface {
	Reschedule() error
	RunNow()
	IsRunning() bool
	IsSyncing() bool
	GetNextRunTime() *time.Time
}
