package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/EtsTest-AndroidApps/QReader/internal/database/sync"
	"github.com/EtsTest-AndroidApps/QReader/internal/groups"
	"github.com/EtsTest-AndroidApps/QReader/internal/http"
	"github.com/EtsTest-AndroidApps/QReader/internal/library"
	"github.com/EtsTest-AndroidApps/QReader/internal/metadata"
	"github.com/EtsTest-AndroidApps/QReader/internal/scheduler"
	"github.com/EtsTest-AndroidApps/QReader/internal/settingsstore"
	"github.com/EtsTest-AndroidApps/QReader/internal/sources"
	"github.com/EtsTest-AndroidApps/QReader/internal/sources/underground"
	"github.com/EtsTest-AndroidApps/QReader/internal/sources/webnovel"
	"github.com/EtsTest-AndroidApps/QReader/internal/tasks"
)

// =============================================================================
// Remote Providers
// =============================================================================

var _ sources.Source = (*underground.Client)(nil)
var _ sources.Source = (*webnovel.Client)(nil)

var _ metadata.SearchProvider = (*metadata.WebNovelSearch)(nil)
var _ groups.MetadataResolver = (*metadata.Lookup)(nil)

// =============================================================================
// Group Engine
// =============================================================================

var _ groups.Preferences = (*settingsstore.SettingsStore)(nil)
var _ library.GroupRefresher = (*groups.Repository)(nil)
var _ http.GroupSyncer = (*groups.Repository)(nil)
var _ http.GroupReader = (*groups.Repository)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ library.ProgressReporter = (*sync.Repository)(nil)
var _ http.ProgressReader = (*sync.Repository)(nil)
var _ tasks.LibraryIndexer = (*library.Indexer)(nil)
var _ scheduler.Indexer = (*library.Indexer)(nil)
var _ scheduler.Settings = (*settingsstore.SettingsStore)(nil)
var _ http.TaskEnqueuer = (*tasks.Client)(nil)
var _ http.IndexScheduler = (*scheduler.IndexSyncScheduler)(nil)
var _ http.PreferenceStore = (*settingsstore.SettingsStore)(nil)
