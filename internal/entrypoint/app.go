package entrypoint

import (
	"fmt"
	"log"
	"time"

	"github.com/EtsTest-AndroidApps/QReader/internal/config"
	"github.com/EtsTest-AndroidApps/QReader/internal/database"
	"github.com/EtsTest-AndroidApps/QReader/internal/groups"
	"github.com/EtsTest-AndroidApps/QReader/internal/library"
	"github.com/EtsTest-AndroidApps/QReader/internal/metadata"
	"github.com/EtsTest-AndroidApps/QReader/internal/settingsstore"
	"github.com/EtsTest-AndroidApps/QReader/internal/sources"
	"github.com/EtsTest-AndroidApps/QReader/internal/sources/underground"
	"github.com/EtsTest-AndroidApps/QReader/internal/sources/webnovel"
)

// searchInterval spaces web-novel search requests.
const searchInterval = time.Second

// App holds the components shared by the server and the CLI commands.
type App struct {
	Config   *config.Config
	DB       *database.Database
	Settings *settingsstore.SettingsStore
	Groups   *groups.Repository
	Indexer  *library.Indexer
}

// NewApp opens the database and wires the providers and the group engine.
func NewApp(cfg *config.Config) (*App, error) {
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	undergroundClient := underground.NewClient(sourceConfig(cfg.Sources, cfg.Sources.UndergroundBaseURL))
	webNovelClient := webnovel.NewClient(sourceConfig(cfg.Sources, cfg.Sources.WebNovelBaseURL))

	search, err := metadata.NewWebNovelSearch(sourceConfig(cfg.Sources, cfg.Sources.WebNovelBaseURL), searchInterval)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create web-novel search: %w", err)
	}

	settings := settingsstore.New(db)
	repo := groups.NewRepository(db, groups.Dependencies{
		Underground: undergroundClient,
		WebNovel:    webNovelClient,
		Metadata:    metadata.NewLookup(db, search),
		Preferences: settings,
	})

	indexer := library.NewIndexer(db, repo)
	indexer.SetProgressReporter(db.IndexProgress())

	log.Printf("Web-novel check for underground books: %v (source: %s)",
		settings.CheckForWebNovel(), settings.GetCheckForWebNovelSource())

	return &App{
		Config:   cfg,
		DB:       db,
		Settings: settings,
		Groups:   repo,
		Indexer:  indexer,
	}, nil
}

// Close releases the database.
func (a *App) Close() error {
	return a.DB.Close()
}

func sourceConfig(cfg config.Sources, baseURL string) sources.ClientConfig {
	return sources.ClientConfig{
		BaseURL:    baseURL,
		Timeout:    cfg.Timeout,
		RetryCount: cfg.RetryCount,
		RetryWait:  cfg.RetryWait,
	}
}
