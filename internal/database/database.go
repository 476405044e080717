package database

import (
	"context"
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/EtsTest-AndroidApps/QReader/internal/database/books"
	"github.com/EtsTest-AndroidApps/QReader/internal/database/contents"
	"github.com/EtsTest-AndroidApps/QReader/internal/database/groups"
	"github.com/EtsTest-AndroidApps/QReader/internal/database/settings"
	"github.com/EtsTest-AndroidApps/QReader/internal/database/sync"
	"github.com/EtsTest-AndroidApps/QReader/internal/entities"
	"github.com/EtsTest-AndroidApps/QReader/internal/live"
)

// sqliteParams enables foreign keys (contents -> chapter_groups) and lets
// live-view readers run alongside the merge transaction.
const sqliteParams = "?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"

type Database struct {
	DB  *gorm.DB
	hub *live.Hub
}

// Options tunes NewDatabaseWithOptions.
type Options struct {
	LogLevel logger.LogLevel
}

func NewDatabase(dbPath string) (*Database, error) {
	return NewDatabaseWithOptions(dbPath, Options{LogLevel: logger.Warn})
}

func NewDatabaseWithOptions(dbPath string, opts Options) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath+sqliteParams), &gorm.Config{
		Logger: logger.Default.LogMode(opts.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.Book{},
		&entities.UndergroundBook{},
		&entities.WebNovelBook{},
		&entities.Group{},
		&entities.Content{},
		&entities.Setting{},
		&entities.IndexProgress{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{DB: db, hub: live.NewHub()}
	if err := database.registerCallbacks(); err != nil {
		return nil, fmt.Errorf("failed to register callbacks: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return database, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Hub returns the notification hub live views subscribe to.
func (d *Database) Hub() *live.Hub {
	return d.hub
}

// Queries bundles the per-table repositories bound to one connection or
// transaction.
type Queries struct {
	Books    *books.Repository
	Groups   *groups.Repository
	Contents *contents.Repository
	Settings *settings.Repository
}

func newQueries(db *gorm.DB) *Queries {
	return &Queries{
		Books:    books.NewRepository(db),
		Groups:   groups.NewRepository(db),
		Contents: contents.NewRepository(db),
		Settings: settings.NewRepository(db),
	}
}

// Queries returns repositories bound to ctx. Writes through them are
// published to live views immediately.
func (d *Database) Queries(ctx context.Context) *Queries {
	return newQueries(d.DB.WithContext(ctx))
}

// Transaction runs fn inside a single database transaction. Live views are
// notified once, after commit, with every table fn wrote to. Nothing is
// published when fn fails and the transaction rolls back.
func (d *Database) Transaction(ctx context.Context, fn func(q *Queries) error) error {
	batch := live.NewBatch()
	err := d.DB.WithContext(live.WithBatch(ctx, batch)).Transaction(func(tx *gorm.DB) error {
		return fn(newQueries(tx))
	})
	if err != nil {
		return err
	}

	if tables := batch.Tables(); len(tables) > 0 {
		d.hub.Publish(tables...)
	}
	return nil
}

// IndexProgress returns the progress repository used by the library index.
func (d *Database) IndexProgress() *sync.Repository {
	return sync.NewRepository(d.DB)
}

func (d *Database) registerCallbacks() error {
	if err := d.DB.Callback().Create().After("gorm:create").Register("live:create", d.notify); err != nil {
		return err
	}
	if err := d.DB.Callback().Update().After("gorm:update").Register("live:update", d.notify); err != nil {
		return err
	}
	return d.DB.Callback().Delete().After("gorm:delete").Register("live:delete", d.notify)
}

// notify publishes the statement's table, or records it on the enclosing
// transaction's batch.
func (d *Database) notify(db *gorm.DB) {
	if db.Error != nil || db.RowsAffected == 0 || db.Statement.Table == "" {
		return
	}
	if batch := live.BatchFromContext(db.Statement.Context); batch != nil {
		batch.Add(db.Statement.Table)
		return
	}
	d.hub.Publish(db.Statement.Table)
}
