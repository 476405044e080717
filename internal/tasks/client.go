package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"
)

// Client wraps backlite to run book refreshes and library index runs in the
// background.
type Client struct {
	backlite *backlite.Client
	db       *sql.DB
	workers  int

	mu      sync.Mutex
	started bool
}

// TasksDBPath returns the path of the queue database kept next to the main
// database: "./qreader.db" becomes "./qreader-tasks.db".
func TasksDBPath(mainDBPath string) string {
	ext := filepath.Ext(mainDBPath)
	return strings.TrimSuffix(mainDBPath, ext) + "-tasks" + ext
}

// NewClient opens the queue database and installs the backlite schema.
func NewClient(mainDBPath string, cfg Config) (*Client, error) {
	db, err := sql.Open("sqlite3", TasksDBPath(mainDBPath)+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open tasks database: %w", err)
	}
	db.SetMaxOpenConns(cfg.Workers + 5)
	db.SetMaxIdleConns(cfg.Workers + 2)
	db.SetConnMaxLifetime(time.Hour)

	client, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          &stdLogger{},
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create backlite client: %w", err)
	}
	if err := client.Install(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to install backlite schema: %w", err)
	}

	return &Client{backlite: client, db: db, workers: cfg.Workers}, nil
}

// Register registers task queues. Must be called before Start.
func (c *Client) Register(queues ...backlite.Queue) {
	for _, q := range queues {
		c.backlite.Register(q)
	}
}

// RegisterLibraryQueues registers the refresh and index queues.
func (c *Client) RegisterLibraryQueues(refresher BookRefresher, indexer LibraryIndexer) {
	c.Register(NewRefreshBookQueue(refresher), NewIndexLibraryQueue(indexer))
}

// Start begins processing tasks until ctx is cancelled or Stop is called.
func (c *Client) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return
	}
	c.started = true

	log.Printf("Task queue started with %d workers", c.workers)
	c.backlite.Start(ctx)
}

// Stop waits for running tasks until ctx expires. It reports whether every
// worker finished in time.
func (c *Client) Stop(ctx context.Context) bool {
	c.mu.Lock()
	started := c.started
	c.mu.Unlock()
	if !started {
		return true
	}

	log.Println("Stopping task queue...")
	if !c.backlite.Stop(ctx) {
		log.Println("Task queue stopped with timeout (some tasks may not have completed)")
		return false
	}
	log.Println("Task queue stopped gracefully")
	return true
}

// Close releases the queue database. Call after Stop.
func (c *Client) Close() error {
	return c.db.Close()
}

// Add starts an operation to enqueue one or more tasks.
func (c *Client) Add(tasks ...backlite.Task) *backlite.TaskAddOp {
	return c.backlite.Add(tasks...)
}

// Enqueue saves a single task and returns its ID.
func (c *Client) Enqueue(task backlite.Task) (string, error) {
	ids, err := c.backlite.Add(task).Save()
	if err != nil {
		return "", fmt.Errorf("enqueue %s: %w", task.Config().Name, err)
	}
	return ids[0], nil
}

// Status returns the status of a task by ID.
func (c *Client) Status(ctx context.Context, taskID string) (backlite.TaskStatus, error) {
	return c.backlite.Status(ctx, taskID)
}

// stdLogger implements backlite.Logger using standard library log.
type stdLogger struct{}

func (l *stdLogger) Info(message string, params ...any) {
	log.Printf("[TASK] "+message, params...)
}

func (l *stdLogger) Error(message string, params ...any) {
	log.Printf("[TASK ERROR] "+message, params...)
}
