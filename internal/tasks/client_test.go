package tasks

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EtsTest-AndroidApps/QReader/internal/config"
)

func TestNewClient(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(dbPath, cfg)
	require.NoError(t, err)
	require.NotNil(t, client)

	// Verify tasks database was created
	tasksDBPath := filepath.Join(tmpDir, "test-tasks.db")
	_, err = os.Stat(tasksDBPath)
	assert.NoError(t, err, "tasks database should be created")

	err = client.Close()
	assert.NoError(t, err)
}

func TestClientStartStop(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(dbPath, cfg)
	require.NoError(t, err)
	defer client.Close()

	// Start client in background
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go client.Start(ctx)

	// Give it time to start
	time.Sleep(50 * time.Millisecond)

	// Stop should complete successfully
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()

	success := client.Stop(stopCtx)
	assert.True(t, success, "stop should succeed gracefully")
}

// TestTask is a simple task for testing
type TestTask struct {
	Value string `json:"value"`
}

func (t TestTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "test_task",
		MaxAttempts: 1,
		Backoff:     time.Second,
		Timeout:     5 * time.Second,
	}
}

func TestTaskEnqueue(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(dbPath, cfg)
	require.NoError(t, err)
	defer client.Close()

	// Create and register a test queue
	executed := make(chan string, 1)
	queue := backlite.NewQueue(func(ctx context.Context, task TestTask) error {
		executed <- task.Value
		return nil
	})
	client.Register(queue)

	// Start client
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	// Enqueue a task
	ids, err := client.Add(TestTask{Value: "hello"}).Save()
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	// Wait for task to be executed
	select {
	case val := <-executed:
		assert.Equal(t, "hello", val)
	case <-time.After(5 * time.Second):
		t.Fatal("task was not executed within timeout")
	}
}

func TestEnqueue(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(dbPath, cfg)
	require.NoError(t, err)
	defer client.Close()

	client.Register(backlite.NewQueue(func(ctx context.Context, task TestTask) error {
		return nil
	}))

	id, err := client.Enqueue(TestTask{Value: "queued"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

func TestTasksDBPath(t *testing.T) {
	assert.Equal(t, "./qreader-tasks.db", TasksDBPath("./qreader.db"))
	assert.Equal(t, "/data/library-tasks", TasksDBPath("/data/library"))
}

func TestRefreshBookTaskConfig(t *testing.T) {
	task := RefreshBookTask{BookID: "book-1"}
	cfg := task.Config()

	assert.Equal(t, "refresh_book", cfg.Name)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 30*time.Second, cfg.Backoff)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
	assert.NotNil(t, cfg.Retention)
}

func TestIndexLibraryTaskConfig(t *testing.T) {
	cfg := IndexLibraryTask{}.Config()

	assert.Equal(t, "index_library", cfg.Name)
	assert.Equal(t, 1, cfg.MaxAttempts)
	assert.Equal(t, 60*time.Minute, cfg.Timeout)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, time.Minute, cfg.RetryDelay)
	assert.Equal(t, 5*time.Minute, cfg.TaskTimeout)
	assert.Equal(t, 15*time.Minute, cfg.ReleaseAfter)
	assert.Equal(t, time.Hour, cfg.CleanupInterval)
	assert.Equal(t, 24*time.Hour, cfg.RetentionDuration)
}

func TestConfigFromEnv(t *testing.T) {
	cfg := ConfigFromEnv(config.Tasks{Workers: 4, TaskTimeout: time.Minute})

	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, time.Minute, cfg.TaskTimeout)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 24*time.Hour, cfg.RetentionDuration)
}
