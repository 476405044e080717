package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EtsTest-AndroidApps/QReader/internal/database"
	"github.com/EtsTest-AndroidApps/QReader/internal/entities"
)

// setupEnv points the configuration at a temporary database holding one
// underground book and at a fake provider listing two groups.
func setupEnv(t *testing.T) string {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/pages/public/ug-1/chapters" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"Text": "1 - 5", "Href": "https://ug.example/1"}, {"Text": "6 - 10", "Href": "https://ug.example/6"}]`))
	}))
	t.Cleanup(server.Close)

	dbPath := filepath.Join(t.TempDir(), "qreader.db")
	t.Setenv("DATABASE_PATH", dbPath)
	t.Setenv("UNDERGROUND_BASE_URL", server.URL)
	t.Setenv("WEBNOVEL_BASE_URL", server.URL)
	t.Setenv("SOURCE_RETRY_COUNT", "0")
	t.Setenv("LIBRARY_CHECK_FOR_WEBNOVEL", "false")

	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)
	require.NoError(t, db.Queries(context.Background()).Books.CreateBook(
		&entities.Book{ID: "lotm", Name: "Lord of Mysteries", Author: "Cuttlefish"},
		&entities.UndergroundBook{UndergroundID: "ug-1"},
		nil,
	))
	require.NoError(t, db.Close())
	return dbPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand("test")
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "version: test")
}

func TestBooksCommand(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "books", "--query", "cuttle")
	require.NoError(t, err)
	assert.Contains(t, out, "Lord of Mysteries")

	out, err = run(t, "books", "--query", "nobody")
	require.NoError(t, err)
	assert.NotContains(t, out, "Lord of Mysteries")
}

func TestGroupsAndLastReadCommands(t *testing.T) {
	dbPath := setupEnv(t)

	out, err := run(t, "groups", "lotm")
	require.NoError(t, err)
	assert.Contains(t, out, "1 - 5")
	assert.Contains(t, out, "https://ug.example/6")

	out, err = run(t, "last-read", "https://ug.example/1", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated https://ug.example/1 to 4")

	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()
	group, err := db.Queries(context.Background()).Groups.Get("https://ug.example/1")
	require.NoError(t, err)
	assert.Equal(t, 4, group.LastRead)
}

func TestGroupsCommand_UnknownBook(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "groups", "missing")
	assert.ErrorContains(t, err, "book missing not found")
}

func TestLastReadCommand_Errors(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "last-read", "https://ug.example/1", "four")
	assert.ErrorContains(t, err, "invalid last-read value")

	_, err = run(t, "last-read", "https://ug.example/gone", "1")
	assert.ErrorContains(t, err, "group does not exist")
}

func TestIndexCommand(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "index")
	require.NoError(t, err)
	assert.Contains(t, out, "Indexed 1 books: 1 refreshed, 0 skipped, 0 failed")
}

func TestDatabaseFlagOverridesEnvironment(t *testing.T) {
	setupEnv(t)
	other := filepath.Join(t.TempDir(), "other.db")

	out, err := run(t, "--database", other, "books")
	require.NoError(t, err)
	assert.NotContains(t, out, "Lord of Mysteries")
}
