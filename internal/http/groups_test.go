package http

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EtsTest-AndroidApps/QReader/internal/entities"
)

const testLink = "https://ug.example/lotm/1"

func groupsPath(path string) string {
	return path + "?link=" + url.QueryEscape(testLink)
}

func TestGroupsController_Lookups(t *testing.T) {
	env := newTestEnv(t)
	env.undergroundBook(t, "lotm", "Lord of Mysteries")
	env.storeGroup(t, "lotm", "1 - 5", testLink)
	env.storeGroup(t, "lotm", "6 - 10", "https://ug.example/lotm/6")

	t.Run("group by link", func(t *testing.T) {
		w := doRequest(t, env.router, http.MethodGet, groupsPath("/api/groups"), "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "1 - 5", decode(t, w)["text"])
	})

	t.Run("book of group", func(t *testing.T) {
		w := doRequest(t, env.router, http.MethodGet, groupsPath("/api/groups/book"), "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "lotm", decode(t, w)["id"])
	})

	t.Run("siblings in reading order", func(t *testing.T) {
		w := doRequest(t, env.router, http.MethodGet, groupsPath("/api/groups/siblings"), "")
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode(t, w)
		assert.Equal(t, float64(2), resp["count"])
		list := resp["groups"].([]any)
		assert.Equal(t, "6 - 10", list[1].(map[string]any)["text"])
	})

	t.Run("downloaded", func(t *testing.T) {
		w := doRequest(t, env.router, http.MethodGet, groupsPath("/api/groups/downloaded"), "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, false, decode(t, w)["downloaded"])

		contents := env.db.Queries(context.Background()).Contents
		for i := 1; i <= 5; i++ {
			require.NoError(t, contents.Insert(&entities.Content{GroupLink: testLink, Title: "chapter"}))
		}

		w = doRequest(t, env.router, http.MethodGet, groupsPath("/api/groups/downloaded"), "")
		assert.Equal(t, true, decode(t, w)["downloaded"])
	})

	t.Run("missing link parameter", func(t *testing.T) {
		w := doRequest(t, env.router, http.MethodGet, "/api/groups", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown link", func(t *testing.T) {
		w := doRequest(t, env.router, http.MethodGet, "/api/groups?link=nope", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGroupsController_UpdateLastRead(t *testing.T) {
	env := newTestEnv(t)
	env.undergroundBook(t, "lotm", "Lord of Mysteries")
	env.storeGroup(t, "lotm", "1 - 5", testLink)

	w := doRequest(t, env.router, http.MethodPut, "/api/groups/last-read", `{"link": "`+testLink+`", "last_read": 3}`)
	require.Equal(t, http.StatusOK, w.Code)

	group, err := env.db.Queries(context.Background()).Groups.Get(testLink)
	require.NoError(t, err)
	assert.Equal(t, 3, group.LastRead)

	t.Run("stale group", func(t *testing.T) {
		w := doRequest(t, env.router, http.MethodPut, "/api/groups/last-read", `{"link": "https://ug.example/gone", "last_read": 3}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, CodeStaleGroup, decode(t, w)["code"])
	})

	t.Run("zero is a valid position", func(t *testing.T) {
		w := doRequest(t, env.router, http.MethodPut, "/api/groups/last-read", `{"link": "`+testLink+`", "last_read": 0}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		w := doRequest(t, env.router, http.MethodPut, "/api/groups/last-read", `{"link": "`+testLink+`"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
