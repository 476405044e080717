package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthController_Status(t *testing.T) {
	env := newTestEnv(t)

	w := doRequest(t, env.router, http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, "test", resp["version"])
	assert.Equal(t, "ok", resp["checks"].(map[string]any)["database"])
}

func TestHealthController_NoDatabase(t *testing.T) {
	controller := NewHealthController(nil, "")
	env := newTestEnv(t)
	env.router.GET("/health-nodb", controller.Status)

	w := doRequest(t, env.router, http.MethodGet, "/health-nodb", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "not configured", decode(t, w)["checks"].(map[string]any)["database"])
}

func TestPing(t *testing.T) {
	env := newTestEnv(t)

	w := doRequest(t, env.router, http.MethodGet, "/ping", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", decode(t, w)["message"])
}
