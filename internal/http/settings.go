package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/EtsTest-AndroidApps/QReader/internal/settingsstore"
)

// SettingsController manages library preferences and the index schedule.
type SettingsController struct {
	store     PreferenceStore
	scheduler IndexScheduler
}

func NewSettingsController(store PreferenceStore, scheduler IndexScheduler) *SettingsController {
	return &SettingsController{store: store, scheduler: scheduler}
}

// GetCheckForWebNovel handles GET /api/settings/check-webnovel
func (sc *SettingsController) GetCheckForWebNovel(c *gin.Context) {
	c.JSON(http.StatusOK, sc.store.GetCheckForWebNovelInfo())
}

type checkForWebNovelRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// UpdateCheckForWebNovel handles PUT /api/settings/check-webnovel
func (sc *SettingsController) UpdateCheckForWebNovel(c *gin.Context) {
	var req checkForWebNovelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "enabled is required")
		return
	}
	if err := sc.store.SetCheckForWebNovel(*req.Enabled); err != nil {
		respondInternalError(c, err, "save check-webnovel")
		return
	}
	c.JSON(http.StatusOK, sc.store.GetCheckForWebNovelInfo())
}

// ResetCheckForWebNovel handles DELETE /api/settings/check-webnovel
// The preference falls back to the environment or the default.
func (sc *SettingsController) ResetCheckForWebNovel(c *gin.Context) {
	if err := sc.store.ClearCheckForWebNovel(); err != nil {
		respondInternalError(c, err, "reset check-webnovel")
		return
	}
	c.JSON(http.StatusOK, sc.store.GetCheckForWebNovelInfo())
}

type indexSyncResponse struct {
	settingsstore.IndexSyncConfig
	LastRun   settingsstore.IndexSyncStatus `json:"last_run"`
	Scheduled bool                          `json:"scheduled"`
	Syncing   bool                          `json:"syncing"`
	NextRun   *time.Time                    `json:"next_run,omitempty"`
}

// GetIndexSync handles GET /api/settings/index-sync
func (sc *SettingsController) GetIndexSync(c *gin.Context) {
	c.JSON(http.StatusOK, sc.indexSyncState())
}

type indexSyncRequest struct {
	Enabled  *bool  `json:"enabled"`
	Schedule string `json:"schedule"`
}

// UpdateIndexSync handles PUT /api/settings/index-sync
// The scheduler is restarted with the new settings.
func (sc *SettingsController) UpdateIndexSync(c *gin.Context) {
	var req indexSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if req.Schedule != "" {
		if err := settingsstore.ValidateCronSchedule(req.Schedule); err != nil {
			respondBadRequest(c, "invalid cron schedule: "+err.Error())
			return
		}
		if err := sc.store.SetIndexSyncSchedule(req.Schedule); err != nil {
			respondInternalError(c, err, "save index schedule")
			return
		}
	}
	if req.Enabled != nil {
		if err := sc.store.SetIndexSyncEnabled(*req.Enabled); err != nil {
			respondInternalError(c, err, "save index enabled")
			return
		}
	}

	if sc.scheduler != nil {
		if err := sc.scheduler.Reschedule(); err != nil {
			respondInternalError(c, err, "reschedule index")
			return
		}
	}
	c.JSON(http.StatusOK, sc.indexSyncState())
}

// RunIndexSync handles POST /api/settings/index-sync/run
func (sc *SettingsController) RunIndexSync(c *gin.Context) {
	if sc.scheduler == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "index scheduler not configured"})
		return
	}
	if sc.scheduler.IsSyncing() {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "index already running"})
		return
	}
	sc.scheduler.RunNow()
	respondAccepted(c, "index started", nil)
}

func (sc *SettingsController) indexSyncState() indexSyncResponse {
	resp := indexSyncResponse{
		IndexSyncConfig: sc.store.GetIndexSyncConfig(),
		LastRun:         sc.store.GetIndexSyncStatus(),
	}
	if sc.scheduler != nil {
		resp.Scheduled = sc.scheduler.IsRunning()
		resp.Syncing = sc.scheduler.IsSyncing()
		resp.NextRun = sc.scheduler.GetNextRunTime()
	}
	return resp
}
