package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/EtsTest-AndroidApps/QReader/internal/entities"
)

// ProgressReader reads the progress of the last library index.
type ProgressReader interface {
	Get() (*entities.IndexProgress, error)
}

// IndexStatusController reports library index progress.
type IndexStatusController struct {
	progress  ProgressReader
	scheduler IndexScheduler
}

func NewIndexStatusController(progress ProgressReader, scheduler IndexScheduler) *IndexStatusController {
	return &IndexStatusController{progress: progress, scheduler: scheduler}
}

// GetStatus handles GET /api/sync/index/status
func (ic *IndexStatusController) GetStatus(c *gin.Context) {
	resp := gin.H{"status": "idle"}

	progress, err := ic.progress.Get()
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
	case err != nil:
		respondInternalError(c, err, "get index progress")
		return
	default:
		resp["status"] = progress.Status
		resp["progress"] = progress
	}

	if ic.scheduler != nil {
		resp["scheduled"] = ic.scheduler.IsRunning()
		if next := ic.scheduler.GetNextRunTime(); next != nil {
			resp["next_run"] = next
		}
	}
	c.JSON(http.StatusOK, resp)
}
