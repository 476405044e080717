package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/EtsTest-AndroidApps/QReader/internal/database"
	"github.com/EtsTest-AndroidApps/QReader/internal/database/books"
	"github.com/EtsTest-AndroidApps/QReader/internal/tasks"
)

// TasksController enqueues background refreshes.
type TasksController struct {
	client TaskEnqueuer
	db     *database.Database
}

func NewTasksController(client TaskEnqueuer, db *database.Database) *TasksController {
	return &TasksController{client: client, db: db}
}

// RunIndex handles POST /api/tasks/index
func (tc *TasksController) RunIndex(c *gin.Context) {
	tc.enqueue(c, tasks.IndexLibraryTask{}, gin.H{"type": "index_library"})
}

// RunRefresh handles POST /api/tasks/refresh/:id
func (tc *TasksController) RunRefresh(c *gin.Context) {
	id := c.Param("id")
	if _, err := tc.db.Queries(c.Request.Context()).Books.GetByID(id); err != nil {
		if books.IsNotFound(err) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "get book")
		return
	}
	tc.enqueue(c, tasks.RefreshBookTask{BookID: id}, gin.H{"type": "refresh_book", "book_id": id})
}

// GetTaskStatus handles GET /api/tasks/:id
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	taskID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := tc.client.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}
	if status == backlite.TaskStatusNotFound {
		respondNotFound(c, "task")
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": taskID, "status": taskStatusToString(status)})
}

func (tc *TasksController) enqueue(c *gin.Context, task backlite.Task, data gin.H) {
	id, err := tc.client.Enqueue(task)
	if err != nil {
		respondInternalError(c, err, "enqueue task")
		return
	}
	data["task_id"] = id
	respondAccepted(c, "task enqueued", data)
}

func taskStatusToString(status backlite.TaskStatus) string {
	switch status {
	case backlite.TaskStatusPending:
		return "pending"
	case backlite.TaskStatusRunning:
		return "running"
	case backlite.TaskStatusSuccess:
		return "success"
	case backlite.TaskStatusFailure:
		return "failure"
	case backlite.TaskStatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}
