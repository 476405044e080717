package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter creates the HTTP router with every configured endpoint.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	books := NewBooksController(cfg.Database, cfg.Groups)
	router.GET("/api/books", books.ListBooks)
	router.GET("/api/books/:id", books.GetBook)
	router.GET("/api/books/:id/groups", books.GetGroups)
	router.GET("/api/books/:id/groups/stream", books.StreamGroups)
	router.PUT("/api/books/:id/last-read", books.UpdateLastRead)
	router.PUT("/api/books/:id/completed", books.SetCompleted)

	groups := NewGroupsController(cfg.Groups)
	router.GET("/api/groups", groups.GetGroup)
	router.GET("/api/groups/book", groups.GetBook)
	router.GET("/api/groups/siblings", groups.GetSiblings)
	router.GET("/api/groups/downloaded", groups.IsDownloaded)
	router.PUT("/api/groups/last-read", groups.UpdateLastRead)

	router.GET("/api/sync/index/status", NewIndexStatusController(cfg.Database.IndexProgress(), cfg.Scheduler).GetStatus)

	if cfg.Tasks != nil {
		tasks := NewTasksController(cfg.Tasks, cfg.Database)
		router.POST("/api/tasks/index", tasks.RunIndex)
		router.POST("/api/tasks/refresh/:id", tasks.RunRefresh)
		router.GET("/api/tasks/:id", tasks.GetTaskStatus)
	}

	if cfg.Settings != nil {
		settings := NewSettingsController(cfg.Settings, cfg.Scheduler)
		router.GET("/api/settings/check-webnovel", settings.GetCheckForWebNovel)
		router.PUT("/api/settings/check-webnovel", settings.UpdateCheckForWebNovel)
		router.DELETE("/api/settings/check-webnovel", settings.ResetCheckForWebNovel)
		router.GET("/api/settings/index-sync", settings.GetIndexSync)
		router.PUT("/api/settings/index-sync", settings.UpdateIndexSync)
		router.POST("/api/settings/index-sync/run", settings.RunIndexSync)
	}

	return router
}
