package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/EtsTest-AndroidApps/QReader/internal/config"
	http_controllers "github.com/EtsTest-AndroidApps/QReader/internal/http"
	"github.com/EtsTest-AndroidApps/QReader/internal/scheduler"
	"github.com/EtsTest-AndroidApps/QReader/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill -2 is syscall.SIGINT, SIGKILL can't be caught
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Background work stops first so in-flight refreshes see cancellation.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run starts the server with the task queue and the index scheduler.
func Run(cfg *config.Config, version string) error {
	log.Printf("Starting QReader v%s", version)

	app, err := NewApp(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	bgCtx, bgCancel := context.WithCancel(context.Background())
	defer bgCancel()

	var taskClient *tasks.Client
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.ConfigFromEnv(cfg.Tasks))
		if err != nil {
			return fmt.Errorf("failed to initialize task queue: %w", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.RegisterLibraryQueues(tasks.BookRefresher{DB: app.DB, Groups: app.Groups}, app.Indexer)
		go taskClient.Start(bgCtx)
	}

	indexScheduler := scheduler.NewIndexSyncScheduler(app.Settings, app.Indexer)
	if err := indexScheduler.Start(bgCtx); err != nil {
		log.Printf("WARNING: index scheduler not started: %v", err)
	}

	routerCfg := http_controllers.RouterConfig{
		Database:  app.DB,
		Version:   version,
		Groups:    app.Groups,
		Settings:  app.Settings,
		Scheduler: indexScheduler,
	}
	// A nil *tasks.Client must not become a non-nil interface.
	if taskClient != nil {
		routerCfg.Tasks = taskClient
	}

	Serve(http_controllers.NewRouter(routerCfg), cfg, func(ctx context.Context) {
		bgCancel()
		indexScheduler.Stop()
		if taskClient != nil {
			taskClient.Stop(ctx)
		}
	})
	return nil
}
