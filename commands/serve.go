package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/afeibuhuifei/project-flow/config"
	"github.com/afeibuhuifei/project-flow/database"
	"github.com/afeibuhuifei/project-flow/handlers"
	"github.com/afeibuhuifei/project-flow/interfaces"
	"github.com/afeibuhuifei/project-flow/logging"
	"github.com/afeibuhuifei/project-flow/repositories"
	"github.com/afeibuhuifei/project-flow/services"
	"github.com/afeibuhuifei/project-flow/storage"
	"github.com/afeibuhuifei/project-flow/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context(), cfg)
	},
}

// app holds the wired services and whatever must be closed on shutdown.
type app struct {
	db            *gorm.DB
	store         *storage.DiskStore
	auth          *services.AuthService
	projects      *services.ProjectService
	tasks         *services.TaskService
	dependencies  *services.DependencyService
	files         *services.FileService
	notifications *services.NotificationService
	closers       []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// buildApp opens the store and wires services. External sinks are optional:
// without configuration, or when unreachable, they degrade to no-ops.
func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	db, err := database.OpenAndMigrate(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	a := &app{db: db}
	a.closers = append(a.closers, func() { database.Close(db) })
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Using SQLite database at %s", cfg.DatabasePath)

	store, err := storage.NewDiskStore(cfg.UploadDir)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.store = store

	var activityStore interfaces.ActivityStore = repositories.NopActivityStore{}
	if cfg.MongoURI != "" {
		repo, err := repositories.NewActivityRepo(ctx, cfg.MongoURI, cfg.MongoDBName, cfg.MongoCollection)
		if err != nil {
			logging.Logger.Warnf("Event ID: ACTIVITY_STORE_UNAVAILABLE, Description: Activity feed disabled: %v", err)
		} else {
			activityStore = repo
			a.closers = append(a.closers, func() { repo.Close(context.Background()) })
		}
	}

	var notificationStore interfaces.NotificationStore = repositories.NopNotificationStore{}
	if len(cfg.CassandraHosts) > 0 {
		repo, err := repositories.NewNotificationRepo(cfg.CassandraHosts, cfg.CassandraKeyspace)
		if err != nil {
			logging.Logger.Warnf("Event ID: NOTIFICATION_STORE_UNAVAILABLE, Description: Notifications disabled: %v", err)
		} else {
			notificationStore = repo
			a.closers = append(a.closers, repo.Close)
		}
	}

	activity := services.NewActivityFeed(repositories.NewBreakerActivityStore(activityStore))
	a.notifications = services.NewNotificationService(repositories.NewBreakerNotificationStore(notificationStore))

	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiresIn)
	a.auth = services.NewAuthService(db, tokens, cfg.BcryptCost)
	a.projects = services.NewProjectService(db, activity, store)
	a.tasks = services.NewTaskService(db, activity, a.notifications, store)
	a.dependencies = services.NewDependencyService(db, activity)
	a.files = services.NewFileService(db, store, activity, cfg.MaxUploadBytes)
	return a, nil
}

func (a *app) router(cfg *config.Config) http.Handler {
	debug := cfg.IsDevelopment()
	return handlers.NewRouter(handlers.RouterDeps{
		Auth:          handlers.NewAuthHandler(a.auth, debug),
		Projects:      handlers.NewProjectHandler(a.projects, debug),
		Tasks:         handlers.NewTaskHandler(a.tasks, a.dependencies, debug),
		Files:         handlers.NewFileHandler(a.files, cfg.MaxUploadBytes, debug),
		Notifications: handlers.NewNotificationHandler(a.notifications, debug),
		Authenticator: a.auth,
		CORSOrigin:    cfg.CORSOrigin,
		Debug:         debug,
	})
}

func serve(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting projectflow API...")
	if cfg.UsesDefaultSecret() {
		logging.Logger.Warn("Event ID: JWT_DEFAULT_SECRET, Description: JWT_SECRET is not set, using the development default")
	}

	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           a.router(cfg),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logging.Logger.Errorf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logging.Logger.Info("Event ID: SERVER_SHUTDOWN, Description: Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Logger.Errorf("Event ID: SERVER_SHUTDOWN_FAILED, Description: Graceful shutdown failed: %v", err)
		return err
	}
	logging.Logger.Info("Event ID: SERVER_STOPPED, Description: Server stopped")
	return nil
}
