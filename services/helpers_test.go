package services

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/afeibuhuifei/project-flow/database"
	"github.com/afeibuhuifei/project-flow/logging"
	"github.com/afeibuhuifei/project-flow/models"
	"github.com/afeibuhuifei/project-flow/storage"
	"github.com/afeibuhuifei/project-flow/utils"
)

type fakeActivities struct {
	mu      sync.Mutex
	records []models.ProjectActivity
}

func (f *fakeActivities) Record(_ context.Context, a *models.ProjectActivity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, *a)
	return nil
}

func (f *fakeActivities) ListByProject(_ context.Context, projectID uint, limit int64) ([]models.ProjectActivity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ProjectActivity
	for i := len(f.records) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		if f.records[i].ProjectID == projectID {
			out = append(out, f.records[i])
		}
	}
	return out, nil
}

func (f *fakeActivities) kinds() []models.ActivityType {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.ActivityType, len(f.records))
	for i, r := range f.records {
		out[i] = r.ActivityType
	}
	return out
}

type fakeNotifications struct {
	mu   sync.Mutex
	sent []models.Notification
}

func (f *fakeNotifications) Create(_ context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, *n)
	return nil
}

func (f *fakeNotifications) ListByUser(_ context.Context, userID uint) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Notification
	for _, n := range f.sent {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotifications) MarkAsRead(context.Context, uint, string, string) error { return nil }

func (f *fakeNotifications) Delete(context.Context, uint, string, string) error { return nil }

// testEnv wires every service against a throwaway SQLite file.
type testEnv struct {
	db            *gorm.DB
	store         *storage.DiskStore
	activities    *fakeActivities
	notifications *fakeNotifications
	auth          *AuthService
	projects      *ProjectService
	tasks         *TaskService
	deps          *DependencyService
	files         *FileService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logging.Logger.SetOutput(io.Discard)

	dir := t.TempDir()
	db, err := database.OpenAndMigrate(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })

	store, err := storage.NewDiskStore(filepath.Join(dir, "uploads"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	env := &testEnv{
		db:            db,
		store:         store,
		activities:    &fakeActivities{},
		notifications: &fakeNotifications{},
	}
	feed := NewActivityFeed(env.activities)
	notifier := NewNotificationService(env.notifications)
	env.auth = NewAuthService(db, utils.NewTokenManager("test-secret", time.Hour), bcrypt.MinCost)
	env.projects = NewProjectService(db, feed, store)
	env.tasks = NewTaskService(db, feed, notifier, store)
	env.deps = NewDependencyService(db, feed)
	env.files = NewFileService(db, store, feed, 1<<20)
	return env
}

func (e *testEnv) user(t *testing.T, name string) uint {
	t.Helper()
	res, err := e.auth.Register(context.Background(), RegisterRequest{Username: name, Password: "secret1"})
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return res.User.ID
}

func (e *testEnv) project(t *testing.T, owner uint, name string) *models.Project {
	t.Helper()
	p, err := e.projects.Create(context.Background(), owner, models.ProjectInput{Name: name})
	if err != nil {
		t.Fatalf("create project %s: %v", name, err)
	}
	return p
}

func (e *testEnv) task(t *testing.T, owner, projectID uint, title string, deps ...uint) *models.Task {
	t.Helper()
	task, err := e.tasks.Create(context.Background(), owner, models.TaskInput{
		Title:        title,
		ProjectID:    projectID,
		Dependencies: deps,
	})
	if err != nil {
		t.Fatalf("create task %s: %v", title, err)
	}
	return task
}

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }

func uintPtr(n uint) *uint { return &n }

// fieldErr returns the message for field, or "" when err has none.
func fieldErr(err error, field string) string {
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		return ""
	}
	for _, e := range verrs {
		if e.Field == field {
			return e.Message
		}
	}
	return ""
}
