package interfaces

import (
	"context"
	"errors"

	"github.com/afeibuhuifei/project-flow/models"
)

// ActivityStore keeps the per-project activity feed.
type ActivityStore interface {
	Record(ctx context.Context, activity *models.ProjectActivity) error
	ListByProject(ctx context.Context, projectID uint, limit int64) ([]models.ProjectActivity, error)
}

// ErrNotificationNotFound is returned when a notification key matches no row.
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationStore keeps per-user notifications.
type NotificationStore interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByUser(ctx context.Context, userID uint) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, userID uint, id string, createdAt string) error
	Delete(ctx context.Context, userID uint, id string, createdAt string) error
}
