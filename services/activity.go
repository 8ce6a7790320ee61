package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/afeibuhuifei/project-flow/interfaces"
	"github.com/afeibuhuifei/project-flow/logging"
	"github.com/afeibuhuifei/project-flow/models"
)

const defaultActivityLimit = 50

// ActivityFeed records project events best effort. A failing store never
// fails the write that produced the event.
type ActivityFeed struct {
	store interfaces.ActivityStore
}

func NewActivityFeed(store interfaces.ActivityStore) *ActivityFeed {
	return &ActivityFeed{store: store}
}

func (f *ActivityFeed) Record(ctx context.Context, projectID, userID uint, kind models.ActivityType, taskID *uint, details string) {
	activity := &models.ProjectActivity{
		ProjectID:    projectID,
		ActivityType: kind,
		TaskID:       taskID,
		UserID:       userID,
		Timestamp:    time.Now().UTC(),
		Details:      details,
	}
	if err := f.store.Record(context.WithoutCancel(ctx), activity); err != nil {
		logging.Logger.Warnf("Event ID: ACTIVITY_RECORD_FAILED, Description: Could not record %s for project %d: %v", kind, projectID, err)
	}
}

func (f *ActivityFeed) List(ctx context.Context, projectID uint, limit int) ([]models.ProjectActivity, error) {
	if limit < 1 {
		limit = defaultActivityLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return f.store.ListByProject(ctx, projectID, int64(limit))
}

// NotificationService delivers and manages per-user notifications.
type NotificationService struct {
	store interfaces.NotificationStore
}

func NewNotificationService(store interfaces.NotificationStore) *NotificationService {
	return &NotificationService{store: store}
}

// NotifyAssignment tells assignee they were given a task. Self assignment is
// silent and failures are only logged.
func (s *NotificationService) NotifyAssignment(ctx context.Context, actorID uint, assignee *models.User, task *models.Task) {
	if assignee == nil || assignee.ID == actorID {
		return
	}
	n := &models.Notification{
		UserID:    assignee.ID,
		Username:  assignee.Username,
		TaskID:    task.ID,
		Message:   fmt.Sprintf("You have been assigned to task %q", task.Title),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Create(context.WithoutCancel(ctx), n); err != nil {
		logging.Logger.Warnf("Event ID: NOTIFICATION_FAILED, Description: Could not notify user %d about task %d: %v", assignee.ID, task.ID, err)
		return
	}
	logging.Logger.Infof("Event ID: NOTIFICATION_SENT, Description: User %d notified about task %d", assignee.ID, task.ID)
}

func (s *NotificationService) List(ctx context.Context, userID uint) ([]models.Notification, error) {
	return s.store.ListByUser(ctx, userID)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, userID uint, key models.NotificationKey) error {
	if err := validateNotificationKey(key); err != nil {
		return err
	}
	err := s.store.MarkAsRead(ctx, userID, key.ID, key.CreatedAt)
	if errors.Is(err, interfaces.ErrNotificationNotFound) {
		return notFound("notification not found")
	}
	return err
}

func (s *NotificationService) Delete(ctx context.Context, userID uint, key models.NotificationKey) error {
	if err := validateNotificationKey(key); err != nil {
		return err
	}
	return s.store.Delete(ctx, userID, key.ID, key.CreatedAt)
}

func validateNotificationKey(key models.NotificationKey) error {
	v := &validator{}
	_, err := uuid.Parse(key.ID)
	v.check(err == nil, "id", "id must be a UUID")
	_, err = time.Parse(time.RFC3339Nano, key.CreatedAt)
	v.check(err == nil, "createdAt", "createdAt must be an RFC 3339 timestamp")
	return v.err()
}
