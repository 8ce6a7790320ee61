package repositories

import (
	"context"

	"github.com/afeibuhuifei/project-flow/models"
)

// NopActivityStore is used when no MongoDB is configured.
type NopActivityStore struct{}

func (NopActivityStore) Record(context.Context, *models.ProjectActivity) error { return nil }

func (NopActivityStore) ListByProject(context.Context, uint, int64) ([]models.ProjectActivity, error) {
	return []models.ProjectActivity{}, nil
}

// NopNotificationStore is used when no Cassandra cluster is configured.
type NopNotificationStore struct{}

func (NopNotificationStore) Create(context.Context, *models.Notification) error { return nil }

func (NopNotificationStore) ListByUser(context.Context, uint) ([]models.Notification, error) {
	return []models.Notification{}, nil
}

func (NopNotificationStore) MarkAsRead(context.Context, uint, string, string) error { return nil }

func (NopNotificationStore) Delete(context.Context, uint, string, string) error { return nil }
