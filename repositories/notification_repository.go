package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gocql/gocql"

	"github.com/afeibuhuifei/project-flow/interfaces"
	"github.com/afeibuhuifei/project-flow/logging"
	"github.com/afeibuhuifei/project-flow/models"
)

// NotificationRepo stores notifications in Cassandra, partitioned by user.
type NotificationRepo struct {
	session *gocql.Session
}

func NewNotificationRepo(hosts []string, keyspace string) (*NotificationRepo, error) {
	cluster := gocql.NewCluster(hosts...)
	cluster.Keyspace = "system"
	cluster.Timeout = 5 * time.Second
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Cassandra: %w", err)
	}

	err = session.Query(fmt.Sprintf(
		`CREATE KEYSPACE IF NOT EXISTS %s
		 WITH replication = {
			 'class': 'SimpleStrategy',
			 'replication_factor': 1
		 }`, keyspace)).Exec()
	session.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to create keyspace: %w", err)
	}

	cluster.Keyspace = keyspace
	cluster.Consistency = gocql.One
	session, err = cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s keyspace: %w", keyspace, err)
	}

	repo := &NotificationRepo{session: session}
	if err := repo.createTable(); err != nil {
		session.Close()
		return nil, err
	}

	logging.Logger.Infof("Event ID: CASSANDRA_CONNECTED, Description: Connected to Cassandra keyspace %s", keyspace)
	return repo, nil
}

func (r *NotificationRepo) createTable() error {
	err := r.session.Query(
		`CREATE TABLE IF NOT EXISTS notifications (
			id UUID,
			user_id BIGINT,
			username TEXT,
			task_id BIGINT,
			message TEXT,
			created_at TIMESTAMP,
			is_read BOOLEAN,
			PRIMARY KEY ((user_id), created_at, id)
		) WITH CLUSTERING ORDER BY (created_at DESC, id ASC)`).Exec()
	if err != nil {
		return fmt.Errorf("failed to create notifications table: %w", err)
	}
	return nil
}

func (r *NotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	id := gocql.TimeUUID()
	if n.ID != "" {
		parsed, err := gocql.ParseUUID(n.ID)
		if err != nil {
			return fmt.Errorf("invalid notification id: %w", err)
		}
		id = parsed
	}
	n.ID = id.String()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	// Cassandra timestamps keep millisecond precision.
	n.CreatedAt = n.CreatedAt.Truncate(time.Millisecond)

	err := r.session.Query(
		`INSERT INTO notifications (id, user_id, username, task_id, message, created_at, is_read)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, int64(n.UserID), n.Username, int64(n.TaskID), n.Message, n.CreatedAt, n.IsRead,
	).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

func (r *NotificationRepo) ListByUser(ctx context.Context, userID uint) ([]models.Notification, error) {
	iter := r.session.Query(
		`SELECT id, user_id, username, task_id, message, created_at, is_read
		 FROM notifications WHERE user_id = ?`, int64(userID),
	).WithContext(ctx).Iter()

	notifications := []models.Notification{}
	var (
		id            gocql.UUID
		uid, taskID   int64
		username, msg string
		createdAt     time.Time
		isRead        bool
	)
	for iter.Scan(&id, &uid, &username, &taskID, &msg, &createdAt, &isRead) {
		notifications = append(notifications, models.Notification{
			ID:        id.String(),
			UserID:    uint(uid),
			Username:  username,
			TaskID:    uint(taskID),
			Message:   msg,
			CreatedAt: createdAt,
			IsRead:    isRead,
		})
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (r *NotificationRepo) MarkAsRead(ctx context.Context, userID uint, id, createdAt string) error {
	uuid, ts, err := parseNotificationKey(id, createdAt)
	if err != nil {
		return err
	}
	// Plain UPDATE is an upsert; IF EXISTS keeps unknown keys from creating rows.
	applied, err := r.session.Query(
		`UPDATE notifications SET is_read = true WHERE user_id = ? AND created_at = ? AND id = ? IF EXISTS`,
		int64(userID), ts, uuid,
	).WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	if !applied {
		return interfaces.ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepo) Delete(ctx context.Context, userID uint, id, createdAt string) error {
	uuid, ts, err := parseNotificationKey(id, createdAt)
	if err != nil {
		return err
	}
	err = r.session.Query(
		`DELETE FROM notifications WHERE user_id = ? AND created_at = ? AND id = ?`,
		int64(userID), ts, uuid,
	).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}

func (r *NotificationRepo) Close() {
	r.session.Close()
	logging.Logger.Info("Event ID: CASSANDRA_CLOSED, Description: Cassandra session closed")
}

// ErrBadNotificationKey marks a malformed id or createdAt pair.
var ErrBadNotificationKey = errors.New("invalid notification key")

func parseNotificationKey(id, createdAt string) (gocql.UUID, time.Time, error) {
	uuid, err := gocql.ParseUUID(id)
	if err != nil {
		return gocql.UUID{}, time.Time{}, fmt.Errorf("%w: id: %v", ErrBadNotificationKey, err)
	}
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return gocql.UUID{}, time.Time{}, fmt.Errorf("%w: createdAt: %v", ErrBadNotificationKey, err)
	}
	return uuid, ts, nil
}
