package models

import "time"

type Notification struct {
	ID        string    `cassandra:"id" json:"id"`
	UserID    uint      `cassandra:"user_id" json:"userId"`
	Username  string    `cassandra:"username" json:"username"`
	TaskID    uint      `cassandra:"task_id" json:"taskId"`
	Message   string    `cassandra:"message" json:"message"`
	CreatedAt time.Time `cassandra:"created_at" json:"createdAt"`
	IsRead    bool      `cassandra:"is_read" json:"isRead"`
}

// NotificationKey addresses a single notification of the caller.
type NotificationKey struct {
	ID        string `json:"id"`
	CreatedAt string `json:"createdAt"`
}
