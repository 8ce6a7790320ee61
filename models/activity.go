package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ActivityType string

const (
	ActivityCreateProject          ActivityType = "CreateProject"
	ActivityUpdateProject          ActivityType = "UpdateProject"
	ActivityCreateTask             ActivityType = "CreateTask"
	ActivityUpdateTask             ActivityType = "UpdateTask"
	ActivityDeleteTask             ActivityType = "DeleteTask"
	ActivityChangeTaskStatus       ActivityType = "ChangeTaskStatus"
	ActivityAddDependency          ActivityType = "AddDependency"
	ActivityRemoveDependency       ActivityType = "RemoveDependency"
	ActivityAddDocumentToTask      ActivityType = "AddDocumentToTask"
	ActivityRemoveDocumentFromTask ActivityType = "RemoveDocumentFromTask"
)

// ProjectActivity is one entry of a project's activity feed.
type ProjectActivity struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ProjectID    uint               `json:"projectId" bson:"projectId"`
	ActivityType ActivityType       `json:"activityType" bson:"activityType"`
	TaskID       *uint              `json:"taskId,omitempty" bson:"taskId,omitempty"`
	UserID       uint               `json:"userId" bson:"userId"`
	Timestamp    time.Time          `json:"timestamp" bson:"timestamp"`
	Details      string             `json:"details" bson:"details"`
}
