package models

import "time"

// TaskDependency is a directed edge: TaskID depends on DependsOnTaskID.
type TaskDependency struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	TaskID          uint      `gorm:"not null;uniqueIndex:idx_task_dependency_pair" json:"taskId"`
	DependsOnTaskID uint      `gorm:"not null;uniqueIndex:idx_task_dependency_pair;index" json:"dependsOnTaskId"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`

	Task          *Task `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"task,omitempty"`
	DependsOnTask *Task `gorm:"foreignKey:DependsOnTaskID;constraint:OnDelete:CASCADE" json:"dependsOnTask,omitempty"`
}

// TaskDependencyRelation is the request body for adding or removing an edge.
type TaskDependencyRelation struct {
	TaskID          uint `json:"taskId"`
	DependsOnTaskID uint `json:"dependsOnTaskId"`
}

// TaskDependencies lists both directions of a task's edges.
type TaskDependencies struct {
	Dependencies []TaskDependency `json:"dependencies"`
	Dependents   []TaskDependency `json:"dependents"`
}
