package models

import (
	"time"
)

type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

var TaskStatuses = []TaskStatus{StatusTodo, StatusInProgress, StatusCompleted}

func (s TaskStatus) Valid() bool {
	for _, v := range TaskStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

const (
	MinProgress = 0
	MaxProgress = 100
)

type Task struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Title        string       `gorm:"size:200;not null" json:"title"`
	Description  *string      `gorm:"size:2000" json:"description"`
	Status       TaskStatus   `gorm:"size:20;not null;default:todo;index" json:"status"`
	Priority     TaskPriority `gorm:"size:20;not null;default:medium" json:"priority"`
	StartDate    *time.Time   `json:"startDate"`
	EndDate      *time.Time   `json:"endDate"`
	Progress     int          `gorm:"not null;default:0" json:"progress"`
	ProjectID    uint         `gorm:"not null;index" json:"projectId"`
	AssigneeID   *uint        `gorm:"index" json:"assigneeId"`
	ParentTaskID *uint        `gorm:"index" json:"parentTaskId"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`

	Project      *Project         `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
	Assignee     *User            `gorm:"foreignKey:AssigneeID;constraint:OnDelete:SET NULL" json:"assignee,omitempty"`
	ParentTask   *Task            `gorm:"foreignKey:ParentTaskID;constraint:OnDelete:SET NULL" json:"-"`
	Dependencies []TaskDependency `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"dependencies,omitempty"`
	Dependents   []TaskDependency `gorm:"foreignKey:DependsOnTaskID;constraint:OnDelete:CASCADE" json:"dependents,omitempty"`
	Files        []TaskFile       `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"files,omitempty"`

	FileCount int64 `gorm:"-" json:"fileCount"`
}
