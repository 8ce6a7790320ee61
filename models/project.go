package models

import (
	"time"
)

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectArchived  ProjectStatus = "archived"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectCompleted, ProjectArchived:
		return true
	}
	return false
}

type Project struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	Name        string        `gorm:"size:100;not null" json:"name"`
	Description *string       `gorm:"size:1000" json:"description"`
	Status      ProjectStatus `gorm:"size:20;not null;default:active;index" json:"status"`
	StartDate   *time.Time    `json:"startDate"`
	EndDate     *time.Time    `json:"endDate"`
	OwnerID     uint          `gorm:"not null;index" json:"ownerId"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`

	Owner *User  `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	Tasks []Task `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"tasks,omitempty"`

	TaskCount int64      `gorm:"-" json:"taskCount"`
	TaskStats *TaskStats `gorm:"-" json:"taskStats,omitempty"`
}

// TaskStats counts a project's tasks by status.
type TaskStats struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"inProgress"`
	Todo       int `json:"todo"`
}

// Add counts n tasks with the given status.
func (s *TaskStats) Add(status TaskStatus, n int) {
	s.Total += n
	switch status {
	case StatusCompleted:
		s.Completed += n
	case StatusInProgress:
		s.InProgress += n
	case StatusTodo:
		s.Todo += n
	}
}
