package models

import (
	"bytes"
	"encoding/json"
)

// Field is a tri-state patch value: absent (Set false), explicit null
// (Set and Null) or a value.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

// Present reports whether the field carries a non-null value.
func (f Field[T]) Present() bool {
	return f.Set && !f.Null
}

// Ptr returns the value as a pointer, nil for null.
func (f Field[T]) Ptr() *T {
	if f.Null || !f.Set {
		return nil
	}
	v := f.Value
	return &v
}

func Value[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

type ProjectPatch struct {
	Name        Field[string]        `json:"name"`
	Description Field[string]        `json:"description"`
	Status      Field[ProjectStatus] `json:"status"`
	StartDate   Field[string]        `json:"startDate"`
	EndDate     Field[string]        `json:"endDate"`
}

type TaskPatch struct {
	Title        Field[string]       `json:"title"`
	Description  Field[string]       `json:"description"`
	Status       Field[TaskStatus]   `json:"status"`
	Priority     Field[TaskPriority] `json:"priority"`
	StartDate    Field[string]       `json:"startDate"`
	EndDate      Field[string]       `json:"endDate"`
	Progress     Field[int]          `json:"progress"`
	AssigneeID   Field[uint]         `json:"assigneeId"`
	ParentTaskID Field[uint]         `json:"parentTaskId"`
}

// TaskInput is the create payload for a task.
type TaskInput struct {
	Title        string       `json:"title"`
	Description  *string      `json:"description"`
	Status       TaskStatus   `json:"status"`
	Priority     TaskPriority `json:"priority"`
	StartDate    *string      `json:"startDate"`
	EndDate      *string      `json:"endDate"`
	Progress     *int         `json:"progress"`
	ProjectID    uint         `json:"projectId"`
	AssigneeID   *uint        `json:"assigneeId"`
	ParentTaskID *uint        `json:"parentTaskId"`
	Dependencies []uint       `json:"dependencies"`
}

// ProjectInput is the create payload for a project.
type ProjectInput struct {
	Name        string        `json:"name"`
	Description *string       `json:"description"`
	Status      ProjectStatus `json:"status"`
	StartDate   *string       `json:"startDate"`
	EndDate     *string       `json:"endDate"`
}

type BatchUpdate struct {
	TaskIDs  []uint     `json:"taskIds"`
	Status   TaskStatus `json:"status"`
	Progress *int       `json:"progress"`
}
