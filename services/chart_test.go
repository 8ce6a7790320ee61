package services

import (
	"testing"
	"time"

	"github.com/afeibuhuifei/project-flow/models"
)

func TestToGanttDefaults(t *testing.T) {
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	start := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	tasks := []models.Task{
		{ID: 1, Title: "open", Priority: models.PriorityUrgent, Progress: 20, CreatedAt: created},
		{ID: 2, Title: "done", Priority: models.PriorityLow, Progress: 100, StartDate: &start, CreatedAt: created,
			Dependencies: []models.TaskDependency{{TaskID: 2, DependsOnTaskID: 1}}},
	}

	got := ToGantt(tasks)
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}

	open := got[0]
	if !open.Start.Equal(created) || !open.End.Equal(created.Add(7*24*time.Hour)) {
		t.Errorf("open: got start=%s end=%s", open.Start, open.End)
	}
	if open.Type != "task" || open.Color != "#ff4d4f" || open.Styles.ProgressColor != "#1890ff" {
		t.Errorf("open: got %+v", open)
	}
	if tasks[0].EndDate != nil {
		t.Error("the placeholder end date must not be written back")
	}

	done := got[1]
	if !done.Start.Equal(start) || done.Type != "milestone" || done.Color != "#52c41a" {
		t.Errorf("done: got %+v", done)
	}
	if len(done.Dependencies) != 1 || done.Dependencies[0] != "1" {
		t.Errorf("done dependencies: got %v", done.Dependencies)
	}
}

func TestPriorityColor(t *testing.T) {
	tests := []struct {
		p    models.TaskPriority
		want string
	}{
		{models.PriorityUrgent, "#ff4d4f"},
		{models.PriorityHigh, "#ff7a45"},
		{models.PriorityMedium, "#ffa940"},
		{models.PriorityLow, "#52c41a"},
		{"", "#1890ff"},
	}
	for _, tt := range tests {
		if got := PriorityColor(tt.p); got != tt.want {
			t.Errorf("PriorityColor(%q): got %s, want %s", tt.p, got, tt.want)
		}
	}
}

func TestToKanbanKeepsEmptyColumns(t *testing.T) {
	cols := ToKanban([]models.Task{{ID: 1, Status: models.StatusInProgress}})
	if len(cols) != 3 {
		t.Fatalf("got %d columns, want 3", len(cols))
	}
	titles := []string{"To Do", "In Progress", "Completed"}
	for i, c := range cols {
		if c.Title != titles[i] {
			t.Errorf("column %d: got %q, want %q", i, c.Title, titles[i])
		}
		if c.Tasks == nil {
			t.Errorf("column %d: tasks must be an empty list, not nil", i)
		}
	}
	if len(cols[1].Tasks) != 1 {
		t.Errorf("in progress: got %d tasks", len(cols[1].Tasks))
	}
}

func TestOverallProgress(t *testing.T) {
	tests := []struct {
		completed, total, want int
	}{
		{0, 0, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{4, 4, 100},
	}
	for _, tt := range tests {
		if got := OverallProgress(tt.completed, tt.total); got != tt.want {
			t.Errorf("OverallProgress(%d, %d): got %d, want %d", tt.completed, tt.total, got, tt.want)
		}
	}
}

func TestAggregateWithoutStartDate(t *testing.T) {
	stats := Aggregate(&models.Project{}, nil, time.Now())
	if stats.TotalTasks != 0 || stats.OverallProgress != 0 {
		t.Errorf("empty project: got %+v", stats)
	}
	if stats.ProjectDuration.DaysElapsed != nil {
		t.Errorf("DaysElapsed: got %d, want nil", *stats.ProjectDuration.DaysElapsed)
	}
}
