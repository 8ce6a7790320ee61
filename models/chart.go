package models

import "time"

// GanttTask is a chart-ready rendering of a task.
type GanttTask struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Start        time.Time    `json:"start"`
	End          time.Time    `json:"end"`
	Progress     int          `json:"progress"`
	Type         string       `json:"type"`
	Project      string       `json:"project"`
	Dependencies []string     `json:"dependencies"`
	Color        string       `json:"color"`
	Styles       GanttStyles  `json:"styles"`
	Status       TaskStatus   `json:"status"`
	Priority     TaskPriority `json:"priority"`
	Assignee     *UserSummary `json:"assignee"`
}

type GanttStyles struct {
	BackgroundColor string `json:"backgroundColor"`
	ProgressColor   string `json:"progressColor"`
}

type KanbanColumn struct {
	ID    TaskStatus `json:"id"`
	Title string     `json:"title"`
	Tasks []Task     `json:"tasks"`
}
