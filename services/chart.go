package services

import (
	"strconv"
	"time"

	"github.com/afeibuhuifei/project-flow/models"
)

const (
	colorUrgent  = "#ff4d4f"
	colorHigh    = "#ff7a45"
	colorMedium  = "#ffa940"
	colorLow     = "#52c41a"
	colorDefault = "#1890ff"

	// Placeholder span for tasks without an end date. Never stored.
	defaultGanttSpan = 7 * 24 * time.Hour
)

func PriorityColor(p models.TaskPriority) string {
	switch p {
	case models.PriorityUrgent:
		return colorUrgent
	case models.PriorityHigh:
		return colorHigh
	case models.PriorityMedium:
		return colorMedium
	case models.PriorityLow:
		return colorLow
	default:
		return colorDefault
	}
}

// ToGantt maps tasks to chart records. Tasks should carry Project and
// Dependencies.
func ToGantt(tasks []models.Task) []models.GanttTask {
	out := make([]models.GanttTask, 0, len(tasks))
	for _, t := range tasks {
		start := t.CreatedAt
		if t.StartDate != nil {
			start = *t.StartDate
		}
		end := t.CreatedAt.Add(defaultGanttSpan)
		if t.EndDate != nil {
			end = *t.EndDate
		}

		kind, progressColor := "task", colorDefault
		if t.Progress == models.MaxProgress {
			kind, progressColor = "milestone", colorLow
		}

		deps := make([]string, 0, len(t.Dependencies))
		for _, d := range t.Dependencies {
			deps = append(deps, strconv.FormatUint(uint64(d.DependsOnTaskID), 10))
		}

		rec := models.GanttTask{
			ID:           strconv.FormatUint(uint64(t.ID), 10),
			Name:         t.Title,
			Start:        start,
			End:          end,
			Progress:     t.Progress,
			Type:         kind,
			Dependencies: deps,
			Color:        PriorityColor(t.Priority),
			Styles: models.GanttStyles{
				BackgroundColor: PriorityColor(t.Priority),
				ProgressColor:   progressColor,
			},
			Status:   t.Status,
			Priority: t.Priority,
			Assignee: t.Assignee.Summary(),
		}
		if t.Project != nil {
			rec.Project = t.Project.Name
		}
		out = append(out, rec)
	}
	return out
}

var kanbanTitles = map[models.TaskStatus]string{
	models.StatusTodo:       "To Do",
	models.StatusInProgress: "In Progress",
	models.StatusCompleted:  "Completed",
}

// ToKanban groups tasks into one column per status, keeping input order.
func ToKanban(tasks []models.Task) []models.KanbanColumn {
	cols := make([]models.KanbanColumn, len(models.TaskStatuses))
	index := make(map[models.TaskStatus]int, len(cols))
	for i, s := range models.TaskStatuses {
		cols[i] = models.KanbanColumn{ID: s, Title: kanbanTitles[s], Tasks: []models.Task{}}
		index[s] = i
	}
	for _, t := range tasks {
		if i, ok := index[t.Status]; ok {
			cols[i].Tasks = append(cols[i].Tasks, t)
		}
	}
	return cols
}
