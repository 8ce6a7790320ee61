package services

import (
	"math"
	"time"

	"github.com/afeibuhuifei/project-flow/models"
	"github.com/afeibuhuifei/project-flow/utils"
)

const unassignedBucket = "unassigned"

type ProjectDuration struct {
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	DaysElapsed *int       `json:"daysElapsed"`
}

type ProjectStats struct {
	TotalTasks      int                         `json:"totalTasks"`
	CompletedTasks  int                         `json:"completedTasks"`
	InProgressTasks int                         `json:"inProgressTasks"`
	TodoTasks       int                         `json:"todoTasks"`
	OverallProgress int                         `json:"overallProgress"`
	TasksByPriority map[models.TaskPriority]int `json:"tasksByPriority"`
	TasksByAssignee map[string]int              `json:"tasksByAssignee"`
	ProjectDuration ProjectDuration             `json:"projectDuration"`
}

// CountByStatus tallies tasks per status.
func CountByStatus(tasks []models.Task) models.TaskStats {
	var s models.TaskStats
	for _, t := range tasks {
		s.Add(t.Status, 1)
	}
	return s
}

// OverallProgress is the rounded share of completed tasks, 0 for none.
func OverallProgress(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// Aggregate computes the stats block of a project from its tasks. Tasks are
// expected to carry their Assignee.
func Aggregate(project *models.Project, tasks []models.Task, now time.Time) *ProjectStats {
	counts := CountByStatus(tasks)
	stats := &ProjectStats{
		TotalTasks:      counts.Total,
		CompletedTasks:  counts.Completed,
		InProgressTasks: counts.InProgress,
		TodoTasks:       counts.Todo,
		OverallProgress: OverallProgress(counts.Completed, counts.Total),
		TasksByPriority: map[models.TaskPriority]int{},
		TasksByAssignee: map[string]int{},
		ProjectDuration: ProjectDuration{
			StartDate: project.StartDate,
			EndDate:   project.EndDate,
		},
	}

	for _, t := range tasks {
		stats.TasksByPriority[t.Priority]++
		name := unassignedBucket
		if t.Assignee != nil {
			name = t.Assignee.Username
		}
		stats.TasksByAssignee[name]++
	}

	if project.StartDate != nil {
		days := utils.DaysBetween(*project.StartDate, now)
		stats.ProjectDuration.DaysElapsed = &days
	}
	return stats
}
