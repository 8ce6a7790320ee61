package services

import (
	"gorm.io/gorm"

	"github.com/afeibuhuifei/project-flow/models"
)

// deleteTaskRows removes tasks together with their dependency edges and file
// rows, and detaches their subtasks. It returns the stored paths of the
// removed files so the caller can unlink them after commit.
func deleteTaskRows(tx *gorm.DB, taskIDs []uint) ([]string, error) {
	if len(taskIDs) == 0 {
		return nil, nil
	}

	var paths []string
	if err := tx.Model(&models.TaskFile{}).Where("task_id IN ?", taskIDs).Pluck("file_path", &paths).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("task_id IN ? OR depends_on_task_id IN ?", taskIDs, taskIDs).Delete(&models.TaskDependency{}).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.TaskFile{}).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&models.Task{}).Where("parent_task_id IN ?", taskIDs).Update("parent_task_id", nil).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("id IN ?", taskIDs).Delete(&models.Task{}).Error; err != nil {
		return nil, err
	}
	return paths, nil
}

// attachFileCounts fills Task.FileCount with one grouped query.
func attachFileCounts(db *gorm.DB, tasks []models.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	ids := make([]uint, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}

	var rows []struct {
		TaskID uint
		N      int64
	}
	err := db.Model(&models.TaskFile{}).
		Select("task_id, COUNT(*) AS n").
		Where("task_id IN ?", ids).
		Group("task_id").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.TaskID] = r.N
	}
	for i := range tasks {
		tasks[i].FileCount = counts[tasks[i].ID]
	}
	return nil
}

// withTaskRelations preloads what task payloads carry.
func withTaskRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Project").
		Preload("Assignee").
		Preload("Dependencies", func(db *gorm.DB) *gorm.DB { return db.Order("task_dependencies.id") }).
		Preload("Dependencies.DependsOnTask").
		Preload("Dependents", func(db *gorm.DB) *gorm.DB { return db.Order("task_dependencies.id") }).
		Preload("Dependents.Task")
}
