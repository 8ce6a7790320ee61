package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/afeibuhuifei/project-flow/interfaces"
	"github.com/afeibuhuifei/project-flow/logging"
	"github.com/afeibuhuifei/project-flow/models"
)

var (
	_ interfaces.DependencyCommandContext = (*DependencyService)(nil)
	_ interfaces.DependencyQueryContext   = (*DependencyService)(nil)
)

// DependencyService is the registry of task dependency edges. Edges are
// advisory: cycles are not detected.
type DependencyService struct {
	db       *gorm.DB
	activity *ActivityFeed
}

func NewDependencyService(db *gorm.DB, activity *ActivityFeed) *DependencyService {
	return &DependencyService{db: db, activity: activity}
}

func validateRelation(rel models.TaskDependencyRelation) error {
	v := &validator{}
	v.check(rel.TaskID > 0, "taskId", "taskId must be a positive integer")
	v.check(rel.DependsOnTaskID > 0, "dependsOnTaskId", "dependsOnTaskId must be a positive integer")
	if err := v.err(); err != nil {
		return err
	}
	if rel.TaskID == rel.DependsOnTaskID {
		return invalid("dependsOnTaskId", "a task cannot depend on itself")
	}
	return nil
}

// addEdge checks and inserts one edge inside tx.
func addEdge(ctx context.Context, tx *gorm.DB, userID uint, rel models.TaskDependencyRelation) (*models.TaskDependency, error) {
	if err := validateRelation(rel); err != nil {
		return nil, err
	}

	for _, ref := range []struct {
		field string
		id    uint
	}{{"taskId", rel.TaskID}, {"dependsOnTaskId", rel.DependsOnTaskID}} {
		ok, err := ownsTask(ctx, tx, userID, ref.id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, invalid(ref.field, fmt.Sprintf("task %d not found or access denied", ref.id))
		}
	}

	dup, err := exists(tx.WithContext(ctx).Model(&models.TaskDependency{}).
		Where("task_id = ? AND depends_on_task_id = ?", rel.TaskID, rel.DependsOnTaskID))
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, invalid("dependsOnTaskId", "dependency already exists")
	}

	dep := &models.TaskDependency{TaskID: rel.TaskID, DependsOnTaskID: rel.DependsOnTaskID}
	if err := tx.WithContext(ctx).Create(dep).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, invalid("dependsOnTaskId", "dependency already exists")
		}
		return nil, err
	}
	return dep, nil
}

func (s *DependencyService) AddDependency(ctx context.Context, userID uint, rel models.TaskDependencyRelation) (*models.TaskDependency, error) {
	var dep *models.TaskDependency
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		dep, err = addEdge(ctx, tx, userID, rel)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Preload("Task").Preload("DependsOnTask").First(dep, dep.ID).Error; err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: DEPENDENCY_ADDED, Description: Task %d now depends on task %d", rel.TaskID, rel.DependsOnTaskID)
	if dep.Task != nil {
		s.activity.Record(ctx, dep.Task.ProjectID, userID, models.ActivityAddDependency, &dep.TaskID,
			fmt.Sprintf("Task %d depends on task %d", rel.TaskID, rel.DependsOnTaskID))
	}
	return dep, nil
}

// RemoveDependency deletes the edge if the caller owns its task.
func (s *DependencyService) RemoveDependency(ctx context.Context, userID uint, rel models.TaskDependencyRelation) error {
	v := &validator{}
	v.check(rel.TaskID > 0, "taskId", "taskId must be a positive integer")
	v.check(rel.DependsOnTaskID > 0, "dependsOnTaskId", "dependsOnTaskId must be a positive integer")
	if err := v.err(); err != nil {
		return err
	}

	db := s.db.WithContext(ctx)
	owned := db.Session(&gorm.Session{NewDB: true}).Model(&models.Task{}).Select("tasks.id").Scopes(ownedTasks(userID))
	res := db.Where("task_id = ? AND depends_on_task_id = ? AND task_id IN (?)", rel.TaskID, rel.DependsOnTaskID, owned).
		Delete(&models.TaskDependency{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("dependency not found")
	}

	logging.Logger.Infof("Event ID: DEPENDENCY_REMOVED, Description: Task %d no longer depends on task %d", rel.TaskID, rel.DependsOnTaskID)
	var task models.Task
	if err := db.Select("id", "project_id").First(&task, rel.TaskID).Error; err == nil {
		s.activity.Record(ctx, task.ProjectID, userID, models.ActivityRemoveDependency, &task.ID,
			fmt.Sprintf("Task %d no longer depends on task %d", rel.TaskID, rel.DependsOnTaskID))
	}
	return nil
}

func (s *DependencyService) GetDependencies(ctx context.Context, userID, taskID uint) (*models.TaskDependencies, error) {
	if _, err := findOwnedTask(ctx, s.db, userID, taskID); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	out := &models.TaskDependencies{
		Dependencies: []models.TaskDependency{},
		Dependents:   []models.TaskDependency{},
	}
	if err := db.Preload("DependsOnTask").Where("task_id = ?", taskID).Order("id").Find(&out.Dependencies).Error; err != nil {
		return nil, err
	}
	if err := db.Preload("Task").Where("depends_on_task_id = ?", taskID).Order("id").Find(&out.Dependents).Error; err != nil {
		return nil, err
	}
	return out, nil
}
