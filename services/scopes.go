package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/afeibuhuifei/project-flow/models"
	"github.com/afeibuhuifei/project-flow/utils"
)

// Pagination is the page block of every list response.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

const maxPageLimit = 100

func newPagination(page, limit int, total int64) Pagination {
	return Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: int(math.Ceil(float64(total) / float64(limit))),
	}
}

func normalizePage(page, limit, defLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func paginate(page, limit int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset((page - 1) * limit).Limit(limit)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// searchText matches search literally, as a substring of any of columns.
func searchText(search string, columns ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		pattern := "%" + likeEscaper.Replace(search) + "%"
		conds := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, c := range columns {
			conds[i] = c + ` LIKE ? ESCAPE '\'`
			args[i] = pattern
		}
		return db.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
}

// ownedProjects restricts a project query to the caller's projects.
func ownedProjects(userID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("projects.owner_id = ?", userID)
	}
}

// ownedTasks restricts a task query to tasks of the caller's projects.
func ownedTasks(userID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		owned := db.Session(&gorm.Session{NewDB: true}).
			Model(&models.Project{}).Select("id").Where("owner_id = ?", userID)
		return db.Where("tasks.project_id IN (?)", owned)
	}
}

func findOwnedProject(ctx context.Context, db *gorm.DB, userID, projectID uint) (*models.Project, error) {
	var project models.Project
	err := db.WithContext(ctx).Scopes(ownedProjects(userID)).First(&project, projectID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("project not found")
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func findOwnedTask(ctx context.Context, db *gorm.DB, userID, taskID uint) (*models.Task, error) {
	var task models.Task
	err := db.WithContext(ctx).Scopes(ownedTasks(userID)).First(&task, taskID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("task not found")
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// ownsTask reports whether taskID exists inside one of the caller's projects.
func ownsTask(ctx context.Context, db *gorm.DB, userID, taskID uint) (bool, error) {
	return exists(db.WithContext(ctx).Model(&models.Task{}).Scopes(ownedTasks(userID)).Where("tasks.id = ?", taskID))
}

func userExists(ctx context.Context, db *gorm.DB, userID uint) (bool, error) {
	return exists(db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID))
}

func checkText(v *validator, field, value string, required bool, max int) {
	if required && strings.TrimSpace(value) == "" {
		v.add(field, field+" is required")
		return
	}
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("%s must be at most %d characters", field, max))
	}
}

// parseDateField parses an optional date, recording a field error on a bad value.
func parseDateField(v *validator, field string, raw *string) *time.Time {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil
	}
	t, err := utils.ParseDate(*raw)
	if err != nil {
		v.add(field, field+" is not a valid date")
		return nil
	}
	return &t
}

func checkDateOrder(v *validator, start, end *time.Time) {
	if start != nil && end != nil && start.After(*end) {
		v.add("endDate", "endDate must not be before startDate")
	}
}

func descriptionPtr(s *string) *string {
	if s == nil {
		return nil
	}
	d := strings.TrimSpace(*s)
	if d == "" {
		return nil
	}
	return &d
}
