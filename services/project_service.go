package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/afeibuhuifei/project-flow/interfaces"
	"github.com/afeibuhuifei/project-flow/logging"
	"github.com/afeibuhuifei/project-flow/models"
)

const (
	maxProjectName        = 100
	maxProjectDescription = 1000
	defaultProjectLimit   = 10
)

type ProjectService struct {
	db       *gorm.DB
	activity *ActivityFeed
	files    interfaces.FileStore
	now      func() time.Time
}

func NewProjectService(db *gorm.DB, activity *ActivityFeed, files interfaces.FileStore) *ProjectService {
	return &ProjectService{db: db, activity: activity, files: files, now: time.Now}
}

type ProjectListParams struct {
	Page   int
	Limit  int
	Status string
	Search string
}

type ProjectList struct {
	Projects   []models.Project `json:"projects"`
	Pagination Pagination       `json:"pagination"`
}

func (s *ProjectService) List(ctx context.Context, userID uint, p ProjectListParams) (*ProjectList, error) {
	page, limit := normalizePage(p.Page, p.Limit, defaultProjectLimit)
	db := s.db.WithContext(ctx)

	status := strings.TrimSpace(p.Status)
	if status != "" && status != "all" && !models.ProjectStatus(status).Valid() {
		return nil, invalid("status", "invalid project status")
	}
	search := strings.TrimSpace(p.Search)

	query := func() *gorm.DB {
		q := db.Model(&models.Project{}).Scopes(ownedProjects(userID))
		if status != "" && status != "all" {
			q = q.Where("status = ?", status)
		}
		if search != "" {
			q = q.Scopes(searchText(search, "name", "description"))
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, err
	}

	projects := []models.Project{}
	if err := query().Order("updated_at DESC").Order("id DESC").Scopes(paginate(page, limit)).Find(&projects).Error; err != nil {
		return nil, err
	}
	if err := s.attachTaskStats(db, projects); err != nil {
		return nil, err
	}

	return &ProjectList{Projects: projects, Pagination: newPagination(page, limit, total)}, nil
}

// attachTaskStats sums task rows per project and status.
func (s *ProjectService) attachTaskStats(db *gorm.DB, projects []models.Project) error {
	if len(projects) == 0 {
		return nil
	}
	ids := make([]uint, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}

	var rows []struct {
		ProjectID uint
		Status    models.TaskStatus
		N         int
	}
	err := db.Model(&models.Task{}).
		Select("project_id, status, COUNT(*) AS n").
		Where("project_id IN ?", ids).
		Group("project_id, status").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	stats := make(map[uint]*models.TaskStats, len(projects))
	for i := range projects {
		projects[i].TaskStats = &models.TaskStats{}
		stats[projects[i].ID] = projects[i].TaskStats
	}
	for _, r := range rows {
		stats[r.ProjectID].Add(r.Status, r.N)
	}
	for i := range projects {
		projects[i].TaskCount = int64(projects[i].TaskStats.Total)
	}
	return nil
}

func (s *ProjectService) Get(ctx context.Context, userID, projectID uint) (*models.Project, error) {
	var project models.Project
	err := s.db.WithContext(ctx).
		Scopes(ownedProjects(userID)).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("tasks.created_at DESC").Order("tasks.id DESC") }).
		Preload("Tasks.Assignee").
		Preload("Tasks.Dependencies.DependsOnTask").
		Preload("Tasks.Dependents.Task").
		First(&project, projectID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("project not found")
	}
	if err != nil {
		return nil, err
	}

	stats := CountByStatus(project.Tasks)
	project.TaskStats = &stats
	project.TaskCount = int64(stats.Total)
	return &project, nil
}

func (s *ProjectService) Create(ctx context.Context, userID uint, in models.ProjectInput) (*models.Project, error) {
	v := &validator{}
	name := strings.TrimSpace(in.Name)
	checkText(v, "name", name, true, maxProjectName)
	description := descriptionPtr(in.Description)
	if description != nil {
		checkText(v, "description", *description, false, maxProjectDescription)
	}
	status := in.Status
	if status == "" {
		status = models.ProjectActive
	}
	v.check(status.Valid(), "status", "invalid project status")
	start := parseDateField(v, "startDate", in.StartDate)
	end := parseDateField(v, "endDate", in.EndDate)
	checkDateOrder(v, start, end)
	if err := v.err(); err != nil {
		return nil, err
	}

	project := &models.Project{
		Name:        name,
		Description: description,
		Status:      status,
		StartDate:   start,
		EndDate:     end,
		OwnerID:     userID,
	}
	if err := s.db.WithContext(ctx).Create(project).Error; err != nil {
		return nil, err
	}
	project.TaskStats = &models.TaskStats{}

	logging.Logger.Infof("Event ID: PROJECT_CREATED, Description: Project %d created by user %d", project.ID, userID)
	s.activity.Record(ctx, project.ID, userID, models.ActivityCreateProject, nil, fmt.Sprintf("Project %q created", project.Name))
	return project, nil
}

func (s *ProjectService) Update(ctx context.Context, userID, projectID uint, patch models.ProjectPatch) (*models.Project, error) {
	project, err := findOwnedProject(ctx, s.db, userID, projectID)
	if err != nil {
		return nil, err
	}

	v := &validator{}
	updates := map[string]interface{}{}

	if patch.Name.Set {
		name := strings.TrimSpace(patch.Name.Value)
		checkText(v, "name", name, true, maxProjectName)
		updates["name"] = name
		project.Name = name
	}
	if patch.Description.Set {
		description := descriptionPtr(patch.Description.Ptr())
		if description != nil {
			checkText(v, "description", *description, false, maxProjectDescription)
		}
		updates["description"] = description
		project.Description = description
	}
	if patch.Status.Set {
		v.check(patch.Status.Present() && patch.Status.Value.Valid(), "status", "invalid project status")
		updates["status"] = patch.Status.Value
		project.Status = patch.Status.Value
	}
	if patch.StartDate.Set {
		project.StartDate = parseDateField(v, "startDate", patch.StartDate.Ptr())
		updates["start_date"] = project.StartDate
	}
	if patch.EndDate.Set {
		project.EndDate = parseDateField(v, "endDate", patch.EndDate.Ptr())
		updates["end_date"] = project.EndDate
	}
	checkDateOrder(v, project.StartDate, project.EndDate)
	if err := v.err(); err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(project).Updates(updates).Error; err != nil {
			return nil, err
		}
		logging.Logger.Infof("Event ID: PROJECT_UPDATED, Description: Project %d updated by user %d", project.ID, userID)
		s.activity.Record(ctx, project.ID, userID, models.ActivityUpdateProject, nil, fmt.Sprintf("Project %q updated", project.Name))
	}
	return s.Get(ctx, userID, projectID)
}

// Delete removes a project with all its tasks, their edges and files.
func (s *ProjectService) Delete(ctx context.Context, userID, projectID uint) error {
	var paths []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project models.Project
		err := tx.Scopes(ownedProjects(userID)).First(&project, projectID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("project not found")
		}
		if err != nil {
			return err
		}

		var taskIDs []uint
		if err := tx.Model(&models.Task{}).Where("project_id = ?", projectID).Pluck("id", &taskIDs).Error; err != nil {
			return err
		}
		if paths, err = deleteTaskRows(tx, taskIDs); err != nil {
			return err
		}
		return tx.Delete(&project).Error
	})
	if err != nil {
		return err
	}

	removeFiles(s.files, paths)
	logging.Logger.Infof("Event ID: PROJECT_DELETED, Description: Project %d deleted by user %d", projectID, userID)
	return nil
}

func (s *ProjectService) Stats(ctx context.Context, userID, projectID uint) (*ProjectStats, error) {
	project, err := findOwnedProject(ctx, s.db, userID, projectID)
	if err != nil {
		return nil, err
	}

	var tasks []models.Task
	if err := s.db.WithContext(ctx).Preload("Assignee").Where("project_id = ?", projectID).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return Aggregate(project, tasks, s.now()), nil
}

// Tasks lists every task of an owned project, newest first.
func (s *ProjectService) Tasks(ctx context.Context, userID, projectID uint) ([]models.Task, error) {
	if _, err := findOwnedProject(ctx, s.db, userID, projectID); err != nil {
		return nil, err
	}

	tasks := []models.Task{}
	db := s.db.WithContext(ctx)
	err := db.Scopes(withTaskRelations).
		Where("project_id = ?", projectID).
		Order("created_at DESC").Order("id DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	if err := attachFileCounts(db, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *ProjectService) Activity(ctx context.Context, userID, projectID uint, limit int) ([]models.ProjectActivity, error) {
	if _, err := findOwnedProject(ctx, s.db, userID, projectID); err != nil {
		return nil, err
	}
	return s.activity.List(ctx, projectID, limit)
}
