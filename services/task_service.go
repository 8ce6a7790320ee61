package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/afeibuhuifei/project-flow/interfaces"
	"github.com/afeibuhuifei/project-flow/logging"
	"github.com/afeibuhuifei/project-flow/models"
)

const (
	maxTaskTitle       = 200
	maxTaskDescription = 2000
	defaultTaskLimit   = 20
)

// taskSortColumns maps accepted sortBy values to columns.
var taskSortColumns = map[string]string{
	"id":        "id",
	"title":     "title",
	"status":    "status",
	"priority":  "priority",
	"startDate": "start_date",
	"endDate":   "end_date",
	"progress":  "progress",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

type TaskService struct {
	db            *gorm.DB
	activity      *ActivityFeed
	notifications *NotificationService
	files         interfaces.FileStore
}

func NewTaskService(db *gorm.DB, activity *ActivityFeed, notifications *NotificationService, files interfaces.FileStore) *TaskService {
	return &TaskService{db: db, activity: activity, notifications: notifications, files: files}
}

// TaskListParams carries raw query values; "all" or empty disables a filter.
type TaskListParams struct {
	Page       int
	Limit      int
	ProjectID  string
	Status     string
	Priority   string
	AssigneeID string
	Search     string
	SortBy     string
	SortOrder  string
}

type TaskList struct {
	Tasks      []models.Task `json:"tasks"`
	Pagination Pagination    `json:"pagination"`
}

func active(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && v != "all"
}

func (s *TaskService) List(ctx context.Context, userID uint, p TaskListParams) (*TaskList, error) {
	page, limit := normalizePage(p.Page, p.Limit, defaultTaskLimit)
	db := s.db.WithContext(ctx)

	v := &validator{}
	var projectID, assigneeID uint64
	var err error
	if active(p.ProjectID) {
		projectID, err = strconv.ParseUint(strings.TrimSpace(p.ProjectID), 10, 32)
		v.check(err == nil && projectID > 0, "projectId", "projectId must be a positive integer")
	}
	if active(p.AssigneeID) {
		assigneeID, err = strconv.ParseUint(strings.TrimSpace(p.AssigneeID), 10, 32)
		v.check(err == nil && assigneeID > 0, "assigneeId", "assigneeId must be a positive integer")
	}
	if active(p.Status) {
		v.check(models.TaskStatus(p.Status).Valid(), "status", "invalid task status")
	}
	if active(p.Priority) {
		v.check(models.TaskPriority(p.Priority).Valid(), "priority", "invalid task priority")
	}
	sortBy := p.SortBy
	if sortBy == "" {
		sortBy = "createdAt"
	}
	column, ok := taskSortColumns[sortBy]
	v.check(ok, "sortBy", "unsupported sort field")
	desc := true
	switch strings.ToLower(p.SortOrder) {
	case "", "desc":
	case "asc":
		desc = false
	default:
		v.add("sortOrder", "sortOrder must be asc or desc")
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	if projectID > 0 {
		if _, err := findOwnedProject(ctx, s.db, userID, uint(projectID)); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, invalid("projectId", "project not found or access denied")
			}
			return nil, err
		}
	}

	search := strings.TrimSpace(p.Search)
	query := func() *gorm.DB {
		q := db.Model(&models.Task{}).Scopes(ownedTasks(userID))
		if projectID > 0 {
			q = q.Where("tasks.project_id = ?", projectID)
		}
		if active(p.Status) {
			q = q.Where("tasks.status = ?", p.Status)
		}
		if active(p.Priority) {
			q = q.Where("tasks.priority = ?", p.Priority)
		}
		if assigneeID > 0 {
			q = q.Where("tasks.assignee_id = ?", assigneeID)
		}
		if search != "" {
			q = q.Scopes(searchText(search, "tasks.title", "tasks.description"))
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, err
	}

	tasks := []models.Task{}
	err = query().
		Scopes(withTaskRelations, paginate(page, limit)).
		Order(clause.OrderByColumn{Column: clause.Column{Table: "tasks", Name: column}, Desc: desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Table: "tasks", Name: "id"}, Desc: desc}).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	if err := attachFileCounts(db, tasks); err != nil {
		return nil, err
	}

	return &TaskList{Tasks: tasks, Pagination: newPagination(page, limit, total)}, nil
}

func (s *TaskService) Get(ctx context.Context, userID, taskID uint) (*models.Task, error) {
	var task models.Task
	db := s.db.WithContext(ctx)
	err := db.Scopes(ownedTasks(userID), withTaskRelations).
		Preload("Files", func(db *gorm.DB) *gorm.DB { return db.Order("task_files.created_at DESC") }).
		Preload("Files.Uploader").
		First(&task, taskID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("task not found")
	}
	if err != nil {
		return nil, err
	}
	task.FileCount = int64(len(task.Files))
	return &task, nil
}

func (s *TaskService) Create(ctx context.Context, userID uint, in models.TaskInput) (*models.Task, error) {
	v := &validator{}
	title := strings.TrimSpace(in.Title)
	checkText(v, "title", title, true, maxTaskTitle)
	description := descriptionPtr(in.Description)
	if description != nil {
		checkText(v, "description", *description, false, maxTaskDescription)
	}
	status := in.Status
	if status == "" {
		status = models.StatusTodo
	}
	v.check(status.Valid(), "status", "invalid task status")
	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	v.check(priority.Valid(), "priority", "invalid task priority")
	start := parseDateField(v, "startDate", in.StartDate)
	end := parseDateField(v, "endDate", in.EndDate)
	checkDateOrder(v, start, end)
	progress := 0
	if in.Progress != nil {
		progress = *in.Progress
		v.check(progress >= models.MinProgress && progress <= models.MaxProgress, "progress", "progress must be between 0 and 100")
	}
	v.check(in.ProjectID > 0, "projectId", "projectId must be a positive integer")
	if in.AssigneeID != nil {
		v.check(*in.AssigneeID > 0, "assigneeId", "assigneeId must be a positive integer")
	}
	if in.ParentTaskID != nil {
		v.check(*in.ParentTaskID > 0, "parentTaskId", "parentTaskId must be a positive integer")
	}
	for _, id := range in.Dependencies {
		if id == 0 {
			v.add("dependencies", "dependency ids must be positive integers")
			break
		}
	}
	if err := v.err(); err != nil {
		return nil, err
	}
	if status == models.StatusCompleted {
		progress = models.MaxProgress
	}

	task := &models.Task{
		Title:        title,
		Description:  description,
		Status:       status,
		Priority:     priority,
		StartDate:    start,
		EndDate:      end,
		Progress:     progress,
		ProjectID:    in.ProjectID,
		AssigneeID:   in.AssigneeID,
		ParentTaskID: in.ParentTaskID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findOwnedProject(ctx, tx, userID, in.ProjectID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return invalid("projectId", "project not found or access denied")
			}
			return err
		}
		if err := s.checkReferences(ctx, tx, userID, 0, in.AssigneeID, in.ParentTaskID); err != nil {
			return err
		}

		// Omit associations so a nil Project is not upserted.
		if err := tx.Omit(clause.Associations).Create(task).Error; err != nil {
			return err
		}

		seen := make(map[uint]bool, len(in.Dependencies))
		for _, depID := range in.Dependencies {
			if seen[depID] {
				continue
			}
			seen[depID] = true
			rel := models.TaskDependencyRelation{TaskID: task.ID, DependsOnTaskID: depID}
			if _, err := addEdge(ctx, tx, userID, rel); err != nil {
				var ve ValidationErrors
				if errors.As(err, &ve) {
					return invalid("dependencies", fmt.Sprintf("dependency %d: %s", depID, ve[0].Message))
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	created, err := s.Get(ctx, userID, task.ID)
	if err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %d created in project %d by user %d", created.ID, created.ProjectID, userID)
	s.activity.Record(ctx, created.ProjectID, userID, models.ActivityCreateTask, &created.ID, fmt.Sprintf("Task %q created", created.Title))
	s.notifications.NotifyAssignment(ctx, userID, created.Assignee, created)
	return created, nil
}

// checkReferences validates assignee and parent ids. A zero selfID skips the
// self-parent check.
func (s *TaskService) checkReferences(ctx context.Context, tx *gorm.DB, userID, selfID uint, assigneeID, parentID *uint) error {
	if assigneeID != nil {
		ok, err := userExists(ctx, tx, *assigneeID)
		if err != nil {
			return err
		}
		if !ok {
			return invalid("assigneeId", "assignee not found")
		}
	}
	if parentID != nil {
		if selfID != 0 && *parentID == selfID {
			return invalid("parentTaskId", "a task cannot be its own parent")
		}
		ok, err := ownsTask(ctx, tx, userID, *parentID)
		if err != nil {
			return err
		}
		if !ok {
			return invalid("parentTaskId", "parent task not found or access denied")
		}
	}
	return nil
}

func (s *TaskService) Update(ctx context.Context, userID, taskID uint, patch models.TaskPatch) (*models.Task, error) {
	task, err := findOwnedTask(ctx, s.db, userID, taskID)
	if err != nil {
		return nil, err
	}
	before := *task

	v := &validator{}
	updates := map[string]interface{}{}

	if patch.Title.Set {
		title := strings.TrimSpace(patch.Title.Value)
		checkText(v, "title", title, true, maxTaskTitle)
		updates["title"] = title
		task.Title = title
	}
	if patch.Description.Set {
		description := descriptionPtr(patch.Description.Ptr())
		if description != nil {
			checkText(v, "description", *description, false, maxTaskDescription)
		}
		updates["description"] = description
	}
	if patch.Status.Set {
		v.check(patch.Status.Present() && patch.Status.Value.Valid(), "status", "invalid task status")
		updates["status"] = patch.Status.Value
		task.Status = patch.Status.Value
	}
	if patch.Priority.Set {
		v.check(patch.Priority.Present() && patch.Priority.Value.Valid(), "priority", "invalid task priority")
		updates["priority"] = patch.Priority.Value
	}
	if patch.StartDate.Set {
		task.StartDate = parseDateField(v, "startDate", patch.StartDate.Ptr())
		updates["start_date"] = task.StartDate
	}
	if patch.EndDate.Set {
		task.EndDate = parseDateField(v, "endDate", patch.EndDate.Ptr())
		updates["end_date"] = task.EndDate
	}
	checkDateOrder(v, task.StartDate, task.EndDate)
	if patch.Progress.Set {
		p := patch.Progress.Value
		v.check(patch.Progress.Present() && p >= models.MinProgress && p <= models.MaxProgress, "progress", "progress must be between 0 and 100")
		updates["progress"] = p
	}

	var assigneeID, parentID *uint
	if patch.AssigneeID.Set {
		if patch.AssigneeID.Present() && patch.AssigneeID.Value > 0 {
			assigneeID = patch.AssigneeID.Ptr()
		}
		updates["assignee_id"] = assigneeID
	}
	if patch.ParentTaskID.Set {
		if patch.ParentTaskID.Present() && patch.ParentTaskID.Value > 0 {
			parentID = patch.ParentTaskID.Ptr()
		}
		updates["parent_task_id"] = parentID
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	if patch.Status.Set && task.Status == models.StatusCompleted {
		updates["progress"] = models.MaxProgress
	}

	if len(updates) > 0 {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := s.checkReferences(ctx, tx, userID, task.ID, assigneeID, parentID); err != nil {
				return err
			}
			return tx.Model(&models.Task{ID: task.ID}).Updates(updates).Error
		})
		if err != nil {
			return nil, err
		}
	}

	updated, err := s.Get(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		logging.Logger.Infof("Event ID: TASK_UPDATED, Description: Task %d updated by user %d", taskID, userID)
		kind, details := models.ActivityUpdateTask, fmt.Sprintf("Task %q updated", updated.Title)
		if updated.Status != before.Status {
			kind, details = models.ActivityChangeTaskStatus, fmt.Sprintf("Task %q moved from %s to %s", updated.Title, before.Status, updated.Status)
		}
		s.activity.Record(ctx, updated.ProjectID, userID, kind, &updated.ID, details)
	}
	if assigneeID != nil && (before.AssigneeID == nil || *before.AssigneeID != *assigneeID) {
		s.notifications.NotifyAssignment(ctx, userID, updated.Assignee, updated)
	}
	return updated, nil
}

// UpdateProgress sets progress alone; status is left as is.
func (s *TaskService) UpdateProgress(ctx context.Context, userID, taskID uint, progress *int) (*models.Task, error) {
	if progress == nil {
		return nil, invalid("progress", "progress is required")
	}
	if *progress < models.MinProgress || *progress > models.MaxProgress {
		return nil, invalid("progress", "progress must be between 0 and 100")
	}
	return s.Update(ctx, userID, taskID, models.TaskPatch{Progress: models.Value(*progress)})
}

// BatchUpdate sets status on many tasks in one statement. Tasks outside the
// caller's projects are skipped.
func (s *TaskService) BatchUpdate(ctx context.Context, userID uint, req models.BatchUpdate) (int64, error) {
	v := &validator{}
	v.check(len(req.TaskIDs) > 0, "taskIds", "taskIds must not be empty")
	for _, id := range req.TaskIDs {
		if id == 0 {
			v.add("taskIds", "task ids must be positive integers")
			break
		}
	}
	v.check(req.Status.Valid(), "status", "invalid task status")
	if req.Progress != nil {
		v.check(*req.Progress >= models.MinProgress && *req.Progress <= models.MaxProgress, "progress", "progress must be between 0 and 100")
	}
	if err := v.err(); err != nil {
		return 0, err
	}

	updates := map[string]interface{}{"status": req.Status}
	switch {
	case req.Status == models.StatusCompleted:
		updates["progress"] = models.MaxProgress
	case req.Progress != nil:
		updates["progress"] = *req.Progress
	}

	res := s.db.WithContext(ctx).Model(&models.Task{}).
		Scopes(ownedTasks(userID)).
		Where("tasks.id IN ?", req.TaskIDs).
		Updates(updates)
	if res.Error != nil {
		return 0, res.Error
	}

	logging.Logger.Infof("Event ID: TASKS_BATCH_UPDATED, Description: %d tasks set to %s by user %d", res.RowsAffected, req.Status, userID)
	return res.RowsAffected, nil
}

// Delete removes a task with its edges and files; subtasks are detached.
func (s *TaskService) Delete(ctx context.Context, userID, taskID uint) error {
	var (
		task  *models.Task
		paths []string
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if task, err = findOwnedTask(ctx, tx, userID, taskID); err != nil {
			return err
		}
		paths, err = deleteTaskRows(tx, []uint{taskID})
		return err
	})
	if err != nil {
		return err
	}

	removeFiles(s.files, paths)
	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Task %d deleted by user %d", taskID, userID)
	s.activity.Record(ctx, task.ProjectID, userID, models.ActivityDeleteTask, &task.ID, fmt.Sprintf("Task %q deleted", task.Title))
	return nil
}

// chartTasks loads the tasks feeding the Gantt and Kanban views.
func (s *TaskService) chartTasks(ctx context.Context, userID uint, projectID string) ([]models.Task, error) {
	list, err := s.List(ctx, userID, TaskListParams{
		Page:      1,
		Limit:     maxPageLimit,
		ProjectID: projectID,
		SortBy:    "createdAt",
		SortOrder: "asc",
	})
	if err != nil {
		return nil, err
	}
	tasks := list.Tasks
	for page := 2; page <= list.Pagination.Pages; page++ {
		next, err := s.List(ctx, userID, TaskListParams{
			Page:      page,
			Limit:     maxPageLimit,
			ProjectID: projectID,
			SortBy:    "createdAt",
			SortOrder: "asc",
		})
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, next.Tasks...)
	}
	return tasks, nil
}

func (s *TaskService) Gantt(ctx context.Context, userID uint, projectID string) ([]models.GanttTask, error) {
	tasks, err := s.chartTasks(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	return ToGantt(tasks), nil
}

func (s *TaskService) Kanban(ctx context.Context, userID uint, projectID string) ([]models.KanbanColumn, error) {
	tasks, err := s.chartTasks(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	return ToKanban(tasks), nil
}
