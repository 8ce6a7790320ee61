package handlers

import (
	"net/http"

	"github.com/afeibuhuifei/project-flow/interfaces"
	"github.com/afeibuhuifei/project-flow/logging"
	"github.com/afeibuhuifei/project-flow/models"
	"github.com/afeibuhuifei/project-flow/services"
	"github.com/afeibuhuifei/project-flow/services/commands"
	"github.com/afeibuhuifei/project-flow/services/queries"
)

type TaskHandler struct {
	base
	service      *services.TaskService
	dependencies *services.DependencyService
}

func NewTaskHandler(service *services.TaskService, dependencies *services.DependencyService, debug bool) *TaskHandler {
	return &TaskHandler{base: base{debug: debug}, service: service, dependencies: dependencies}
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.service.List(r.Context(), currentUserID(r), services.TaskListParams{
		Page:       queryInt(r, "page"),
		Limit:      queryInt(r, "limit"),
		ProjectID:  q.Get("projectId"),
		Status:     q.Get("status"),
		Priority:   q.Get("priority"),
		AssigneeID: q.Get("assigneeId"),
		Search:     q.Get("search"),
		SortBy:     q.Get("sortBy"),
		SortOrder:  q.Get("sortOrder"),
	})
	if err != nil {
		h.fail(w, r, err, "failed to list tasks")
		return
	}
	h.success(w, http.StatusOK, "tasks retrieved", list)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.badRequest(w, "invalid task id")
		return
	}

	task, err := h.service.Get(r.Context(), currentUserID(r), id)
	if err != nil {
		h.fail(w, r, err, "failed to get task")
		return
	}
	h.success(w, http.StatusOK, "task retrieved", map[string]interface{}{"task": task})
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.TaskInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}

	task, err := h.service.Create(r.Context(), currentUserID(r), in)
	if err != nil {
		h.fail(w, r, err, "failed to create task")
		return
	}
	h.success(w, http.StatusCreated, "task created", map[string]interface{}{"task": task})
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.badRequest(w, "invalid task id")
		return
	}
	var patch models.TaskPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}

	task, err := h.service.Update(r.Context(), currentUserID(r), id, patch)
	if err != nil {
		h.fail(w, r, err, "failed to update task")
		return
	}
	h.success(w, http.StatusOK, "task updated", map[string]interface{}{"task": task})
}

func (h *TaskHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.badRequest(w, "invalid task id")
		return
	}
	var body struct {
		Progress *int `json:"progress"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}

	task, err := h.service.UpdateProgress(r.Context(), currentUserID(r), id, body.Progress)
	if err != nil {
		h.fail(w, r, err, "failed to update task progress")
		return
	}
	h.success(w, http.StatusOK, "task progress updated", map[string]interface{}{"task": task})
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.badRequest(w, "invalid task id")
		return
	}

	if err := h.service.Delete(r.Context(), currentUserID(r), id); err != nil {
		h.fail(w, r, err, "failed to delete task")
		return
	}
	h.success(w, http.StatusOK, "task deleted", nil)
}

func (h *TaskHandler) BatchUpdate(w http.ResponseWriter, r *http.Request) {
	var req models.BatchUpdate
	if err := decodeJSON(w, r, &req); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}

	n, err := h.service.BatchUpdate(r.Context(), currentUserID(r), req)
	if err != nil {
		h.fail(w, r, err, "failed to update tasks")
		return
	}
	h.success(w, http.StatusOK, "tasks updated", map[string]interface{}{"updatedCount": n})
}

func (h *TaskHandler) AddDependency(w http.ResponseWriter, r *http.Request) {
	var relation models.TaskDependencyRelation
	if err := decodeJSON(w, r, &relation); err != nil {
		logging.Logger.Warnf("Event ID: DEPENDENCY_DECODE_FAILED, Description: Failed to decode request body: %v", err)
		h.badRequest(w, "invalid request body")
		return
	}

	handler := commands.NewAddDependencyHandler(h.dependencies)
	dep, err := handler.Handle(r.Context(), commands.AddDependencyCommand{UserID: currentUserID(r), Dependency: relation})
	if err != nil {
		h.fail(w, r, err, "failed to add dependency")
		return
	}
	h.success(w, http.StatusCreated, "dependency added", map[string]interface{}{"dependency": dep})
}

func (h *TaskHandler) RemoveDependency(w http.ResponseWriter, r *http.Request) {
	var relation models.TaskDependencyRelation
	if err := decodeJSON(w, r, &relation); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}

	handler := commands.NewRemoveDependencyHandler(h.dependencies)
	if err := handler.Handle(r.Context(), commands.RemoveDependencyCommand{UserID: currentUserID(r), Dependency: relation}); err != nil {
		h.fail(w, r, err, "failed to remove dependency")
		return
	}
	h.success(w, http.StatusOK, "dependency removed", nil)
}

func (h *TaskHandler) GetDependencies(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.badRequest(w, "invalid task id")
		return
	}

	var query interfaces.Query = &queries.GetDependenciesQuery{UserID: currentUserID(r), TaskID: id, Svc: h.dependencies}
	deps, err := query.Execute(r.Context())
	if err != nil {
		h.fail(w, r, err, "failed to get dependencies")
		return
	}
	h.success(w, http.StatusOK, "dependencies retrieved", deps)
}

func (h *TaskHandler) Gantt(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.Gantt(r.Context(), currentUserID(r), r.URL.Query().Get("projectId"))
	if err != nil {
		h.fail(w, r, err, "failed to build gantt data")
		return
	}
	h.success(w, http.StatusOK, "gantt data retrieved", map[string]interface{}{"tasks": records})
}

func (h *TaskHandler) Kanban(w http.ResponseWriter, r *http.Request) {
	columns, err := h.service.Kanban(r.Context(), currentUserID(r), r.URL.Query().Get("projectId"))
	if err != nil {
		h.fail(w, r, err, "failed to build kanban board")
		return
	}
	h.success(w, http.StatusOK, "kanban board retrieved", map[string]interface{}{"columns": columns})
}
