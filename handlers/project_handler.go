package handlers

import (
	"net/http"

	"github.com/afeibuhuifei/project-flow/models"
	"github.com/afeibuhuifei/project-flow/services"
)

type ProjectHandler struct {
	base
	service *services.ProjectService
}

func NewProjectHandler(service *services.ProjectService, debug bool) *ProjectHandler {
	return &ProjectHandler{base: base{debug: debug}, service: service}
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.service.List(r.Context(), currentUserID(r), services.ProjectListParams{
		Page:   queryInt(r, "page"),
		Limit:  queryInt(r, "limit"),
		Status: q.Get("status"),
		Search: q.Get("search"),
	})
	if err != nil {
		h.fail(w, r, err, "failed to list projects")
		return
	}
	h.success(w, http.StatusOK, "projects retrieved", list)
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.badRequest(w, "invalid project id")
		return
	}

	project, err := h.service.Get(r.Context(), currentUserID(r), id)
	if err != nil {
		h.fail(w, r, err, "failed to get project")
		return
	}
	h.success(w, http.StatusOK, "project retrieved", map[string]interface{}{"project": project})
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.ProjectInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}

	project, err := h.service.Create(r.Context(), currentUserID(r), in)
	if err != nil {
		h.fail(w, r, err, "failed to create project")
		return
	}
	h.success(w, http.StatusCreated, "project created", map[string]interface{}{"project": project})
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.badRequest(w, "invalid project id")
		return
	}
	var patch models.ProjectPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}

	project, err := h.service.Update(r.Context(), currentUserID(r), id, patch)
	if err != nil {
		h.fail(w, r, err, "failed to update project")
		return
	}
	h.success(w, http.StatusOK, "project updated", map[string]interface{}{"project": project})
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.badRequest(w, "invalid project id")
		return
	}

	if err := h.service.Delete(r.Context(), currentUserID(r), id); err != nil {
		h.fail(w, r, err, "failed to delete project")
		return
	}
	h.success(w, http.StatusOK, "project deleted", nil)
}

func (h *ProjectHandler) Stats(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.badRequest(w, "invalid project id")
		return
	}

	stats, err := h.service.Stats(r.Context(), currentUserID(r), id)
	if err != nil {
		h.fail(w, r, err, "failed to compute project stats")
		return
	}
	h.success(w, http.StatusOK, "project stats retrieved", map[string]interface{}{"stats": stats})
}

func (h *ProjectHandler) Tasks(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.badRequest(w, "invalid project id")
		return
	}

	tasks, err := h.service.Tasks(r.Context(), currentUserID(r), id)
	if err != nil {
		h.fail(w, r, err, "failed to list project tasks")
		return
	}
	h.success(w, http.StatusOK, "project tasks retrieved", map[string]interface{}{"tasks": tasks})
}

func (h *ProjectHandler) Activity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.badRequest(w, "invalid project id")
		return
	}

	activities, err := h.service.Activity(r.Context(), currentUserID(r), id, queryInt(r, "limit"))
	if err != nil {
		h.fail(w, r, err, "failed to load project activity")
		return
	}
	h.success(w, http.StatusOK, "project activity retrieved", map[string]interface{}{"activities": activities})
}
