package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/afeibuhuifei/project-flow/middleware"
	"github.com/afeibuhuifei/project-flow/utils"
)

// RouterDeps bundles the services the HTTP surface is built from.
type RouterDeps struct {
	Auth          *AuthHandler
	Projects      *ProjectHandler
	Tasks         *TaskHandler
	Files         *FileHandler
	Notifications *NotificationHandler
	Authenticator middleware.Authenticator
	CORSOrigin    string
	Debug         bool
}

func NewRouter(d RouterDeps) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteFailure(w, http.StatusNotFound, "endpoint not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteFailure(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", Health).Methods(http.MethodGet)
	api.HandleFunc("/auth/register", d.Auth.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", d.Auth.Login).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.JWTAuthMiddleware(d.Authenticator))

	protected.HandleFunc("/auth/me", d.Auth.Me).Methods(http.MethodGet)
	protected.HandleFunc("/auth/me", d.Auth.UpdateMe).Methods(http.MethodPut)
	protected.HandleFunc("/auth/change-password", d.Auth.ChangePassword).Methods(http.MethodPut)

	protected.HandleFunc("/projects", d.Projects.List).Methods(http.MethodGet)
	protected.HandleFunc("/projects", d.Projects.Create).Methods(http.MethodPost)
	protected.HandleFunc("/projects/{id:[0-9]+}", d.Projects.Get).Methods(http.MethodGet)
	protected.HandleFunc("/projects/{id:[0-9]+}", d.Projects.Update).Methods(http.MethodPut)
	protected.HandleFunc("/projects/{id:[0-9]+}", d.Projects.Delete).Methods(http.MethodDelete)
	protected.HandleFunc("/projects/{id:[0-9]+}/stats", d.Projects.Stats).Methods(http.MethodGet)
	protected.HandleFunc("/projects/{id:[0-9]+}/tasks", d.Projects.Tasks).Methods(http.MethodGet)
	protected.HandleFunc("/projects/{id:[0-9]+}/activity", d.Projects.Activity).Methods(http.MethodGet)

	// Literal task routes are registered ahead of /tasks/{id}.
	protected.HandleFunc("/tasks/batch-update", d.Tasks.BatchUpdate).Methods(http.MethodPatch)
	protected.HandleFunc("/tasks/dependencies", d.Tasks.AddDependency).Methods(http.MethodPost)
	protected.HandleFunc("/tasks/dependencies", d.Tasks.RemoveDependency).Methods(http.MethodDelete)
	protected.HandleFunc("/tasks/gantt", d.Tasks.Gantt).Methods(http.MethodGet)
	protected.HandleFunc("/tasks/kanban", d.Tasks.Kanban).Methods(http.MethodGet)
	protected.HandleFunc("/tasks", d.Tasks.List).Methods(http.MethodGet)
	protected.HandleFunc("/tasks", d.Tasks.Create).Methods(http.MethodPost)
	protected.HandleFunc("/tasks/{id:[0-9]+}", d.Tasks.Get).Methods(http.MethodGet)
	protected.HandleFunc("/tasks/{id:[0-9]+}", d.Tasks.Update).Methods(http.MethodPut)
	protected.HandleFunc("/tasks/{id:[0-9]+}", d.Tasks.Delete).Methods(http.MethodDelete)
	protected.HandleFunc("/tasks/{id:[0-9]+}/progress", d.Tasks.UpdateProgress).Methods(http.MethodPatch)
	protected.HandleFunc("/tasks/{id:[0-9]+}/dependencies", d.Tasks.GetDependencies).Methods(http.MethodGet)

	protected.HandleFunc("/files/upload", d.Files.Upload).Methods(http.MethodPost)
	protected.HandleFunc("/files/task/{taskId:[0-9]+}", d.Files.ListByTask).Methods(http.MethodGet)
	protected.HandleFunc("/files/download/{id:[0-9]+}", d.Files.Download).Methods(http.MethodGet)
	protected.HandleFunc("/files/preview/{id:[0-9]+}", d.Files.Preview).Methods(http.MethodGet)
	protected.HandleFunc("/files/{id:[0-9]+}", d.Files.Delete).Methods(http.MethodDelete)

	protected.HandleFunc("/notifications", d.Notifications.List).Methods(http.MethodGet)
	protected.HandleFunc("/notifications", d.Notifications.Delete).Methods(http.MethodDelete)
	protected.HandleFunc("/notifications/read", d.Notifications.MarkAsRead).Methods(http.MethodPut)

	var h http.Handler = r
	h = middleware.EnableCORS(d.CORSOrigin)(h)
	h = middleware.RequestLogger(h)
	h = middleware.Recoverer(d.Debug)(h)
	return h
}
