// Package http provides the inbound HTTP adapter including routing and server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/project-task-api/internal/adapters/http/dto"
	"github.com/jsamuelsen11/project-task-api/internal/adapters/http/handlers"
)

// NewRouter creates an HTTP handler with all application routes registered.
// Middleware is applied globally in the order given.
func NewRouter(
	projectHandler *handlers.ProjectHandler,
	taskHandler *handlers.TaskHandler,
	healthHandler *handlers.HealthHandler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		dto.WriteError(w, r, http.StatusNotFound, dto.CategoryNoRoute, "No route for "+r.Method+" "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		dto.WriteError(w, r, http.StatusMethodNotAllowed, dto.CategoryNotAllowed,
			"Method "+r.Method+" is not supported for "+r.URL.Path)
	})

	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	r.Get("/projects", projectHandler.ListProjects)
	r.Post("/projects", projectHandler.CreateProject)
	r.Get("/projects/{id}", projectHandler.GetProject)
	r.Put("/projects/{id}", projectHandler.UpdateProject)
	r.Delete("/projects/{id}", projectHandler.DeleteProject)

	r.Get("/tasks", taskHandler.ListTasks)
	r.Post("/tasks", taskHandler.CreateTask)
	r.Get("/tasks/{id}", taskHandler.GetTask)
	r.Put("/tasks/{id}", taskHandler.UpdateTask)
	r.Patch("/tasks/{id}/status", taskHandler.UpdateTaskStatus)
	r.Delete("/tasks/{id}", taskHandler.DeleteTask)

	return r
}
