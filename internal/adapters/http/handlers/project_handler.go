// Package handlers provides HTTP request handlers for the service's API endpoints.
package handlers

import (
	"net/http"

	"github.com/jsamuelsen11/project-task-api/internal/adapters/http/dto"
	"github.com/jsamuelsen11/project-task-api/internal/domain/project"
	"github.com/jsamuelsen11/project-task-api/internal/ports"
)

// ProjectHandler handles HTTP requests for project CRUD operations.
type ProjectHandler struct {
	svc ports.ProjectService
}

// NewProjectHandler creates a new ProjectHandler with the given service port.
func NewProjectHandler(svc ports.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// ListProjects handles GET /projects.
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.svc.ListProjects(r.Context())
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	links := newLinker(r)
	items := make([]dto.ProjectResponse, len(projects))
	for i := range projects {
		items[i] = dto.ToProjectResponse(&projects[i])
		items[i].Links = dto.Links{dto.RelSelf: links.project(items[i].ID)}
	}

	writeHAL(w, r, http.StatusOK, dto.ProjectCollection{
		Embedded: dto.ProjectList{Projects: items},
		Links:    dto.Links{dto.RelSelf: links.projects()},
	})
}

// CreateProject handles POST /projects.
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req dto.ProjectRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	p, err := toNewProject(&req)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	created, err := h.svc.CreateProject(r.Context(), p)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeHAL(w, r, http.StatusCreated, projectResource(r, created))
}

// GetProject handles GET /projects/{id}.
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	p, err := h.svc.GetProject(r.Context(), id)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeHAL(w, r, http.StatusOK, projectResource(r, p))
}

// UpdateProject handles PUT /projects/{id}. The request replaces every
// mutable field, so omitted optional fields are cleared.
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.ProjectRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	changes, err := toNewProject(&req)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	updated, err := h.svc.UpdateProject(r.Context(), id, changes)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeHAL(w, r, http.StatusOK, projectResource(r, updated))
}

// DeleteProject handles DELETE /projects/{id}.
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	if err := h.svc.DeleteProject(r.Context(), id); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func projectResource(r *http.Request, p *project.Project) dto.ProjectResponse {
	resp := dto.ToProjectResponse(p)
	resp.Links = newLinker(r).projectLinks(&resp)
	return resp
}
