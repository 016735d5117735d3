package handlers

import (
	"net/http"

	"github.com/jsamuelsen11/project-task-api/internal/adapters/http/dto"
	"github.com/jsamuelsen11/project-task-api/internal/domain/task"
	"github.com/jsamuelsen11/project-task-api/internal/ports"
)

// TaskHandler handles HTTP requests for task operations.
type TaskHandler struct {
	svc ports.TaskService
}

// NewTaskHandler creates a new TaskHandler with the given service port.
func NewTaskHandler(svc ports.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// ListTasks handles GET /tasks with optional status, priority and projectId
// filters. The collection's self link repeats the active filters.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	filter, err := dto.ParseTaskFilter(r.URL.Query())
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	tasks, err := h.svc.ListTasks(r.Context(), filter)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	links := newLinker(r)
	items := make([]dto.TaskResponse, len(tasks))
	for i := range tasks {
		items[i] = dto.ToTaskResponse(&tasks[i])
		items[i].Links = dto.Links{
			dto.RelSelf:    links.task(items[i].ID),
			dto.RelProject: links.project(items[i].ProjectID),
		}
	}

	writeHAL(w, r, http.StatusOK, dto.TaskCollection{
		Embedded: dto.TaskList{Tasks: items},
		Links:    dto.Links{dto.RelSelf: links.tasks(filter)},
	})
}

// CreateTask handles POST /tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req dto.TaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	t, err := toNewTask(&req)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	created, err := h.svc.CreateTask(r.Context(), t)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeHAL(w, r, http.StatusCreated, taskResource(r, created))
}

// GetTask handles GET /tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	t, err := h.svc.GetTask(r.Context(), id)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeHAL(w, r, http.StatusOK, taskResource(r, t))
}

// UpdateTask handles PUT /tasks/{id}. A projectId different from the
// task's current project moves the task.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.TaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	changes, err := toNewTask(&req)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	updated, err := h.svc.UpdateTask(r.Context(), id, changes)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeHAL(w, r, http.StatusOK, taskResource(r, updated))
}

// UpdateTaskStatus handles PATCH /tasks/{id}/status.
func (h *TaskHandler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.TaskStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updated, err := h.svc.UpdateTaskStatus(r.Context(), id, task.Status(req.Status))
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeHAL(w, r, http.StatusOK, taskResource(r, updated))
}

// DeleteTask handles DELETE /tasks/{id}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	if err := h.svc.DeleteTask(r.Context(), id); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func taskResource(r *http.Request, t *task.Task) dto.TaskResponse {
	resp := dto.ToTaskResponse(t)
	resp.Links = newLinker(r).taskLinks(&resp)
	return resp
}
