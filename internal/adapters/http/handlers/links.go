package handlers

import (
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/project-task-api/internal/adapters/http/dto"
	"github.com/jsamuelsen11/project-task-api/internal/domain/task"
)

// Resource collection paths.
const (
	pathProjects = "/projects"
	pathTasks    = "/tasks"
)

// linker builds absolute hrefs from the scheme and host the client used.
type linker struct {
	base string
}

func newLinker(r *http.Request) linker {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}
	return linker{base: scheme + "://" + r.Host}
}

func (l linker) link(path string) dto.Link {
	return dto.Link{Href: l.base + path}
}

func (l linker) projects() dto.Link {
	return l.link(pathProjects)
}

func (l linker) project(id uuid.UUID) dto.Link {
	return l.link(pathProjects + "/" + id.String())
}

func (l linker) task(id uuid.UUID) dto.Link {
	return l.link(pathTasks + "/" + id.String())
}

// tasks links to the task collection narrowed by filter. A zero filter
// links to every task.
func (l linker) tasks(filter task.Filter) dto.Link {
	if filter.IsEmpty() {
		return l.link(pathTasks)
	}

	q := url.Values{}
	if filter.Status != nil {
		q.Set(dto.QueryStatus, filter.Status.String())
	}
	if filter.Priority != nil {
		q.Set(dto.QueryPriority, filter.Priority.String())
	}
	if filter.ProjectID != nil {
		q.Set(dto.QueryProjectID, filter.ProjectID.String())
	}
	return l.link(pathTasks + "?" + q.Encode())
}

func (l linker) projectLinks(p *dto.ProjectResponse) dto.Links {
	return dto.Links{
		dto.RelSelf:        l.project(p.ID),
		dto.RelAllProjects: l.projects(),
		dto.RelTasks:       l.tasks(task.Filter{ProjectID: &p.ID}),
	}
}

func (l linker) taskLinks(t *dto.TaskResponse) dto.Links {
	return dto.Links{
		dto.RelSelf:     l.task(t.ID),
		dto.RelAllTasks: l.tasks(task.Filter{}),
		dto.RelProject:  l.project(t.ProjectID),
	}
}
