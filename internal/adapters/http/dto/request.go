package dto

import (
	"errors"
	"net/url"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/jsamuelsen11/project-task-api/internal/domain"
	"github.com/jsamuelsen11/project-task-api/internal/domain/project"
	"github.com/jsamuelsen11/project-task-api/internal/domain/task"
)

// Query parameters accepted by the task list endpoint.
const (
	QueryStatus    = "status"
	QueryPriority  = "priority"
	QueryProjectID = "projectId"
)

const (
	msgInvalidDate = "must be a valid date in YYYY-MM-DD format"
	msgInvalidUUID = "must be a valid UUID"
	msgInvalidEnum = "must be one of: "
)

// ProjectRequest is the JSON body for creating or replacing a project.
// Dates are calendar dates in YYYY-MM-DD format; empty means unset.
type ProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
}

// Validate checks the structural rules of the request.
// Returns a *domain.ValidationError if any checks fail.
func (r *ProjectRequest) Validate() error {
	return toValidationError(validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required.Error(domain.MsgRequired),
			validation.RuneLength(project.NameMinLength, project.NameMaxLength),
		),
		validation.Field(&r.StartDate, validation.Date(domain.DateLayout).Error(msgInvalidDate)),
		validation.Field(&r.EndDate, validation.Date(domain.DateLayout).Error(msgInvalidDate)),
	))
}

// TaskRequest is the JSON body for creating or replacing a task. Every
// field except description is mandatory.
type TaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	DueDate     string `json:"dueDate"`
	ProjectID   string `json:"projectId"`
}

// Validate checks the structural rules of the request.
// Returns a *domain.ValidationError if any checks fail.
func (r *TaskRequest) Validate() error {
	return toValidationError(validation.ValidateStruct(r,
		validation.Field(&r.Title,
			validation.Required.Error(domain.MsgRequired),
			validation.RuneLength(task.TitleMinLength, task.TitleMaxLength),
		),
		validation.Field(&r.Description, validation.RuneLength(0, task.DescriptionMaxLength)),
		validation.Field(&r.Status, validation.Required.Error(domain.MsgRequired), statusRule),
		validation.Field(&r.Priority, validation.Required.Error(domain.MsgRequired), priorityRule),
		validation.Field(&r.DueDate,
			validation.Required.Error(domain.MsgRequired),
			validation.Date(domain.DateLayout).Error(msgInvalidDate),
		),
		validation.Field(&r.ProjectID, validation.Required.Error(domain.MsgRequired), uuidRule),
	))
}

// TaskStatusRequest is the JSON body for changing only a task's status.
type TaskStatusRequest struct {
	Status string `json:"status"`
}

// Validate checks that a known status is present.
func (r *TaskStatusRequest) Validate() error {
	return toValidationError(validation.ValidateStruct(r,
		validation.Field(&r.Status, validation.Required.Error(domain.MsgRequired), statusRule),
	))
}

// ParseTaskFilter reads the optional status, priority and projectId query
// parameters. Absent or empty parameters leave the matching filter field
// nil. Returns a *domain.ValidationError for unknown values.
func ParseTaskFilter(q url.Values) (task.Filter, error) {
	status := q.Get(QueryStatus)
	priority := q.Get(QueryPriority)
	projectID := q.Get(QueryProjectID)

	err := validation.Errors{
		QueryStatus:    validation.Validate(status, statusRule),
		QueryPriority:  validation.Validate(priority, priorityRule),
		QueryProjectID: validation.Validate(projectID, uuidRule),
	}.Filter()
	if err != nil {
		return task.Filter{}, toValidationError(err)
	}

	var filter task.Filter
	if status != "" {
		s := task.Status(status)
		filter.Status = &s
	}
	if priority != "" {
		p := task.Priority(priority)
		filter.Priority = &p
	}
	if projectID != "" {
		id := uuid.MustParse(projectID)
		filter.ProjectID = &id
	}
	return filter, nil
}

var (
	statusRule   = validation.In(enumValues(task.Statuses)...).Error(msgInvalidEnum + task.StatusNames())
	priorityRule = validation.In(enumValues(task.Priorities)...).Error(msgInvalidEnum + task.PriorityNames())
	uuidRule     = validation.By(func(v any) error {
		s, _ := v.(string)
		if s == "" {
			return nil
		}
		if _, err := uuid.Parse(s); err != nil {
			return errors.New(msgInvalidUUID)
		}
		return nil
	})
)

// enumValues converts typed enum constants to the plain strings that arrive
// in requests so that validation.In can compare them.
func enumValues[T ~string](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// toValidationError converts ozzo field errors into a *domain.ValidationError.
// Any other error is returned unchanged.
func toValidationError(err error) error {
	if err == nil {
		return nil
	}

	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err
	}

	fields := make(map[string]string, len(errs))
	for field, ferr := range errs {
		fields[field] = ferr.Error()
	}
	return &domain.ValidationError{Fields: fields}
}
