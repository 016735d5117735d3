package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jsamuelsen11/project-task-api/internal/domain"
)

// Error categories reported in the "error" field of an ErrorResponse.
const (
	CategoryNotFound    = "Resource Not Found"
	CategoryBadRequest  = "Bad Request"
	CategoryValidation  = "Validation Error"
	CategoryConflict    = "Data Integrity Violation"
	CategoryUnavailable = "Service Unavailable"
	CategoryInternal    = "Internal Server Error"
	CategoryTooMany     = "Too Many Requests"
	CategoryTimeout     = "Gateway Timeout"
	CategoryNoRoute     = "Not Found"
	CategoryNotAllowed  = "Method Not Allowed"
)

// Fixed messages for errors whose details are not exposed to clients.
const (
	MsgConflict    = "Operation could not be completed. It may be caused by an attempt to delete a resource that is still referenced by another."
	MsgInternal    = "An unexpected error occurred."
	MsgUnavailable = "The database is temporarily unavailable. Please retry later."
)

// ErrorResponse is the body written for every failed request.
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}

// NewErrorResponse builds an ErrorResponse from a domain error. The request
// supplies the path.
func NewErrorResponse(r *http.Request, err error) ErrorResponse {
	status, category, message := describe(err)
	return newResponse(r, status, category, message)
}

// WriteErrorResponse translates err into its status code and error body.
// Errors that map to a 5xx status are logged with their full chain since
// the body carries only a generic message.
func WriteErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	resp := NewErrorResponse(r, err)

	if resp.Status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			slog.Int("status", resp.Status),
			slog.String("path", resp.Path),
			slog.Any("error", err),
		)
	}

	write(w, r, resp)
}

// WriteError writes an error body for failures that do not originate from
// a domain error, such as an unknown route or an exhausted rate limit.
func WriteError(w http.ResponseWriter, r *http.Request, status int, category, message string) {
	write(w, r, newResponse(r, status, category, message))
}

func newResponse(r *http.Request, status int, category, message string) ErrorResponse {
	return ErrorResponse{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     category,
		Message:   message,
		Path:      r.URL.Path,
	}
}

func write(w http.ResponseWriter, r *http.Request, resp ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)

	if encErr := json.NewEncoder(w).Encode(resp); encErr != nil {
		slog.ErrorContext(r.Context(), "failed to encode error response",
			slog.Any("error", encErr),
		)
	}
}

// describe maps a domain error to its status code, category and client
// message. The innermost typed error supplies the message so that wrapping
// context added by lower layers is not exposed.
func describe(err error) (int, string, string) {
	var (
		verr *domain.ValidationError
		rerr *domain.RuleError
		nerr *domain.NotFoundError
	)

	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, CategoryValidation, ValidationMessage(verr)
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, CategoryValidation, err.Error()
	case errors.As(err, &nerr):
		return http.StatusNotFound, CategoryNotFound, nerr.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, CategoryNotFound, err.Error()
	case errors.As(err, &rerr):
		return http.StatusBadRequest, CategoryBadRequest, rerr.Message
	case errors.Is(err, domain.ErrBusinessRule):
		return http.StatusBadRequest, CategoryBadRequest, err.Error()
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, CategoryConflict, MsgConflict
	case errors.Is(err, domain.ErrUnavailable):
		return http.StatusServiceUnavailable, CategoryUnavailable, MsgUnavailable
	default:
		return http.StatusInternalServerError, CategoryInternal, MsgInternal
	}
}

// ValidationMessage aggregates every field failure into one sentence list:
//
//	Validation failed. Field 'name': is required. Field 'title': ...
func ValidationMessage(verr *domain.ValidationError) string {
	var b strings.Builder
	b.WriteString("Validation failed.")
	for _, field := range verr.SortedFields() {
		fmt.Fprintf(&b, " Field '%s': %s.", field, verr.Fields[field])
	}
	return b.String()
}
