package task

import (
	"fmt"
	"strings"
)

// Status represents where a Task sits in its workflow.
// Any status may move to any other; DONE is not terminal.
type Status string

const (
	StatusTodo  Status = "TODO"
	StatusDoing Status = "DOING"
	StatusDone  Status = "DONE"
)

// Statuses lists every valid Status in workflow order.
var Statuses = []Status{StatusTodo, StatusDoing, StatusDone}

// IsValid returns true if the status is one of the defined constants.
func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusDoing, StatusDone:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}

// ParseStatus converts the symbolic name of a status into a Status.
// Matching is exact: "done" is rejected.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", fmt.Errorf("invalid status %q, must be one of %s", s, StatusNames())
	}
	return st, nil
}

// StatusNames returns the valid statuses as a comma-separated list.
func StatusNames() string {
	return joinNames(Statuses)
}

func joinNames[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
