package task

import "fmt"

// Priority ranks a Task's urgency.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Priorities lists every valid Priority from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// IsValid returns true if the priority is one of the defined constants.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (p Priority) String() string {
	return string(p)
}

// ParsePriority converts the symbolic name of a priority into a Priority.
func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid priority %q, must be one of %s", s, PriorityNames())
	}
	return p, nil
}

// PriorityNames returns the valid priorities as a comma-separated list.
func PriorityNames() string {
	return joinNames(Priorities)
}
