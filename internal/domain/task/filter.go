package task

import "github.com/google/uuid"

// Filter holds optional filter criteria for listing tasks.
// A nil field means "no filter" for that dimension.
type Filter struct {
	Status    *Status
	Priority  *Priority
	ProjectID *uuid.UUID
}

// Field identifies the task attribute a Clause constrains.
type Field string

const (
	FieldStatus    Field = "status"
	FieldPriority  Field = "priority"
	FieldProjectID Field = "project_id"
)

// Clause is a single equality predicate. Stores combine clauses with AND.
type Clause struct {
	Field Field
	Value string
}

// IsEmpty reports whether the filter constrains nothing.
func (f Filter) IsEmpty() bool {
	return f.Status == nil && f.Priority == nil && f.ProjectID == nil
}

// Clauses returns one equality clause per non-nil field, in a fixed order.
// An empty result means the query is unconstrained.
func (f Filter) Clauses() []Clause {
	clauses := make([]Clause, 0, 3)
	if f.Status != nil {
		clauses = append(clauses, Clause{Field: FieldStatus, Value: f.Status.String()})
	}
	if f.Priority != nil {
		clauses = append(clauses, Clause{Field: FieldPriority, Value: f.Priority.String()})
	}
	if f.ProjectID != nil {
		clauses = append(clauses, Clause{Field: FieldProjectID, Value: f.ProjectID.String()})
	}
	return clauses
}
