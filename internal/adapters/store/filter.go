package store

import (
	"fmt"
	"strings"

	"github.com/jsamuelsen11/project-task-api/internal/domain/task"
)

// Placeholder renders the n-th (1-based) bind parameter for a SQL dialect.
type Placeholder func(n int) string

// DollarPlaceholder renders PostgreSQL-style "$n" parameters.
func DollarPlaceholder(n int) string { return fmt.Sprintf("$%d", n) }

// QuestionPlaceholder renders SQLite-style "?" parameters.
func QuestionPlaceholder(int) string { return "?" }

// TaskQuery is the FROM/JOIN/WHERE tail of a filtered task select.
type TaskQuery struct {
	From string
	Args []any
}

// BuildTaskQuery turns the filter's clauses into SQL. Tasks are aliased as
// "t"; a project clause joins the project table as "p" and constrains its
// primary key. Clauses are combined with AND, and an empty filter produces
// no WHERE clause at all.
func BuildTaskQuery(taskTable, projectTable string, filter task.Filter, ph Placeholder) TaskQuery {
	var (
		from       strings.Builder
		conditions []string
		args       []any
	)

	fmt.Fprintf(&from, "%s t", taskTable)

	for _, c := range filter.Clauses() {
		args = append(args, c.Value)
		param := ph(len(args))

		switch c.Field {
		case task.FieldStatus:
			conditions = append(conditions, "t.status = "+param)
		case task.FieldPriority:
			conditions = append(conditions, "t.priority = "+param)
		case task.FieldProjectID:
			fmt.Fprintf(&from, " INNER JOIN %s p ON p.id = t.project_id", projectTable)
			conditions = append(conditions, "p.id = "+param)
		}
	}

	if len(conditions) > 0 {
		from.WriteString(" WHERE ")
		from.WriteString(strings.Join(conditions, " AND "))
	}

	return TaskQuery{From: from.String(), Args: args}
}

// Qualify prefixes each column in a comma-separated list with alias.
func Qualify(alias, columns string) string {
	cols := strings.Split(columns, ",")
	for i, c := range cols {
		cols[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}
