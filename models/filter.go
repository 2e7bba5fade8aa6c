package models

import (
	"strings"

	"gorm.io/gorm"
)

// ListFilter narrows a todo listing by status and/or priority. Empty
// fields mean "match everything" for that dimension. Filter values are
// lower-cased but deliberately not checked against the enum sets: an
// unknown value matches no rows instead of being rejected.
type ListFilter struct {
	Status   string
	Priority string
}

// BuildListFilter builds a filter from raw query parameters. An empty
// string means the parameter was absent.
func BuildListFilter(status, priority string) ListFilter {
	return ListFilter{
		Status:   strings.ToLower(status),
		Priority: strings.ToLower(priority),
	}
}

// Matches reports whether the todo satisfies the filter.
func (f ListFilter) Matches(todo Todo) bool {
	if f.Status != "" && string(todo.Status) != f.Status {
		return false
	}
	if f.Priority != "" && string(todo.Priority) != f.Priority {
		return false
	}
	return true
}

// Scope applies the filter to a query as WHERE clauses.
func (f ListFilter) Scope(query *gorm.DB) *gorm.DB {
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.Priority != "" {
		query = query.Where("priority = ?", f.Priority)
	}
	return query
}
