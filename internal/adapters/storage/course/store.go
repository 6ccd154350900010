package course

import (
	"context"

	domain "academy/internal/domain/course"
)

// ListFilter narrows a catalog listing. Empty fields match everything.
type ListFilter struct {
	Search   string // case-insensitive substring of title or description
	Category string
	Level    string
}

// Store persists Course aggregates. Replace overwrites the whole course,
// modules and content included; there is no partial update.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Course, error)
	Create(ctx context.Context, c domain.Course) error
	Replace(ctx context.Context, c domain.Course) error
	List(ctx context.Context, filter ListFilter) ([]domain.Course, error)
	ListCategories(ctx context.Context) ([]string, error)
}
