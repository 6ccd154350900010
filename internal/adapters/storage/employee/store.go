package employee

import (
	"context"

	domain "academy/internal/domain/employee"
)

// Store persists Employee state together with per-course progress records.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Employee, error)
	List(ctx context.Context) ([]domain.Employee, error)
	ListByCourse(ctx context.Context, courseID string) ([]domain.Employee, error)
	Save(ctx context.Context, value domain.Employee) error
}
