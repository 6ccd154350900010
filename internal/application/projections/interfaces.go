package projections

import (
	"context"

	courseStore "academy/internal/adapters/storage/course"
	"academy/internal/domain/course"
	"academy/internal/domain/employee"
)

// CourseStore interface for course queries.
type CourseStore interface {
	GetByID(ctx context.Context, id string) (course.Course, error)
	List(ctx context.Context, filter courseStore.ListFilter) ([]course.Course, error)
	ListCategories(ctx context.Context) ([]string, error)
}

// EmployeeStore interface for employee queries.
type EmployeeStore interface {
	List(ctx context.Context) ([]employee.Employee, error)
	ListByCourse(ctx context.Context, courseID string) ([]employee.Employee, error)
}
