package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"academy/internal/domain/access"
	"academy/internal/domain/course"
	"academy/internal/domain/employee"
)

// CourseStoreForRead defines the course lookup needed by read-side workflows.
type CourseStoreForRead interface {
	GetByID(ctx context.Context, id string) (course.Course, error)
}

// EmployeeStoreForRead defines the employee lookup needed by read-side workflows.
type EmployeeStoreForRead interface {
	GetByID(ctx context.Context, id string) (employee.Employee, error)
}

// ResolveDirectAccessInput carries the two identifiers from the access path.
type ResolveDirectAccessInput struct {
	CourseID   string
	EmployeeID string
}

// ResolveDirectAccessDeps holds dependencies for ResolveDirectAccess.
type ResolveDirectAccessDeps struct {
	CourseStore   CourseStoreForRead
	EmployeeStore EmployeeStoreForRead
	Now           func() time.Time
}

// DirectAccessResult is what the entry point applies on success.
type DirectAccessResult struct {
	Markers    []access.Marker
	RedirectTo string
	Course     course.Course
	Employee   employee.Employee
}

// ExecuteResolveDirectAccess maps a (course, employee) pair to session markers
// and a redirect to the course detail view.
// PRE: none; identifiers come straight from the request path
// POST: On success returns both markers expiring Now()+7d and the redirect target;
// on failure returns access.ErrInvalidLink, access.ErrNotFound or a wrapped store error,
// with no markers and no redirect
func ExecuteResolveDirectAccess(ctx context.Context, input ResolveDirectAccessInput, deps ResolveDirectAccessDeps) (DirectAccessResult, error) {
	link := access.Link{
		CourseID:   input.CourseID,
		EmployeeID: input.EmployeeID,
	}
	if err := link.Validate(); err != nil {
		slog.Info("access_event", "event", "access_rejected", "reason", "invalid_link")
		return DirectAccessResult{}, err
	}

	c, err := deps.CourseStore.GetByID(ctx, link.CourseID)
	if errors.Is(err, course.ErrNotFound) {
		slog.Info("access_event", "event", "access_rejected", "reason", "course_not_found", "course_id", link.CourseID)
		return DirectAccessResult{}, access.ErrNotFound
	}
	if err != nil {
		return DirectAccessResult{}, fmt.Errorf("look up course %s: %w", link.CourseID, err)
	}

	e, err := deps.EmployeeStore.GetByID(ctx, link.EmployeeID)
	if errors.Is(err, employee.ErrNotFound) {
		slog.Info("access_event", "event", "access_rejected", "reason", "employee_not_found", "employee_id", link.EmployeeID)
		return DirectAccessResult{}, access.ErrNotFound
	}
	if err != nil {
		return DirectAccessResult{}, fmt.Errorf("look up employee %s: %w", link.EmployeeID, err)
	}

	slog.Info("access_event", "event", "access_granted", "course_id", link.CourseID, "employee_id", link.EmployeeID)
	return DirectAccessResult{
		Markers:    access.NewMarkers(link, deps.Now()),
		RedirectTo: access.CourseDetailPath(link.CourseID),
		Course:     c,
		Employee:   e,
	}, nil
}
