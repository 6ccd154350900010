package orchestrators

import (
	"context"
	"log/slog"
	"strings"

	"academy/internal/domain/course"
)

// CourseStoreForWrite defines the store interface needed by course mutations.
type CourseStoreForWrite interface {
	Replace(ctx context.Context, c course.Course) error
}

// AddModuleInput carries input for the add-module orchestrator.
type AddModuleInput struct {
	Course   course.Course `validate:"-"`
	Title    string        `form:"title" validate:"required"`
	Duration string        `form:"duration" validate:"required"`
}

// AddModuleDeps holds dependencies for AddModule.
type AddModuleDeps struct {
	CourseStore CourseStoreForWrite
	GenerateID  func() string
}

// ExecuteAddModule appends a new, empty module to a copy of the course and
// persists the whole course.
// PRE: input.Course is the caller's current snapshot
// POST: On success returns the updated course with the module appended last;
// on failure returns the zero course and input.Course is untouched
// INVARIANT: input.Course is never mutated
func ExecuteAddModule(ctx context.Context, input AddModuleInput, deps AddModuleDeps) (course.Course, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Duration = strings.TrimSpace(input.Duration)
	if err := validateInput(input); err != nil {
		return course.Course{}, err
	}

	id := deps.GenerateID()
	if _, _, exists := input.Course.FindModule(id); exists {
		return course.Course{}, &course.ValidationError{Field: "module_id", Message: "generated module ID already exists"}
	}

	m := course.Module{
		ID:        id,
		Title:     input.Title,
		Duration:  input.Duration,
		Completed: false,
		Content:   []course.Content{},
	}
	if err := m.Validate(); err != nil {
		return course.Course{}, err
	}

	updated := input.Course.WithModule(m)
	if err := deps.CourseStore.Replace(ctx, updated); err != nil {
		slog.Warn("course_event", "event", "module_add_failed", "course_id", updated.ID, "error", err)
		return course.Course{}, &course.PersistenceError{CourseID: updated.ID, Err: err}
	}

	slog.Info("course_event", "event", "module_added", "course_id", updated.ID, "module_id", m.ID, "position", len(updated.Modules))
	return updated, nil
}
