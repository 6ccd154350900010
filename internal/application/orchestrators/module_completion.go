package orchestrators

import (
	"context"
	"log/slog"

	"academy/internal/domain/course"
)

// SetModuleCompletedInput carries input for the durable completion orchestrator.
type SetModuleCompletedInput struct {
	Course    course.Course
	ModuleID  string
	Completed bool
}

// SetModuleCompletedDeps holds dependencies for SetModuleCompleted.
type SetModuleCompletedDeps struct {
	CourseStore CourseStoreForWrite
}

// ExecuteSetModuleCompleted writes a module's persisted completion flag.
// It is unrelated to the session-local completion overlay.
// PRE: ModuleID exists in input.Course
// POST: On success returns the updated course; on failure input.Course is untouched
func ExecuteSetModuleCompleted(ctx context.Context, input SetModuleCompletedInput, deps SetModuleCompletedDeps) (course.Course, error) {
	updated, err := input.Course.WithModuleCompleted(input.ModuleID, input.Completed)
	if err != nil {
		return course.Course{}, &course.ValidationError{Field: "module_id", Message: "module does not exist in this course"}
	}
	if err := deps.CourseStore.Replace(ctx, updated); err != nil {
		return course.Course{}, &course.PersistenceError{CourseID: updated.ID, Err: err}
	}

	slog.Info("course_event", "event", "module_completion_set", "course_id", updated.ID, "module_id", input.ModuleID, "completed", input.Completed)
	return updated, nil
}
