package orchestrators

import (
	"context"
	"log/slog"
	"strings"

	"academy/internal/domain/course"
)

// AddContentInput carries input for the add-content orchestrator.
type AddContentInput struct {
	Course      course.Course `validate:"-"`
	ModuleID    string        `form:"module_id" validate:"required"`
	Title       string        `form:"title" validate:"required"`
	Type        string        `form:"type" validate:"required,oneof=video reading quiz activity scenario"`
	Duration    string        `form:"duration"`
	ResourceURL string        `form:"resource_url"`
	Description string        `form:"description"`
}

// AddContentDeps holds dependencies for AddContent.
type AddContentDeps struct {
	CourseStore CourseStoreForWrite
	GenerateID  func() string
}

// ExecuteAddContent appends a content item to one module of a copy of the
// course and persists the whole course.
// PRE: input.Course is the caller's current snapshot
// POST: On success only the target module's content grows, by exactly one item;
// on failure returns the zero course and input.Course is untouched
// INVARIANT: input.Course is never mutated
func ExecuteAddContent(ctx context.Context, input AddContentInput, deps AddContentDeps) (course.Course, error) {
	input.ModuleID = strings.TrimSpace(input.ModuleID)
	input.Title = strings.TrimSpace(input.Title)
	input.Type = strings.TrimSpace(input.Type)
	input.Duration = strings.TrimSpace(input.Duration)
	input.ResourceURL = strings.TrimSpace(input.ResourceURL)
	input.Description = strings.TrimSpace(input.Description)
	if err := validateInput(input); err != nil {
		return course.Course{}, err
	}

	target, _, ok := input.Course.FindModule(input.ModuleID)
	if !ok {
		return course.Course{}, &course.ValidationError{Field: "module_id", Message: "module does not exist in this course"}
	}

	item := course.Content{
		ID:          deps.GenerateID(),
		Title:       input.Title,
		Type:        input.Type,
		Duration:    input.Duration,
		ResourceURL: input.ResourceURL,
		Description: input.Description,
	}
	for _, existing := range target.Content {
		if existing.ID == item.ID {
			return course.Course{}, &course.ValidationError{Field: "content_id", Message: "generated content ID already exists"}
		}
	}
	if err := item.Validate(); err != nil {
		return course.Course{}, err
	}

	updated, err := input.Course.WithContent(input.ModuleID, item)
	if err != nil {
		return course.Course{}, err
	}
	if err := deps.CourseStore.Replace(ctx, updated); err != nil {
		slog.Warn("course_event", "event", "content_add_failed", "course_id", updated.ID, "module_id", input.ModuleID, "error", err)
		return course.Course{}, &course.PersistenceError{CourseID: updated.ID, Err: err}
	}

	slog.Info("course_event", "event", "content_added", "course_id", updated.ID, "module_id", input.ModuleID, "content_id", item.ID, "type", item.Type)
	return updated, nil
}
