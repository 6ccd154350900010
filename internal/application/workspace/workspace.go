// Package workspace is the page-level container for one viewer's course: it
// owns the course snapshot, the session completion overlay and the two add
// forms, and only advances the snapshot after the store confirms a save.
package workspace

import (
	"context"
	"slices"
	"sync"

	"academy/internal/application/orchestrators"
	"academy/internal/application/projections"
	"academy/internal/domain/completion"
	"academy/internal/domain/course"
	"academy/internal/domain/employee"
)

// CourseStore is the catalog access a workspace needs.
type CourseStore interface {
	GetByID(ctx context.Context, id string) (course.Course, error)
	Replace(ctx context.Context, c course.Course) error
}

// Deps holds the collaborators shared by every workspace.
type Deps struct {
	CourseStore CourseStore
	GenerateID  func() string
}

// ModuleDraft is the add-module form input.
type ModuleDraft struct {
	Title    string `json:"title"`
	Duration string `json:"duration"`
}

// ContentDraft is the add-content form input.
type ContentDraft struct {
	ModuleID    string `json:"module_id"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	Duration    string `json:"duration,omitempty"`
	ResourceURL string `json:"resource_url,omitempty"`
	Description string `json:"description,omitempty"`
}

// Workspace is safe for concurrent use.
type Workspace struct {
	deps Deps

	mu          sync.Mutex
	course      course.Course
	overlay     completion.Overlay
	moduleForm  Form[ModuleDraft]
	contentForm Form[ContentDraft]

	// saveMu orders store writes across both forms, and refreshes with them,
	// so each save starts from the snapshot the previous one committed.
	saveMu sync.Mutex
}

// View is a point-in-time copy of the workspace for rendering.
type View struct {
	Course      course.Course          `json:"course"`
	Overlay     completion.Overlay     `json:"overlay"`
	ModuleForm  FormView[ModuleDraft]  `json:"module_form"`
	ContentForm FormView[ContentDraft] `json:"content_form"`
}

// New creates a workspace around c with a fresh overlay.
func New(c course.Course, deps Deps) *Workspace {
	c = c.Clone()
	return &Workspace{
		deps:    deps,
		course:  c,
		overlay: completion.NewOverlay(c.ModuleIDs()),
	}
}

// Course returns a copy of the current snapshot.
func (w *Workspace) Course() course.Course {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.course.Clone()
}

// View returns copies of the snapshot, overlay and form states.
func (w *Workspace) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()
	return View{
		Course:      w.course.Clone(),
		Overlay:     w.overlay.Clone(),
		ModuleForm:  w.moduleForm.View(),
		ContentForm: w.contentForm.View(),
	}
}

// SetCourse replaces the snapshot. The overlay is reset when the course or
// its module ID sequence changed.
func (w *Workspace) SetCourse(c course.Course) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.setCourseLocked(c)
}

func (w *Workspace) setCourseLocked(c course.Course) {
	ids := c.ModuleIDs()
	if c.ID != w.course.ID || !slices.Equal(ids, w.course.ModuleIDs()) {
		w.overlay.Reset(ids)
	}
	w.course = c.Clone()
}

// Refresh reloads the snapshot from the store. It waits for an in-flight save
// so a read taken before that save commits cannot replace its result.
func (w *Workspace) Refresh(ctx context.Context) error {
	w.saveMu.Lock()
	defer w.saveMu.Unlock()

	id := w.Course().ID
	c, err := w.deps.CourseStore.GetByID(ctx, id)
	if err != nil {
		return err
	}
	w.SetCourse(c)
	return nil
}

// ToggleCompletion flips the session-local flag for moduleID and returns the new value.
// Unknown IDs are accepted and create an entry.
func (w *Workspace) ToggleCompletion(moduleID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.overlay.Toggle(moduleID)
}

// OpenModuleForm opens the add-module form.
func (w *Workspace) OpenModuleForm() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.moduleForm.Open()
}

// CancelModuleForm closes the add-module form, discarding its draft.
func (w *Workspace) CancelModuleForm() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.moduleForm.Cancel()
}

// OpenContentForm opens the add-content form, optionally preselecting a module.
func (w *Workspace) OpenContentForm(moduleID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	wasIdle := w.contentForm.State() == Idle
	if err := w.contentForm.Open(); err != nil {
		return err
	}
	if wasIdle || moduleID != "" {
		w.contentForm.draft.ModuleID = moduleID
	}
	return nil
}

// CancelContentForm closes the add-content form, discarding its draft.
func (w *Workspace) CancelContentForm() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.contentForm.Cancel()
}

// SubmitModule saves a new module.
// PRE: none; submitting from Idle opens the form implicitly
// POST: On success the snapshot holds the new module and the form is Idle.
// On failure the snapshot is unchanged and the form is Editing with the error.
// A submit while the form is Saving returns ErrSaveInFlight without a store call.
func (w *Workspace) SubmitModule(ctx context.Context, draft ModuleDraft) (course.Course, error) {
	w.mu.Lock()
	if err := w.moduleForm.begin(draft); err != nil {
		w.mu.Unlock()
		return course.Course{}, err
	}
	w.mu.Unlock()

	w.saveMu.Lock()
	defer w.saveMu.Unlock()

	updated, err := orchestrators.ExecuteAddModule(ctx, orchestrators.AddModuleInput{
		Course:   w.Course(),
		Title:    draft.Title,
		Duration: draft.Duration,
	}, orchestrators.AddModuleDeps{CourseStore: w.deps.CourseStore, GenerateID: w.deps.GenerateID})

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.moduleForm.fail(err)
		return course.Course{}, err
	}
	w.setCourseLocked(updated)
	w.moduleForm.succeed()
	return updated.Clone(), nil
}

// SubmitContent saves a new content item. Same commit rules as SubmitModule.
func (w *Workspace) SubmitContent(ctx context.Context, draft ContentDraft) (course.Course, error) {
	w.mu.Lock()
	if err := w.contentForm.begin(draft); err != nil {
		w.mu.Unlock()
		return course.Course{}, err
	}
	w.mu.Unlock()

	w.saveMu.Lock()
	defer w.saveMu.Unlock()

	updated, err := orchestrators.ExecuteAddContent(ctx, orchestrators.AddContentInput{
		Course:      w.Course(),
		ModuleID:    draft.ModuleID,
		Title:       draft.Title,
		Type:        draft.Type,
		Duration:    draft.Duration,
		ResourceURL: draft.ResourceURL,
		Description: draft.Description,
	}, orchestrators.AddContentDeps{CourseStore: w.deps.CourseStore, GenerateID: w.deps.GenerateID})

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.contentForm.fail(err)
		return course.Course{}, err
	}
	w.setCourseLocked(updated)
	w.contentForm.succeed()
	return updated.Clone(), nil
}

// SetModuleCompleted persists a module's durable completion flag. The overlay is untouched.
func (w *Workspace) SetModuleCompleted(ctx context.Context, moduleID string, completed bool) (course.Course, error) {
	w.saveMu.Lock()
	defer w.saveMu.Unlock()

	updated, err := orchestrators.ExecuteSetModuleCompleted(ctx, orchestrators.SetModuleCompletedInput{
		Course:    w.Course(),
		ModuleID:  moduleID,
		Completed: completed,
	}, orchestrators.SetModuleCompletedDeps{CourseStore: w.deps.CourseStore})
	if err != nil {
		return course.Course{}, err
	}
	w.SetCourse(updated)
	return updated, nil
}

// Stats derives the audience read model for the current snapshot.
func (w *Workspace) Stats(employees []employee.Employee, all []course.Course) projections.CourseDetail {
	return projections.BuildCourseDetail(w.Course(), employees, all)
}
