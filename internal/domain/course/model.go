package course

import (
	"errors"
	"strings"

	"academy/internal/domain/access"
)

// Content type constants
const (
	ContentVideo    = "video"
	ContentReading  = "reading"
	ContentQuiz     = "quiz"
	ContentActivity = "activity"
	ContentScenario = "scenario"
)

// ContentTypes is the closed set of content types, in display order.
var ContentTypes = []string{ContentVideo, ContentReading, ContentQuiz, ContentActivity, ContentScenario}

// ContentTypeLabels maps a content type to its display label.
var ContentTypeLabels = map[string]string{
	ContentVideo:    "Video",
	ContentReading:  "Reading",
	ContentQuiz:     "Quiz",
	ContentActivity: "Activity",
	ContentScenario: "Scenario",
}

// Levels offered by the catalog filter.
var Levels = []string{"Beginner", "Intermediate", "Advanced"}

// Domain errors
var (
	ErrEmptyID          = errors.New("course ID cannot be empty")
	ErrInvalidID        = errors.New("course ID cannot contain '/', whitespace or control characters, or exceed 128 bytes")
	ErrEmptyTitle       = errors.New("course title cannot be empty")
	ErrDuplicateModule  = errors.New("module IDs must be unique within a course")
	ErrDuplicateContent = errors.New("content IDs must be unique within a module")
	ErrModuleNotFound   = errors.New("module not found in course")
)

// Course is a catalog entry with an ordered sequence of modules.
type Course struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Level       string   `json:"level"`
	Duration    string   `json:"duration"`
	Modules     []Module `json:"modules"`
}

// Module is a named unit of a course. Completed is the durable flag; session-local
// completion lives in the completion overlay.
type Module struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Duration     string    `json:"duration"`
	Completed    bool      `json:"completed"`
	Content      []Content `json:"content"`
	ResourceType string    `json:"resource_type,omitempty"`
}

// Content is a single typed learning asset within a module.
type Content struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	Duration    string `json:"duration,omitempty"`
	ResourceURL string `json:"resource_url,omitempty"`
	Description string `json:"description,omitempty"`
}

// Validate checks if the Course has valid data.
// PRE: Course struct is populated
// POST: Returns nil if valid, error otherwise
func (c *Course) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return ErrEmptyID
	}
	if !access.ValidIdentifier(c.ID) {
		return ErrInvalidID
	}
	if strings.TrimSpace(c.Title) == "" {
		return ErrEmptyTitle
	}
	seen := make(map[string]bool, len(c.Modules))
	for _, m := range c.Modules {
		if seen[m.ID] {
			return ErrDuplicateModule
		}
		seen[m.ID] = true
		if err := m.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks module-level invariants.
// PRE: Module struct is populated
// POST: Returns nil if valid, error otherwise
func (m *Module) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return &ValidationError{Field: "module_id", Message: "module ID cannot be empty"}
	}
	if strings.TrimSpace(m.Title) == "" {
		return &ValidationError{Field: "title", Message: "module title cannot be empty"}
	}
	if m.ResourceType != "" && !IsValidContentType(m.ResourceType) {
		return &ValidationError{Field: "resource_type", Message: "resource type must be one of: " + strings.Join(ContentTypes, ", ")}
	}
	seen := make(map[string]bool, len(m.Content))
	for _, c := range m.Content {
		if seen[c.ID] {
			return ErrDuplicateContent
		}
		seen[c.ID] = true
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks content-level invariants.
// PRE: Content struct is populated
// POST: Returns nil if valid, error otherwise
func (c *Content) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return &ValidationError{Field: "title", Message: "content title cannot be empty"}
	}
	if !IsValidContentType(c.Type) {
		return &ValidationError{Field: "type", Message: "content type must be one of: " + strings.Join(ContentTypes, ", ")}
	}
	return nil
}

// IsValidContentType reports whether t belongs to the closed content type set.
func IsValidContentType(t string) bool {
	for _, v := range ContentTypes {
		if v == t {
			return true
		}
	}
	return false
}

// FindModule returns the module with the given ID and its position.
// INVARIANT: Course is not mutated
func (c Course) FindModule(moduleID string) (Module, int, bool) {
	for i, m := range c.Modules {
		if m.ID == moduleID {
			return m, i, true
		}
	}
	return Module{}, -1, false
}

// ModuleIDs returns the module IDs in display order.
func (c Course) ModuleIDs() []string {
	ids := make([]string, len(c.Modules))
	for i, m := range c.Modules {
		ids[i] = m.ID
	}
	return ids
}

// Clone returns a deep copy so callers can derive a new aggregate without
// touching the original's slices.
func (c Course) Clone() Course {
	out := c
	if c.Modules != nil {
		out.Modules = make([]Module, len(c.Modules))
		for i, m := range c.Modules {
			out.Modules[i] = m.clone()
		}
	}
	return out
}

func (m Module) clone() Module {
	out := m
	if m.Content != nil {
		out.Content = make([]Content, len(m.Content))
		copy(out.Content, m.Content)
	}
	return out
}

// WithModule returns a copy of the course with m appended last.
// POST: original course unchanged; len(result.Modules) == len(c.Modules)+1
func (c Course) WithModule(m Module) Course {
	out := c.Clone()
	if m.Content == nil {
		m.Content = []Content{}
	}
	out.Modules = append(out.Modules, m)
	return out
}

// WithContent returns a copy of the course with item appended to the module
// identified by moduleID. Other modules are carried over unchanged.
// PRE: moduleID exists in the course
// POST: original course unchanged
func (c Course) WithContent(moduleID string, item Content) (Course, error) {
	_, idx, ok := c.FindModule(moduleID)
	if !ok {
		return Course{}, ErrModuleNotFound
	}
	out := c.Clone()
	out.Modules[idx].Content = append(out.Modules[idx].Content, item)
	return out, nil
}

// WithModuleCompleted returns a copy of the course with the durable completion
// flag of one module set.
// PRE: moduleID exists in the course
func (c Course) WithModuleCompleted(moduleID string, completed bool) (Course, error) {
	_, idx, ok := c.FindModule(moduleID)
	if !ok {
		return Course{}, ErrModuleNotFound
	}
	out := c.Clone()
	out.Modules[idx].Completed = completed
	return out, nil
}

// ContentCount returns the number of content items across all modules.
func (c Course) ContentCount() int {
	n := 0
	for _, m := range c.Modules {
		n += len(m.Content)
	}
	return n
}
