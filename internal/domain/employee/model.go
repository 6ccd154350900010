package employee

import (
	"errors"
	"strings"

	"academy/internal/domain/access"
)

// Domain errors
var (
	ErrEmptyID         = errors.New("employee ID cannot be empty")
	ErrInvalidID       = errors.New("employee ID cannot contain '/', whitespace or control characters, or exceed 128 bytes")
	ErrEmptyName       = errors.New("employee name cannot be empty")
	ErrInvalidEmail    = errors.New("email must contain '@'")
	ErrPercentRange    = errors.New("progress percent must be between 0 and 100")
	ErrEmptyCourseRef  = errors.New("progress record must reference a course")
	ErrDuplicateRecord = errors.New("employee has more than one progress record for the course")
	ErrNotFound        = errors.New("employee not found")
)

// Employee is a learner tracked against catalog courses.
type Employee struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Email      string           `json:"email,omitempty"`
	Department string           `json:"department,omitempty"`
	Progress   []ProgressRecord `json:"progress"`
}

// ProgressRecord is an employee's completion percentage for one course.
type ProgressRecord struct {
	CourseID string  `json:"course_id"`
	Percent  float64 `json:"progress"`
}

// Validate checks if the Employee has valid data.
// PRE: Employee struct is populated
// POST: Returns nil if valid, error otherwise
func (e *Employee) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return ErrEmptyID
	}
	if !access.ValidIdentifier(e.ID) {
		return ErrInvalidID
	}
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyName
	}
	if e.Email != "" && !strings.Contains(e.Email, "@") {
		return ErrInvalidEmail
	}
	seen := make(map[string]bool, len(e.Progress))
	for _, p := range e.Progress {
		if strings.TrimSpace(p.CourseID) == "" {
			return ErrEmptyCourseRef
		}
		if p.Percent < 0 || p.Percent > 100 {
			return ErrPercentRange
		}
		if seen[p.CourseID] {
			return ErrDuplicateRecord
		}
		seen[p.CourseID] = true
	}
	return nil
}

// ProgressFor returns the employee's record for courseID, if any.
// INVARIANT: Employee is not mutated
func (e Employee) ProgressFor(courseID string) (ProgressRecord, bool) {
	for _, p := range e.Progress {
		if p.CourseID == courseID {
			return p, true
		}
	}
	return ProgressRecord{}, false
}

// IsEnrolled reports whether the employee holds a progress record for courseID.
func (e Employee) IsEnrolled(courseID string) bool {
	_, ok := e.ProgressFor(courseID)
	return ok
}

// HasCompleted reports whether the employee's record for courseID is exactly 100.
func (e Employee) HasCompleted(courseID string) bool {
	p, ok := e.ProgressFor(courseID)
	return ok && p.Percent == 100
}
