package course

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by stores when a course lookup misses.
var ErrNotFound = errors.New("course not found")

// ValidationError reports a missing or malformed required field. It is
// recoverable: the caller keeps the form open for correction.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements error.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// PersistenceError reports that the catalog store rejected a whole-course
// replace. Local state is unchanged when this is returned.
type PersistenceError struct {
	CourseID string
	Err      error
}

// Error implements error.
func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist course %s: %v", e.CourseID, e.Err)
}

// Unwrap exposes the store error.
func (e *PersistenceError) Unwrap() error { return e.Err }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsPersistence reports whether err is (or wraps) a PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
