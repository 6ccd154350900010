// Package access defines the direct-access link contract: the two identifiers
// carried by the link, the session markers it establishes, and its failures.
//
// Trust model: presenting a valid (course, employee) pair is sufficient to take
// on that employee's course context. Markers are client-held and unsigned.
package access

import (
	"errors"
	"net/url"
	"strings"
	"time"
	"unicode"
)

// Session marker names read by course views.
const (
	MarkerEmployee = "employeeId"
	MarkerCourse   = "courseId"
)

// MarkerTTL is the validity window of each session marker.
const MarkerTTL = 7 * 24 * time.Hour

// MaxIdentifierLength bounds each identifier in a link.
const MaxIdentifierLength = 128

// PathPrefix is the route prefix of the direct-access entry point.
const PathPrefix = "/access/"

// Domain errors
var (
	ErrInvalidLink = errors.New("invalid access link")
	ErrNotFound    = errors.New("course or employee not found")
)

// Link is the pair of identifiers carried by a direct-access URL.
type Link struct {
	CourseID   string
	EmployeeID string
}

// Marker is a client-held session marker with a fixed expiry.
type Marker struct {
	Name      string
	Value     string
	ExpiresAt time.Time
}

// Validate checks that both identifiers are present and well formed.
// POST: Returns ErrInvalidLink if either identifier is absent or malformed
func (l Link) Validate() error {
	if !ValidIdentifier(l.CourseID) || !ValidIdentifier(l.EmployeeID) {
		return ErrInvalidLink
	}
	return nil
}

// Path returns the entry-point path for the link: /access/{courseID}/{employeeID}.
func (l Link) Path() string {
	return PathPrefix + url.PathEscape(l.CourseID) + "/" + url.PathEscape(l.EmployeeID)
}

// URL joins the link path onto baseURL (e.g. "https://academy.example.com").
func (l Link) URL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + l.Path()
}

// CourseDetailPath is the redirect target after a successful resolution.
func CourseDetailPath(courseID string) string {
	return "/courses/" + url.PathEscape(courseID)
}

// NewMarkers builds the employee and course markers, both expiring MarkerTTL after now.
func NewMarkers(l Link, now time.Time) []Marker {
	exp := now.Add(MarkerTTL)
	return []Marker{
		{Name: MarkerEmployee, Value: l.EmployeeID, ExpiresAt: exp},
		{Name: MarkerCourse, Value: l.CourseID, ExpiresAt: exp},
	}
}

// ValidIdentifier reports whether id can travel in a direct-access path: non-empty,
// at most MaxIdentifierLength bytes, and free of '/', whitespace and control characters.
func ValidIdentifier(id string) bool {
	if id == "" || len(id) > MaxIdentifierLength {
		return false
	}
	for _, r := range id {
		if r == '/' || unicode.IsSpace(r) || unicode.IsControl(r) {
			return false
		}
	}
	return true
}
