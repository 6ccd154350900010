package access_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"academy/internal/domain/access"
)

// TestLink_Validate tests identifier well-formedness.
func TestLink_Validate(t *testing.T) {
	tests := []struct {
		name    string
		link    access.Link
		wantErr bool
	}{
		{name: "valid", link: access.Link{CourseID: "c1", EmployeeID: "e1"}},
		{name: "uuid ids", link: access.Link{CourseID: "0b7e6a52-8c1e-4e0b-9d7e-1f2a3b4c5d6e", EmployeeID: "emp-42"}},
		{name: "missing course", link: access.Link{EmployeeID: "e1"}, wantErr: true},
		{name: "missing employee", link: access.Link{CourseID: "c1"}, wantErr: true},
		{name: "slash in id", link: access.Link{CourseID: "c1/e1", EmployeeID: "e1"}, wantErr: true},
		{name: "whitespace id", link: access.Link{CourseID: "c 1", EmployeeID: "e1"}, wantErr: true},
		{name: "control char", link: access.Link{CourseID: "c1", EmployeeID: "e\x001"}, wantErr: true},
		{name: "too long", link: access.Link{CourseID: strings.Repeat("a", access.MaxIdentifierLength+1), EmployeeID: "e1"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.link.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Link.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, access.ErrInvalidLink) {
				t.Errorf("expected ErrInvalidLink, got %v", err)
			}
		})
	}
}

func TestLink_URL(t *testing.T) {
	l := access.Link{CourseID: "c1", EmployeeID: "e1"}
	if got := l.URL("https://academy.example.com/"); got != "https://academy.example.com/access/c1/e1" {
		t.Errorf("unexpected URL %q", got)
	}
	if got := access.CourseDetailPath("c1"); got != "/courses/c1" {
		t.Errorf("unexpected detail path %q", got)
	}
}

func TestNewMarkers_SevenDayWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	markers := access.NewMarkers(access.Link{CourseID: "c1", EmployeeID: "e1"}, now)

	if len(markers) != 2 {
		t.Fatalf("expected 2 markers, got %d", len(markers))
	}
	want := map[string]string{access.MarkerEmployee: "e1", access.MarkerCourse: "c1"}
	for _, m := range markers {
		if want[m.Name] != m.Value {
			t.Errorf("marker %s = %q, want %q", m.Name, m.Value, want[m.Name])
		}
		if got := m.ExpiresAt.Sub(now); got != 7*24*time.Hour {
			t.Errorf("marker %s window = %v, want 168h", m.Name, got)
		}
	}
}
