package web

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"

	accountStore "academy/internal/adapters/storage/account"
	courseStore "academy/internal/adapters/storage/course"
	accountDomain "academy/internal/domain/account"
	courseDomain "academy/internal/domain/course"
	employeeDomain "academy/internal/domain/employee"
)

// mockCourseStore implements courseStore.Store for testing.
type mockCourseStore struct {
	mu         sync.Mutex
	courses    map[string]courseDomain.Course
	getErr     error
	replaceErr error
}

// GetByID implements courseStore.Store.
func (m *mockCourseStore) GetByID(_ context.Context, id string) (courseDomain.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return courseDomain.Course{}, m.getErr
	}
	c, ok := m.courses[id]
	if !ok {
		return courseDomain.Course{}, courseDomain.ErrNotFound
	}
	return c.Clone(), nil
}

// Create implements courseStore.Store.
func (m *mockCourseStore) Create(_ context.Context, c courseDomain.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.courses[c.ID] = c.Clone()
	return nil
}

// Replace implements courseStore.Store.
func (m *mockCourseStore) Replace(_ context.Context, c courseDomain.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.replaceErr != nil {
		return m.replaceErr
	}
	if _, ok := m.courses[c.ID]; !ok {
		return courseDomain.ErrNotFound
	}
	m.courses[c.ID] = c.Clone()
	return nil
}

// List implements courseStore.Store.
func (m *mockCourseStore) List(_ context.Context, f courseStore.ListFilter) ([]courseDomain.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []courseDomain.Course
	for _, c := range m.courses {
		if f.Category != "" && c.Category != f.Category {
			continue
		}
		if f.Level != "" && c.Level != f.Level {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(c.Title), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, c.Clone())
	}
	slices.SortFunc(out, func(a, b courseDomain.Course) int { return strings.Compare(a.Title, b.Title) })
	return out, nil
}

// ListCategories implements courseStore.Store.
func (m *mockCourseStore) ListCategories(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, c := range m.courses {
		if c.Category != "" && !slices.Contains(out, c.Category) {
			out = append(out, c.Category)
		}
	}
	slices.Sort(out)
	return out, nil
}

// mockEmployeeStore implements employeeStore.Store for testing.
type mockEmployeeStore struct {
	mu        sync.Mutex
	employees []employeeDomain.Employee
}

// GetByID implements employeeStore.Store.
func (m *mockEmployeeStore) GetByID(_ context.Context, id string) (employeeDomain.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return employeeDomain.Employee{}, employeeDomain.ErrNotFound
}

// List implements employeeStore.Store.
func (m *mockEmployeeStore) List(_ context.Context) ([]employeeDomain.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.employees), nil
}

// ListByCourse implements employeeStore.Store.
func (m *mockEmployeeStore) ListByCourse(_ context.Context, courseID string) ([]employeeDomain.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []employeeDomain.Employee
	for _, e := range m.employees {
		if e.IsEnrolled(courseID) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Save implements employeeStore.Store.
func (m *mockEmployeeStore) Save(_ context.Context, e employeeDomain.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees = append(m.employees, e)
	return nil
}

// mockAccountStore implements accountStore.Store for testing.
type mockAccountStore struct {
	accounts map[string]accountDomain.Account
}

// GetByEmail implements accountStore.Store.
func (m *mockAccountStore) GetByEmail(_ context.Context, email string) (accountDomain.Account, error) {
	a, ok := m.accounts[strings.ToLower(email)]
	if !ok {
		return accountDomain.Account{}, accountStore.ErrNotFound
	}
	return a, nil
}

// Save implements accountStore.Store.
func (m *mockAccountStore) Save(_ context.Context, a accountDomain.Account) error {
	m.accounts[strings.ToLower(a.Email)] = a
	return nil
}

// Count implements accountStore.Store.
func (m *mockAccountStore) Count(_ context.Context) (int, error) {
	return len(m.accounts), nil
}

var errStoreDown = errors.New("database is locked")

func sampleCourses() map[string]courseDomain.Course {
	return map[string]courseDomain.Course{
		"safety-101": {
			ID:          "safety-101",
			Title:       "Workplace Safety",
			Description: "Spot **hazards** early.",
			Category:    "Compliance",
			Level:       "Beginner",
			Duration:    "2h",
			Modules: []courseDomain.Module{
				{ID: "m1", Title: "Hazard basics", Duration: "30m", Content: []courseDomain.Content{
					{ID: "c1", Title: "Intro video", Type: courseDomain.ContentVideo},
				}},
				{ID: "m2", Title: "Reporting", Duration: "20m", Content: []courseDomain.Content{}},
			},
		},
		"privacy-201": {
			ID: "privacy-201", Title: "Data Privacy", Category: "Compliance", Level: "Intermediate",
			Modules: []courseDomain.Module{},
		},
		"sales-101": {
			ID: "sales-101", Title: "Cold Calling", Category: "Sales", Level: "Advanced",
			Modules: []courseDomain.Module{},
		},
	}
}

func sampleEmployees() []employeeDomain.Employee {
	return []employeeDomain.Employee{
		{ID: "e1", Name: "Ana Kowalski", Email: "ana@example.com", Department: "Operations",
			Progress: []employeeDomain.ProgressRecord{{CourseID: "safety-101", Percent: 100}}},
		{ID: "e2", Name: "Ben Osei", Department: "Warehouse",
			Progress: []employeeDomain.ProgressRecord{{CourseID: "safety-101", Percent: 40}}},
		{ID: "e3", Name: "Cleo Park", Email: "cleo@example.com",
			Progress: []employeeDomain.ProgressRecord{{CourseID: "sales-101", Percent: 10}}},
	}
}

func newEditorAccount(t *testing.T) accountDomain.Account {
	t.Helper()
	a := accountDomain.Account{ID: "test-id-001", Email: "editor@example.com", Role: accountDomain.RoleEditor}
	if err := a.SetPassword("correct horse battery"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	return a
}
