// Package catalogio moves catalog data in and out of the store: YAML seed files
// in, CSV audience reports out.
package catalogio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"

	"academy/internal/domain/course"
	"academy/internal/domain/employee"
)

// Seed is the YAML document accepted by Import.
type Seed struct {
	Courses   []SeedCourse   `yaml:"courses"`
	Employees []SeedEmployee `yaml:"employees"`
}

// SeedCourse is a course entry in a seed file.
type SeedCourse struct {
	ID          string       `yaml:"id"`
	Title       string       `yaml:"title"`
	Description string       `yaml:"description"`
	Category    string       `yaml:"category"`
	Level       string       `yaml:"level"`
	Duration    string       `yaml:"duration"`
	Modules     []SeedModule `yaml:"modules"`
}

// SeedModule is a module entry in a seed file.
type SeedModule struct {
	ID           string        `yaml:"id"`
	Title        string        `yaml:"title"`
	Duration     string        `yaml:"duration"`
	Completed    bool          `yaml:"completed"`
	ResourceType string        `yaml:"resource_type"`
	Content      []SeedContent `yaml:"content"`
}

// SeedContent is a content entry in a seed file.
type SeedContent struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Type        string `yaml:"type"`
	Duration    string `yaml:"duration"`
	ResourceURL string `yaml:"resource_url"`
	Description string `yaml:"description"`
}

// SeedEmployee is an employee entry in a seed file.
type SeedEmployee struct {
	ID         string         `yaml:"id"`
	Name       string         `yaml:"name"`
	Email      string         `yaml:"email"`
	Department string         `yaml:"department"`
	Progress   []SeedProgress `yaml:"progress"`
}

// SeedProgress is one progress record in a seed file.
type SeedProgress struct {
	CourseID string  `yaml:"course_id"`
	Percent  float64 `yaml:"progress"`
}

// CourseStore is the catalog access Import needs.
type CourseStore interface {
	GetByID(ctx context.Context, id string) (course.Course, error)
	Create(ctx context.Context, c course.Course) error
	Replace(ctx context.Context, c course.Course) error
}

// EmployeeStore is the employee access Import needs.
type EmployeeStore interface {
	Save(ctx context.Context, e employee.Employee) error
}

// ImportDeps holds dependencies for Import.
type ImportDeps struct {
	CourseStore   CourseStore
	EmployeeStore EmployeeStore
}

// ImportResult counts what Import wrote.
type ImportResult struct {
	CoursesCreated  int
	CoursesReplaced int
	Employees       int
}

// ParseSeed decodes a YAML seed document. Unknown keys are rejected.
func ParseSeed(r io.Reader) (Seed, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var s Seed
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Seed{}, fmt.Errorf("parse seed: %w", err)
	}
	return s, nil
}

// Import validates every entity in the seed, then upserts courses before employees.
// PRE: seed has been parsed
// POST: Nothing is written if any entity fails validation
func Import(ctx context.Context, seed Seed, deps ImportDeps) (ImportResult, error) {
	courses := make([]course.Course, 0, len(seed.Courses))
	for i, sc := range seed.Courses {
		c := sc.toDomain()
		if err := c.Validate(); err != nil {
			return ImportResult{}, fmt.Errorf("course %d (%q): %w", i, sc.ID, err)
		}
		courses = append(courses, c)
	}
	employees := make([]employee.Employee, 0, len(seed.Employees))
	for i, se := range seed.Employees {
		e := se.toDomain()
		if err := e.Validate(); err != nil {
			return ImportResult{}, fmt.Errorf("employee %d (%q): %w", i, se.ID, err)
		}
		employees = append(employees, e)
	}

	var res ImportResult
	for _, c := range courses {
		_, err := deps.CourseStore.GetByID(ctx, c.ID)
		switch {
		case errors.Is(err, course.ErrNotFound):
			if err := deps.CourseStore.Create(ctx, c); err != nil {
				return res, err
			}
			res.CoursesCreated++
		case err != nil:
			return res, err
		default:
			if err := deps.CourseStore.Replace(ctx, c); err != nil {
				return res, err
			}
			res.CoursesReplaced++
		}
	}
	for _, e := range employees {
		if err := deps.EmployeeStore.Save(ctx, e); err != nil {
			return res, err
		}
		res.Employees++
	}

	slog.Info("catalog_event", "event", "seed_imported", "created", res.CoursesCreated, "replaced", res.CoursesReplaced, "employees", res.Employees)
	return res, nil
}

func (sc SeedCourse) toDomain() course.Course {
	c := course.Course{
		ID:          sc.ID,
		Title:       sc.Title,
		Description: sc.Description,
		Category:    sc.Category,
		Level:       sc.Level,
		Duration:    sc.Duration,
		Modules:     make([]course.Module, 0, len(sc.Modules)),
	}
	for _, sm := range sc.Modules {
		m := course.Module{
			ID:           sm.ID,
			Title:        sm.Title,
			Duration:     sm.Duration,
			Completed:    sm.Completed,
			ResourceType: sm.ResourceType,
			Content:      make([]course.Content, 0, len(sm.Content)),
		}
		for _, item := range sm.Content {
			m.Content = append(m.Content, course.Content(item))
		}
		c.Modules = append(c.Modules, m)
	}
	return c
}

func (se SeedEmployee) toDomain() employee.Employee {
	e := employee.Employee{
		ID:         se.ID,
		Name:       se.Name,
		Email:      se.Email,
		Department: se.Department,
		Progress:   make([]employee.ProgressRecord, 0, len(se.Progress)),
	}
	for _, p := range se.Progress {
		e.Progress = append(e.Progress, employee.ProgressRecord(p))
	}
	return e
}
