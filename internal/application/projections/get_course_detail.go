package projections

import (
	"context"

	courseStore "academy/internal/adapters/storage/course"
	"academy/internal/domain/course"
	"academy/internal/domain/employee"
)

// GetCourseDetailQuery carries the course and, when a direct-access marker is
// present, the employee viewing it.
type GetCourseDetailQuery struct {
	CourseID         string
	ViewerEmployeeID string
}

// GetCourseDetailDeps holds dependencies for the course detail query.
type GetCourseDetailDeps struct {
	CourseStore   CourseStore
	EmployeeStore EmployeeStore
}

// AudienceMember is one enrolled employee with their percent for the course.
type AudienceMember struct {
	EmployeeID string  `json:"employee_id"`
	Name       string  `json:"name"`
	Department string  `json:"department,omitempty"`
	Percent    float64 `json:"progress"`
	Completed  bool    `json:"completed"`
}

// CourseStats is the audience summary shown on the course page.
type CourseStats struct {
	EnrolledCount   int     `json:"enrolled_count"`
	CompletedCount  int     `json:"completed_count"`
	AverageProgress float64 `json:"average_progress"`
}

// CourseDetail is the read model behind the course detail view.
type CourseDetail struct {
	Course   course.Course    `json:"course"`
	Audience []AudienceMember `json:"audience"`
	Stats    CourseStats      `json:"stats"`
	Similar  []course.Course  `json:"similar"`
	Viewer   *AudienceMember  `json:"viewer,omitempty"`
}

// QueryGetCourseDetail loads a course and derives its audience statistics.
// PRE: CourseID is non-empty
// POST: Returns the read model, or an error wrapping course.ErrNotFound
func QueryGetCourseDetail(ctx context.Context, query GetCourseDetailQuery, deps GetCourseDetailDeps) (CourseDetail, error) {
	c, err := deps.CourseStore.GetByID(ctx, query.CourseID)
	if err != nil {
		return CourseDetail{}, err
	}
	employees, err := deps.EmployeeStore.List(ctx)
	if err != nil {
		return CourseDetail{}, err
	}
	all, err := deps.CourseStore.List(ctx, courseStore.ListFilter{})
	if err != nil {
		return CourseDetail{}, err
	}

	detail := BuildCourseDetail(c, employees, all)
	detail.SetViewer(query.ViewerEmployeeID)
	return detail, nil
}

// SetViewer points Viewer at the audience entry for employeeID. An empty or
// unenrolled ID clears it.
func (d *CourseDetail) SetViewer(employeeID string) {
	d.Viewer = nil
	if employeeID == "" {
		return
	}
	for i := range d.Audience {
		if d.Audience[i].EmployeeID == employeeID {
			viewer := d.Audience[i]
			d.Viewer = &viewer
			return
		}
	}
}

// BuildCourseDetail assembles the read model from snapshots without I/O.
func BuildCourseDetail(c course.Course, employees []employee.Employee, all []course.Course) CourseDetail {
	enrolled := EnrolledEmployees(c, employees)
	audience := make([]AudienceMember, 0, len(enrolled))
	for _, e := range enrolled {
		p, _ := e.ProgressFor(c.ID)
		audience = append(audience, AudienceMember{
			EmployeeID: e.ID,
			Name:       e.Name,
			Department: e.Department,
			Percent:    p.Percent,
			Completed:  p.Percent == 100,
		})
	}
	return CourseDetail{
		Course:   c,
		Audience: audience,
		Stats: CourseStats{
			EnrolledCount:   len(enrolled),
			CompletedCount:  CompletedCount(enrolled, c.ID),
			AverageProgress: AverageProgress(enrolled, c.ID),
		},
		Similar: SimilarCourses(c, all),
	}
}
