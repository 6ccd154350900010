package projections

import (
	"academy/internal/domain/course"
	"academy/internal/domain/employee"
)

// EnrolledEmployees returns every employee holding a progress record for the
// course, in input order. Employees without a matching record are excluded.
// INVARIANT: inputs are not mutated
func EnrolledEmployees(c course.Course, employees []employee.Employee) []employee.Employee {
	var enrolled []employee.Employee
	for _, e := range employees {
		if e.IsEnrolled(c.ID) {
			enrolled = append(enrolled, e)
		}
	}
	return enrolled
}

// CompletedCount counts enrolled employees whose record for courseID is exactly 100.
func CompletedCount(enrolled []employee.Employee, courseID string) int {
	n := 0
	for _, e := range enrolled {
		if e.HasCompleted(courseID) {
			n++
		}
	}
	return n
}

// AverageProgress is the mean percent for courseID across enrolled, or 0 when
// enrolled is empty.
// PRE: every percent is within [0,100]
func AverageProgress(enrolled []employee.Employee, courseID string) float64 {
	if len(enrolled) == 0 {
		return 0
	}
	var sum float64
	for _, e := range enrolled {
		if p, ok := e.ProgressFor(courseID); ok {
			sum += p.Percent
		}
	}
	return sum / float64(len(enrolled))
}

// SimilarCourses returns every course sharing c's category or level. The
// result includes c itself when it is present in all.
func SimilarCourses(c course.Course, all []course.Course) []course.Course {
	var similar []course.Course
	for _, other := range all {
		if other.Category == c.Category || other.Level == c.Level {
			similar = append(similar, other)
		}
	}
	return similar
}
