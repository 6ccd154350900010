package projections

import (
	"context"
	"strings"

	courseStore "academy/internal/adapters/storage/course"
	"academy/internal/domain/course"
)

// GetCourseListQuery carries the catalog filter.
type GetCourseListQuery struct {
	Search   string
	Category string
	Level    string
}

// GetCourseListDeps holds dependencies for the course list query.
type GetCourseListDeps struct {
	CourseStore CourseStore
}

// CourseSummary is one catalog row.
type CourseSummary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	Level        string `json:"level"`
	Duration     string `json:"duration"`
	ModuleCount  int    `json:"module_count"`
	ContentCount int    `json:"content_count"`
}

// GetCourseListResult is the catalog page read model.
type GetCourseListResult struct {
	Courses    []CourseSummary    `json:"courses"`
	Categories []string           `json:"categories"`
	Levels     []string           `json:"levels"`
	Filter     GetCourseListQuery `json:"filter"`
}

// QueryGetCourseList returns the filtered catalog with its filter options.
// PRE: none; empty filter fields match everything
// POST: Courses ordered by title
func QueryGetCourseList(ctx context.Context, query GetCourseListQuery, deps GetCourseListDeps) (GetCourseListResult, error) {
	query.Search = strings.TrimSpace(query.Search)
	courses, err := deps.CourseStore.List(ctx, courseStore.ListFilter{
		Search:   query.Search,
		Category: query.Category,
		Level:    query.Level,
	})
	if err != nil {
		return GetCourseListResult{}, err
	}
	categories, err := deps.CourseStore.ListCategories(ctx)
	if err != nil {
		return GetCourseListResult{}, err
	}

	summaries := make([]CourseSummary, 0, len(courses))
	for _, c := range courses {
		summaries = append(summaries, CourseSummary{
			ID:           c.ID,
			Title:        c.Title,
			Description:  c.Description,
			Category:     c.Category,
			Level:        c.Level,
			Duration:     c.Duration,
			ModuleCount:  len(c.Modules),
			ContentCount: c.ContentCount(),
		})
	}
	return GetCourseListResult{
		Courses:    summaries,
		Categories: categories,
		Levels:     course.Levels,
		Filter:     query,
	}, nil
}
