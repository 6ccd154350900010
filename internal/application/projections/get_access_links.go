package projections

import (
	"context"

	"academy/internal/domain/access"
)

// GetAccessLinksQuery identifies the course and the public origin links point at.
type GetAccessLinksQuery struct {
	CourseID string
	BaseURL  string
}

// GetAccessLinksDeps holds dependencies for the access links query.
type GetAccessLinksDeps struct {
	CourseStore   CourseStore
	EmployeeStore EmployeeStore
}

// AccessLinkView is one enrolled employee's direct-access URL.
type AccessLinkView struct {
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	URL        string `json:"url"`
}

// QueryGetAccessLinks lists a direct-access URL for every enrolled employee.
// PRE: CourseID exists
// POST: One link per enrolled employee, in store order
func QueryGetAccessLinks(ctx context.Context, query GetAccessLinksQuery, deps GetAccessLinksDeps) ([]AccessLinkView, error) {
	c, err := deps.CourseStore.GetByID(ctx, query.CourseID)
	if err != nil {
		return nil, err
	}
	enrolled, err := deps.EmployeeStore.ListByCourse(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	links := make([]AccessLinkView, 0, len(enrolled))
	for _, e := range enrolled {
		link := access.Link{CourseID: c.ID, EmployeeID: e.ID}
		links = append(links, AccessLinkView{
			EmployeeID: e.ID,
			Name:       e.Name,
			Email:      e.Email,
			URL:        link.URL(query.BaseURL),
		})
	}
	return links, nil
}
