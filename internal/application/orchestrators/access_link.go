package orchestrators

import (
	"context"
	"log/slog"

	emailAdapter "academy/internal/adapters/email"
	"academy/internal/domain/access"
	"academy/internal/domain/course"
	"academy/internal/domain/employee"
)

// EmployeeStoreForAudience defines the employee queries needed to reach a course audience.
type EmployeeStoreForAudience interface {
	GetByID(ctx context.Context, id string) (employee.Employee, error)
	ListByCourse(ctx context.Context, courseID string) ([]employee.Employee, error)
}

// SendAccessLinkInput carries input for the access-link mailer. An empty
// EmployeeID sends to every enrolled employee with an email address.
type SendAccessLinkInput struct {
	CourseID   string
	EmployeeID string
	BaseURL    string
}

// SendAccessLinkDeps holds dependencies for SendAccessLink.
type SendAccessLinkDeps struct {
	CourseStore   CourseStoreForRead
	EmployeeStore EmployeeStoreForAudience
	Sender        emailAdapter.Sender
}

// SendAccessLinkResult reports who was mailed and who was skipped for lack of an address.
type SendAccessLinkResult struct {
	Sent    []string
	Skipped []string
}

// ExecuteSendAccessLink emails direct-access links for a course.
// PRE: CourseID exists; BaseURL is the public origin of the service
// POST: One message per recipient handed to the sender
func ExecuteSendAccessLink(ctx context.Context, input SendAccessLinkInput, deps SendAccessLinkDeps) (SendAccessLinkResult, error) {
	c, err := deps.CourseStore.GetByID(ctx, input.CourseID)
	if err != nil {
		return SendAccessLinkResult{}, err
	}

	var recipients []employee.Employee
	if input.EmployeeID != "" {
		e, err := deps.EmployeeStore.GetByID(ctx, input.EmployeeID)
		if err != nil {
			return SendAccessLinkResult{}, err
		}
		if e.Email == "" {
			return SendAccessLinkResult{}, &course.ValidationError{Field: "email", Message: "employee has no email address"}
		}
		recipients = []employee.Employee{e}
	} else {
		recipients, err = deps.EmployeeStore.ListByCourse(ctx, c.ID)
		if err != nil {
			return SendAccessLinkResult{}, err
		}
	}

	var result SendAccessLinkResult
	var reqs []emailAdapter.SendRequest
	for _, e := range recipients {
		if e.Email == "" {
			result.Skipped = append(result.Skipped, e.ID)
			continue
		}
		link := access.Link{CourseID: c.ID, EmployeeID: e.ID}
		req, err := emailAdapter.AccessLinkMessage{
			To:          e.Email,
			Name:        e.Name,
			CourseID:    c.ID,
			CourseTitle: c.Title,
			URL:         link.URL(input.BaseURL),
		}.Request()
		if err != nil {
			return SendAccessLinkResult{}, err
		}
		reqs = append(reqs, req)
		result.Sent = append(result.Sent, e.ID)
	}
	if len(reqs) == 0 {
		return result, nil
	}

	if len(reqs) == 1 {
		_, err = deps.Sender.Send(ctx, reqs[0])
	} else {
		_, err = deps.Sender.SendBatch(ctx, reqs)
	}
	if err != nil {
		return SendAccessLinkResult{}, err
	}

	slog.Info("access_event", "event", "access_links_sent", "course_id", c.ID, "sent", len(result.Sent), "skipped", len(result.Skipped))
	return result, nil
}
