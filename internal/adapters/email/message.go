package email

import (
	"bytes"
	"fmt"
	"html/template"
)

var accessLinkTmpl = template.Must(template.New("access_link").Parse(`<p>Hi {{.Name}},</p>
<p>You have been enrolled in <strong>{{.CourseTitle}}</strong>.</p>
<p><a href="{{.URL}}">Open the course</a></p>
<p>This link signs you straight in to the course. Do not forward it.</p>`))

// AccessLinkMessage is the data behind a direct-access invitation.
type AccessLinkMessage struct {
	To          string
	Name        string
	CourseID    string
	CourseTitle string
	URL         string
}

// Request renders the invitation into a SendRequest.
// PRE: To and URL are non-empty
func (m AccessLinkMessage) Request() (SendRequest, error) {
	var body bytes.Buffer
	if err := accessLinkTmpl.Execute(&body, m); err != nil {
		return SendRequest{}, fmt.Errorf("render access link email: %w", err)
	}
	return SendRequest{
		To:      []string{m.To},
		Subject: "Your course: " + m.CourseTitle,
		HTML:    body.String(),
		Text:    fmt.Sprintf("Hi %s,\n\nOpen %s here: %s\n", m.Name, m.CourseTitle, m.URL),
		Tags:    map[string]string{"kind": "access_link", "course_id": m.CourseID},
	}, nil
}
