package web

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"academy/internal/adapters/http/middleware"
	"academy/internal/application/orchestrators"
	"academy/internal/application/projections"
	"academy/internal/domain/access"
)

// handleDirectAccess handles GET /access/{courseID}/{employeeID}.
// On success it sets the two session markers and redirects to the course page.
// Any failure renders the blocking error view and sets nothing.
func handleDirectAccess(w http.ResponseWriter, r *http.Request) {
	res, err := orchestrators.ExecuteResolveDirectAccess(r.Context(), orchestrators.ResolveDirectAccessInput{
		CourseID:   r.PathValue("courseID"),
		EmployeeID: r.PathValue("employeeID"),
	}, orchestrators.ResolveDirectAccessDeps{
		CourseStore:   stores.CourseStore,
		EmployeeStore: stores.EmployeeStore,
		Now:           timeNow,
	})
	switch {
	case errors.Is(err, access.ErrInvalidLink):
		renderErrorPage(w, r, http.StatusBadRequest, "Invalid link", "This access link is malformed. Ask your administrator for a new one.")
		return
	case errors.Is(err, access.ErrNotFound):
		renderErrorPage(w, r, http.StatusNotFound, "Link not recognised", "The course or employee in this link no longer exists.")
		return
	case err != nil:
		internalError(w, err)
		return
	}

	for _, m := range res.Markers {
		http.SetCookie(w, &http.Cookie{
			Name:     m.Name,
			Value:    url.QueryEscape(m.Value),
			Path:     "/",
			Expires:  m.ExpiresAt,
			MaxAge:   int(access.MarkerTTL.Seconds()),
			SameSite: http.SameSiteLaxMode,
			Secure:   middleware.SecureCookies,
		})
	}
	http.Redirect(w, r, res.RedirectTo, http.StatusSeeOther)
}

// handleMalformedAccess handles /access paths that do not carry exactly two segments.
func handleMalformedAccess(w http.ResponseWriter, r *http.Request) {
	slog.Info("access_event", "event", "access_rejected", "reason", "invalid_link")
	renderErrorPage(w, r, http.StatusBadRequest, "Invalid link", "This access link is malformed. Ask your administrator for a new one.")
}

// handleAccessLinks handles GET /api/courses/{id}/access-links.
func handleAccessLinks(w http.ResponseWriter, r *http.Request) {
	links, err := projections.QueryGetAccessLinks(r.Context(), projections.GetAccessLinksQuery{
		CourseID: r.PathValue("id"),
		BaseURL:  publicURL,
	}, projections.GetAccessLinksDeps{
		CourseStore:   stores.CourseStore,
		EmployeeStore: stores.EmployeeStore,
	})
	if err != nil {
		writeError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, links)
}

// handleSendAccessLinks handles POST /api/courses/{id}/access-links/send.
// An empty body or employee_id mails the whole enrolled audience.
func handleSendAccessLinks(w http.ResponseWriter, r *http.Request) {
	var body struct {
		EmployeeID string `json:"employee_id"`
	}
	if r.ContentLength != 0 {
		if err := strictDecode(r, &body); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
	}
	result, err := orchestrators.ExecuteSendAccessLink(r.Context(), orchestrators.SendAccessLinkInput{
		CourseID:   r.PathValue("id"),
		EmployeeID: body.EmployeeID,
		BaseURL:    publicURL,
	}, orchestrators.SendAccessLinkDeps{
		CourseStore:   stores.CourseStore,
		EmployeeStore: stores.EmployeeStore,
		Sender:        emailSender,
	})
	if err != nil {
		writeError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{
		"sent":    nonNil(result.Sent),
		"skipped": nonNil(result.Skipped),
	})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
