package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"academy/internal/adapters/http/middleware"
	"academy/internal/application/workspace"
	"academy/internal/domain/access"
	accountDomain "academy/internal/domain/account"
	"academy/internal/domain/course"
	"academy/internal/domain/employee"
)

//go:embed templates/*.html
var templateFS embed.FS

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func isHTMLRequest(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "application/xhtml+xml")
}

func isJSONRequest(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json_encode_failed", "error", err)
	}
}

// errorBody is the JSON error envelope. Form is set for failed form submits so
// clients can restore the draft.
type errorBody struct {
	Error    string `json:"error"`
	Field    string `json:"field,omitempty"`
	Form     any    `json:"form,omitempty"`
	Recovery string `json:"recovery,omitempty"`
}

// writeError maps domain and workspace errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error, form any) {
	var ve *course.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: ve.Message, Field: ve.Field, Form: form})
	case errors.Is(err, workspace.ErrSaveInFlight), errors.Is(err, workspace.ErrCancelWhileSaving):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error(), Form: form})
	case course.IsPersistence(err):
		slog.Warn("course_save_failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "the course could not be saved, please retry", Form: form})
	case errors.Is(err, course.ErrNotFound), errors.Is(err, employee.ErrNotFound), errors.Is(err, access.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, access.ErrInvalidLink):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	default:
		internalError(w, err)
	}
}

func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

func renderTemplate(w http.ResponseWriter, r *http.Request, status int, templateName string, data any) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	role := ""
	email := ""
	if ok {
		role = sess.Role
		email = sess.Email
	}

	viewer := accountDomain.Account{Role: role}

	funcMap := template.FuncMap{
		"currentRole":    func() string { return role },
		"currentEmail":   func() string { return email },
		"isLoggedIn":     func() bool { return role != "" },
		"canEdit":        viewer.CanEditCatalog,
		"csrfToken":      func() string { return csrf.Token(r) },
		"renderMarkdown": renderMarkdown,
	}

	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(templateFS, "templates/layout.html", "templates/"+templateName)
	if err != nil {
		internalError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// errorPage is the blocking error view. It offers a single way out.
type errorPage struct {
	Title    string
	Message  string
	Recovery string
}

func renderErrorPage(w http.ResponseWriter, r *http.Request, status int, title, message string) {
	if !isHTMLRequest(r) {
		writeJSON(w, status, errorBody{Error: message, Recovery: "/"})
		return
	}
	renderTemplate(w, r, status, "error.html", errorPage{Title: title, Message: message, Recovery: "/"})
}
