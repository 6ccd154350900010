package web

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"academy/internal/adapters/email"
	"academy/internal/adapters/http/middleware"
	accountStore "academy/internal/adapters/storage/account"
	courseStore "academy/internal/adapters/storage/course"
	employeeStore "academy/internal/adapters/storage/employee"
	"academy/internal/application/workspace"
)

// Stores holds all storage dependencies.
type Stores struct {
	CourseStore   courseStore.Store
	EmployeeStore employeeStore.Store
	AccountStore  accountStore.Store
}

// Options configures NewMux. Zero values fall back to development defaults.
type Options struct {
	// CSRFKey is 64 hex characters or at least 32 raw bytes. Empty generates a
	// random key per process.
	CSRFKey   string
	Secure    bool
	PublicURL string
	Sender    email.Sender
	// Workspaces is shared with the caller so it can run the idle sweeper.
	Workspaces         *workspace.Registry
	RateLimitPerSecond int
	SlowRequest        time.Duration
}

// csrfKeyFrom turns the configured secret into the 32-byte key gorilla/csrf expects.
func csrfKeyFrom(secret string) []byte {
	if key, err := hex.DecodeString(secret); err == nil && len(key) == 32 {
		return key
	}
	if len(secret) >= 32 {
		return []byte(secret)[:32]
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic("failed to generate CSRF key: " + err.Error())
	}
	slog.Warn("csrf_key_random", "reason", "ACADEMY_CSRF_KEY unset or short; form sessions won't survive restart")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// Global workspace registry (set by NewMux)
var workspaces *workspace.Registry

// Global email sender instance (set by NewMux)
var emailSender email.Sender

// publicURL is the origin direct-access links point at.
var publicURL = "http://localhost:8080"

// timeNow is a variable for testability.
var timeNow = time.Now

// NewMux wires HTTP handlers for the app.
func NewMux(s *Stores, opts Options) http.Handler {
	stores = s
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = opts.Secure

	if opts.PublicURL != "" {
		publicURL = opts.PublicURL
	}
	emailSender = opts.Sender
	if emailSender == nil {
		emailSender = email.NewNoopSender()
	}
	workspaces = opts.Workspaces
	if workspaces == nil {
		workspaces = workspace.NewRegistry(workspace.Deps{
			CourseStore: s.CourseStore,
			GenerateID:  generateID,
		}, workspace.DefaultTTL)
	}
	rate := opts.RateLimitPerSecond
	if rate <= 0 {
		rate = 20
	}

	mux := http.NewServeMux()
	registerRoutes(mux)

	var trusted []string
	if u, err := url.Parse(publicURL); err == nil && u.Host != "" {
		trusted = []string{u.Host}
	}
	limiter := middleware.NewRateLimiter(rate, time.Second)

	// Outermost first on the wire: Timing -> Compress -> RateLimit -> Viewer -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKeyFrom(opts.CSRFKey), opts.Secure, trusted),
		middleware.Auth(sessions),
		middleware.Viewer,
		middleware.RateLimit(limiter),
		middleware.Compress,
		middleware.Timing(opts.SlowRequest),
	)
}

func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/courses", http.StatusSeeOther)
	})

	// HTML views
	mux.HandleFunc("GET /courses", handleCoursesPage)
	mux.HandleFunc("GET /courses/{id}", handleCoursePage)
	mux.HandleFunc("GET /access/{courseID}/{employeeID}", handleDirectAccess)
	mux.HandleFunc("GET /access/{rest...}", handleMalformedAccess)
	mux.HandleFunc("GET /login", handleLoginPage)
	mux.HandleFunc("POST /login", handleLogin)
	mux.HandleFunc("POST /logout", handleLogout)

	// Catalog API
	mux.HandleFunc("GET /api/courses", handleCourseListAPI)
	mux.HandleFunc("GET /api/courses/{id}", handleCourseDetailAPI)
	mux.HandleFunc("POST /api/courses/{id}/modules/{moduleID}/toggle", handleToggleCompletion)
	mux.HandleFunc("DELETE /api/viewer", handleDiscardViewer)

	editor := func(h http.HandlerFunc) http.Handler { return middleware.RequireEditor(h) }
	mux.Handle("POST /api/courses/{id}/modules/form", editor(handleOpenModuleForm))
	mux.Handle("DELETE /api/courses/{id}/modules/form", editor(handleCancelModuleForm))
	mux.Handle("POST /api/courses/{id}/modules", editor(handleSubmitModule))
	mux.Handle("POST /api/courses/{id}/modules/{moduleID}/content/form", editor(handleOpenContentForm))
	mux.Handle("DELETE /api/courses/{id}/modules/{moduleID}/content/form", editor(handleCancelContentForm))
	mux.Handle("POST /api/courses/{id}/modules/{moduleID}/content", editor(handleSubmitContent))
	mux.Handle("PUT /api/courses/{id}/modules/{moduleID}/completed", editor(handleSetModuleCompleted))
	mux.Handle("GET /api/courses/{id}/access-links", editor(handleAccessLinks))
	mux.Handle("POST /api/courses/{id}/access-links/send", editor(handleSendAccessLinks))
	mux.Handle("GET /api/courses/{id}/audience.csv", editor(handleAudienceCSV))
}
