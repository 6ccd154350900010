package web

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"academy/internal/application/projections"
	"academy/internal/application/workspace"
	courseDomain "academy/internal/domain/course"
)

func TestCourseListAPI_Filters(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"all", "", []string{"sales-101", "privacy-201", "safety-101"}},
		{"category", "?category=Compliance", []string{"privacy-201", "safety-101"}},
		{"level", "?level=Advanced", []string{"sales-101"}},
		{"search", "?q=safety", []string{"safety-101"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setup(t)
			rr := env.do("GET", "/api/courses"+tt.query, nil)
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rr.Code)
			}
			res := decodeJSON[projections.GetCourseListResult](t, rr)
			var ids []string
			for _, c := range res.Courses {
				ids = append(ids, c.ID)
			}
			if strings.Join(ids, ",") != strings.Join(tt.want, ",") {
				t.Errorf("ids = %v, want %v", ids, tt.want)
			}
		})
	}
}

func TestCourseDetailAPI(t *testing.T) {
	env := setup(t)
	rr := env.do("GET", "/api/courses/safety-101", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	view := decodeJSON[courseView](t, rr)

	if view.Stats.EnrolledCount != 2 || view.Stats.CompletedCount != 1 || view.Stats.AverageProgress != 70 {
		t.Errorf("stats = %+v, want 2 enrolled, 1 completed, 70 average", view.Stats)
	}
	if len(view.Similar) != 2 {
		t.Errorf("similar = %d courses, want 2 (itself and privacy-201)", len(view.Similar))
	}
	if view.Overlay["m1"] || view.Overlay["m2"] {
		t.Errorf("fresh overlay = %v, want all false", view.Overlay)
	}
	if view.ModuleForm.State != workspace.Idle {
		t.Errorf("module form = %s, want idle", view.ModuleForm.State)
	}
}

func TestCourseDetailAPI_NotFound(t *testing.T) {
	env := setup(t)
	if rr := env.do("GET", "/api/courses/nope", nil); rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestCoursePage_RendersMarkdown(t *testing.T) {
	env := setup(t)
	rr := env.do("GET", "/courses/safety-101", nil, "Accept", "text/html")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{"<strong>hazards</strong>", "Hazard basics", "Data Privacy"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestCoursePage_NotFound(t *testing.T) {
	env := setup(t)
	rr := env.do("GET", "/courses/nope", nil, "Accept", "text/html")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `href="/"`) {
		t.Error("not found page should link home")
	}
}

func TestToggleCompletion_SessionOnly(t *testing.T) {
	env := setup(t)

	rr := env.do("POST", "/api/courses/safety-101/modules/m1/toggle", map[string]string{})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if res := decodeJSON[map[string]any](t, rr); res["completed"] != true {
		t.Errorf("completed = %v, want true", res["completed"])
	}

	view := decodeJSON[courseView](t, env.do("GET", "/api/courses/safety-101", nil))
	if !view.Overlay["m1"] {
		t.Error("overlay should keep the toggle for this viewer")
	}
	if env.courses.courses["safety-101"].Modules[0].Completed {
		t.Error("toggle must not persist")
	}

	// A different viewer has its own overlay.
	delete(env.cookies, "academy_viewer")
	fresh := decodeJSON[courseView](t, env.do("GET", "/api/courses/safety-101", nil))
	if fresh.Overlay["m1"] {
		t.Error("new viewer inherited another viewer's overlay")
	}
}

type moduleErrorBody struct {
	Field string                                    `json:"field"`
	Form  workspace.FormView[workspace.ModuleDraft] `json:"form"`
}

func TestSubmitModule(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]string
		replaceErr error
		wantStatus int
		wantField  string
		wantForm   workspace.State
	}{
		{"valid", map[string]string{"title": "Drills", "duration": "15m"}, nil, http.StatusCreated, "", ""},
		{"blank title", map[string]string{"title": "   ", "duration": "15m"}, nil, http.StatusUnprocessableEntity, "title", workspace.Editing},
		{"missing duration", map[string]string{"title": "Drills"}, nil, http.StatusUnprocessableEntity, "duration", workspace.Editing},
		{"store failure", map[string]string{"title": "Drills", "duration": "15m"}, errStoreDown, http.StatusServiceUnavailable, "", workspace.Editing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setup(t)
			env.login()
			env.courses.replaceErr = tt.replaceErr

			rr := env.do("POST", "/api/courses/safety-101/modules", tt.body)
			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tt.wantStatus, rr.Body.String())
			}

			stored := env.courses.courses["safety-101"]
			if tt.wantStatus == http.StatusCreated {
				got := decodeJSON[courseDomain.Course](t, rr)
				if len(got.Modules) != 3 || got.Modules[2].Title != "Drills" {
					t.Errorf("returned modules = %+v", got.Modules)
				}
				if len(stored.Modules) != 3 {
					t.Errorf("stored %d modules, want 3", len(stored.Modules))
				}
				return
			}

			if len(stored.Modules) != 2 {
				t.Errorf("failed submit changed the store: %d modules", len(stored.Modules))
			}
			body := decodeJSON[moduleErrorBody](t, rr)
			if body.Field != tt.wantField {
				t.Errorf("field = %q, want %q", body.Field, tt.wantField)
			}
			if body.Form.State != tt.wantForm {
				t.Errorf("form state = %s, want %s", body.Form.State, tt.wantForm)
			}
			if body.Form.Draft.Title != tt.body["title"] {
				t.Errorf("draft title = %q, want it kept", body.Form.Draft.Title)
			}
		})
	}
}

func TestSubmitModule_RequiresEditor(t *testing.T) {
	env := setup(t)
	rr := env.do("POST", "/api/courses/safety-101/modules", map[string]string{"title": "Drills", "duration": "15m"})
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
}

func TestSubmitModule_ResetsOverlay(t *testing.T) {
	env := setup(t)
	env.login()
	env.do("POST", "/api/courses/safety-101/modules/m1/toggle", map[string]string{})

	if rr := env.do("POST", "/api/courses/safety-101/modules", map[string]string{"title": "Drills", "duration": "15m"}); rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rr.Code)
	}
	view := decodeJSON[courseView](t, env.do("GET", "/api/courses/safety-101", nil))
	for id, done := range view.Overlay {
		if done {
			t.Errorf("overlay[%s] survived a module-set change", id)
		}
	}
	if len(view.Overlay) != 3 {
		t.Errorf("overlay has %d entries, want 3", len(view.Overlay))
	}
}

func TestModuleForm_OpenCancel(t *testing.T) {
	env := setup(t)
	env.login()

	rr := env.do("POST", "/api/courses/safety-101/modules/form", map[string]string{})
	if form := decodeJSON[workspace.FormView[workspace.ModuleDraft]](t, rr); form.State != workspace.Editing {
		t.Errorf("after open = %s, want editing", form.State)
	}
	rr = env.do("DELETE", "/api/courses/safety-101/modules/form", map[string]string{})
	if form := decodeJSON[workspace.FormView[workspace.ModuleDraft]](t, rr); form.State != workspace.Idle {
		t.Errorf("after cancel = %s, want idle", form.State)
	}
}

func TestSubmitContent(t *testing.T) {
	tests := []struct {
		name       string
		moduleID   string
		body       map[string]string
		wantStatus int
		wantField  string
	}{
		{"valid", "m2", map[string]string{"title": "Report form", "type": "activity"}, http.StatusCreated, ""},
		{"unknown module", "m9", map[string]string{"title": "Report form", "type": "activity"}, http.StatusUnprocessableEntity, "module_id"},
		{"type outside set", "m2", map[string]string{"title": "Report form", "type": "podcast"}, http.StatusUnprocessableEntity, "type"},
		{"bad resource url", "m2", map[string]string{"title": "Report form", "type": "video", "resource_url": "not a url"}, http.StatusUnprocessableEntity, "resource_url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setup(t)
			env.login()
			rr := env.do("POST", "/api/courses/safety-101/modules/"+tt.moduleID+"/content", tt.body)
			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tt.wantStatus, rr.Body.String())
			}
			if tt.wantStatus == http.StatusCreated {
				stored := env.courses.courses["safety-101"]
				if n := len(stored.Modules[1].Content); n != 1 {
					t.Errorf("m2 has %d items, want 1", n)
				}
				if n := len(stored.Modules[0].Content); n != 1 {
					t.Errorf("m1 changed to %d items", n)
				}
				return
			}
			if body := decodeJSON[errorBody](t, rr); body.Field != tt.wantField {
				t.Errorf("field = %q, want %q", body.Field, tt.wantField)
			}
		})
	}
}

func TestSetModuleCompleted_Persists(t *testing.T) {
	env := setup(t)
	env.login()

	rr := env.do("PUT", "/api/courses/safety-101/modules/m2/completed", map[string]bool{"completed": true})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}
	if !env.courses.courses["safety-101"].Modules[1].Completed {
		t.Error("completion should be stored")
	}
	view := decodeJSON[courseView](t, env.do("GET", "/api/courses/safety-101", nil))
	if view.Overlay["m2"] {
		t.Error("durable completion must not touch the overlay")
	}
}

func TestAudienceCSV(t *testing.T) {
	env := setup(t)
	env.login()

	rr := env.do("GET", "/api/courses/safety-101/audience.csv", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}
	lines := strings.Split(strings.TrimSpace(rr.Body.String()), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[0], "employee_id,") {
		t.Errorf("csv = %q, want header plus 2 rows", rr.Body.String())
	}
}

func TestDiscardViewer_DropsOverlay(t *testing.T) {
	env := setup(t)
	env.do("POST", "/api/courses/safety-101/modules/m1/toggle", map[string]string{})

	if rr := env.do("DELETE", "/api/viewer", map[string]string{}); rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rr.Code)
	}
	view := decodeJSON[courseView](t, env.do("GET", "/api/courses/safety-101", nil))
	if view.Overlay["m1"] {
		t.Error("overlay should be gone after discard")
	}
}

func TestWriteError_Mapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &courseDomain.ValidationError{Field: "title", Message: "required"}, http.StatusUnprocessableEntity},
		{"in flight", workspace.ErrSaveInFlight, http.StatusConflict},
		{"cancel while saving", workspace.ErrCancelWhileSaving, http.StatusConflict},
		{"persistence", &courseDomain.PersistenceError{CourseID: "x", Err: errStoreDown}, http.StatusServiceUnavailable},
		{"not found", courseDomain.ErrNotFound, http.StatusNotFound},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			writeError(rr, tt.err, nil)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}
