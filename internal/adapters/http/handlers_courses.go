package web

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"academy/internal/adapters/http/middleware"
	courseStore "academy/internal/adapters/storage/course"
	"academy/internal/application/catalogio"
	"academy/internal/application/projections"
	"academy/internal/application/workspace"
	"academy/internal/domain/access"
	"academy/internal/domain/completion"
	"academy/internal/domain/course"
)

// courseView is the course detail read model plus the viewer's workspace state.
type courseView struct {
	projections.CourseDetail
	Overlay     completion.Overlay                         `json:"overlay"`
	ModuleForm  workspace.FormView[workspace.ModuleDraft]  `json:"module_form"`
	ContentForm workspace.FormView[workspace.ContentDraft] `json:"content_form"`
}

// markerEmployee returns the employee named by the direct-access markers when
// they were issued for courseID.
func markerEmployee(r *http.Request, courseID string) string {
	c, err := r.Cookie(access.MarkerCourse)
	if err != nil {
		return ""
	}
	if v, err := url.QueryUnescape(c.Value); err != nil || v != courseID {
		return ""
	}
	e, err := r.Cookie(access.MarkerEmployee)
	if err != nil {
		return ""
	}
	v, err := url.QueryUnescape(e.Value)
	if err != nil {
		return ""
	}
	return v
}

// acquireWorkspace returns the requesting viewer's workspace for the course in the path.
func acquireWorkspace(r *http.Request) (*workspace.Workspace, error) {
	return workspaces.Acquire(r.Context(), middleware.ViewerToken(r.Context()), r.PathValue("id"))
}

func loadCourseView(r *http.Request) (courseView, error) {
	ctx := r.Context()
	ws, err := acquireWorkspace(r)
	if err != nil {
		return courseView{}, err
	}
	employees, err := stores.EmployeeStore.List(ctx)
	if err != nil {
		return courseView{}, err
	}
	all, err := stores.CourseStore.List(ctx, courseStore.ListFilter{})
	if err != nil {
		return courseView{}, err
	}

	v := ws.View()
	detail := projections.BuildCourseDetail(v.Course, employees, all)
	detail.SetViewer(markerEmployee(r, v.Course.ID))
	return courseView{
		CourseDetail: detail,
		Overlay:      v.Overlay,
		ModuleForm:   v.ModuleForm,
		ContentForm:  v.ContentForm,
	}, nil
}

func courseListQuery(r *http.Request) projections.GetCourseListQuery {
	q := r.URL.Query()
	return projections.GetCourseListQuery{
		Search:   q.Get("q"),
		Category: q.Get("category"),
		Level:    q.Get("level"),
	}
}

// handleCourseListAPI handles GET /api/courses.
func handleCourseListAPI(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetCourseList(r.Context(), courseListQuery(r), projections.GetCourseListDeps{
		CourseStore: stores.CourseStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleCoursesPage handles GET /courses.
func handleCoursesPage(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetCourseList(r.Context(), courseListQuery(r), projections.GetCourseListDeps{
		CourseStore: stores.CourseStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, http.StatusOK, "courses.html", result)
}

// handleCourseDetailAPI handles GET /api/courses/{id}.
func handleCourseDetailAPI(w http.ResponseWriter, r *http.Request) {
	view, err := loadCourseView(r)
	if err != nil {
		writeError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleCoursePage handles GET /courses/{id}.
func handleCoursePage(w http.ResponseWriter, r *http.Request) {
	view, err := loadCourseView(r)
	if err != nil {
		if errors.Is(err, course.ErrNotFound) {
			renderErrorPage(w, r, http.StatusNotFound, "Course not found", "That course does not exist or has been removed.")
			return
		}
		internalError(w, err)
		return
	}
	renderTemplate(w, r, http.StatusOK, "course.html", view)
}

// handleToggleCompletion handles POST /api/courses/{id}/modules/{moduleID}/toggle.
// The flag lives in the viewer's workspace only.
func handleToggleCompletion(w http.ResponseWriter, r *http.Request) {
	ws, err := acquireWorkspace(r)
	if err != nil {
		writeError(w, err, nil)
		return
	}
	moduleID := r.PathValue("moduleID")
	done := ws.ToggleCompletion(moduleID)
	writeJSON(w, http.StatusOK, map[string]any{
		"module_id": moduleID,
		"completed": done,
		"overlay":   ws.View().Overlay,
	})
}

// handleOpenModuleForm handles POST /api/courses/{id}/modules/form.
func handleOpenModuleForm(w http.ResponseWriter, r *http.Request) {
	ws, err := acquireWorkspace(r)
	if err != nil {
		writeError(w, err, nil)
		return
	}
	if err := ws.OpenModuleForm(); err != nil {
		writeError(w, err, ws.View().ModuleForm)
		return
	}
	writeJSON(w, http.StatusOK, ws.View().ModuleForm)
}

// handleCancelModuleForm handles DELETE /api/courses/{id}/modules/form.
func handleCancelModuleForm(w http.ResponseWriter, r *http.Request) {
	ws, err := acquireWorkspace(r)
	if err != nil {
		writeError(w, err, nil)
		return
	}
	if err := ws.CancelModuleForm(); err != nil {
		writeError(w, err, ws.View().ModuleForm)
		return
	}
	writeJSON(w, http.StatusOK, ws.View().ModuleForm)
}

// handleSubmitModule handles POST /api/courses/{id}/modules.
func handleSubmitModule(w http.ResponseWriter, r *http.Request) {
	var draft workspace.ModuleDraft
	if err := strictDecode(r, &draft); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	ws, err := acquireWorkspace(r)
	if err != nil {
		writeError(w, err, nil)
		return
	}
	updated, err := ws.SubmitModule(r.Context(), draft)
	if err != nil {
		writeError(w, err, ws.View().ModuleForm)
		return
	}
	logEditor(r, "add_module", updated.ID)
	writeJSON(w, http.StatusCreated, updated)
}

// handleOpenContentForm handles POST /api/courses/{id}/modules/{moduleID}/content/form.
func handleOpenContentForm(w http.ResponseWriter, r *http.Request) {
	ws, err := acquireWorkspace(r)
	if err != nil {
		writeError(w, err, nil)
		return
	}
	if err := ws.OpenContentForm(r.PathValue("moduleID")); err != nil {
		writeError(w, err, ws.View().ContentForm)
		return
	}
	writeJSON(w, http.StatusOK, ws.View().ContentForm)
}

// handleCancelContentForm handles DELETE /api/courses/{id}/modules/{moduleID}/content/form.
func handleCancelContentForm(w http.ResponseWriter, r *http.Request) {
	ws, err := acquireWorkspace(r)
	if err != nil {
		writeError(w, err, nil)
		return
	}
	if err := ws.CancelContentForm(); err != nil {
		writeError(w, err, ws.View().ContentForm)
		return
	}
	writeJSON(w, http.StatusOK, ws.View().ContentForm)
}

// handleSubmitContent handles POST /api/courses/{id}/modules/{moduleID}/content.
// The target module comes from the path.
func handleSubmitContent(w http.ResponseWriter, r *http.Request) {
	var draft workspace.ContentDraft
	if err := strictDecode(r, &draft); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	draft.ModuleID = r.PathValue("moduleID")

	ws, err := acquireWorkspace(r)
	if err != nil {
		writeError(w, err, nil)
		return
	}
	updated, err := ws.SubmitContent(r.Context(), draft)
	if err != nil {
		writeError(w, err, ws.View().ContentForm)
		return
	}
	logEditor(r, "add_content", updated.ID)
	writeJSON(w, http.StatusCreated, updated)
}

// handleSetModuleCompleted handles PUT /api/courses/{id}/modules/{moduleID}/completed.
func handleSetModuleCompleted(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Completed bool `json:"completed"`
	}
	if err := strictDecode(r, &body); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	ws, err := acquireWorkspace(r)
	if err != nil {
		writeError(w, err, nil)
		return
	}
	updated, err := ws.SetModuleCompleted(r.Context(), r.PathValue("moduleID"), body.Completed)
	if err != nil {
		writeError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// handleDiscardViewer handles DELETE /api/viewer, dropping every workspace
// and overlay held for the caller.
func handleDiscardViewer(w http.ResponseWriter, r *http.Request) {
	n := workspaces.Discard(middleware.ViewerToken(r.Context()))
	middleware.ClearViewerCookie(w)
	slog.Info("viewer_discarded", "workspaces", n)
	w.WriteHeader(http.StatusNoContent)
}

// handleAudienceCSV handles GET /api/courses/{id}/audience.csv.
func handleAudienceCSV(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	detail, err := projections.QueryGetCourseDetail(r.Context(), projections.GetCourseDetailQuery{CourseID: id}, projections.GetCourseDetailDeps{
		CourseStore:   stores.CourseStore,
		EmployeeStore: stores.EmployeeStore,
	})
	if err != nil {
		writeError(w, err, nil)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+url.PathEscape(id)+`-audience.csv"`)
	if err := catalogio.WriteAudienceCSV(w, detail.Audience); err != nil {
		slog.Error("audience_csv_failed", "course_id", id, "error", err)
	}
}

// logEditor records which operator performed a catalog change.
func logEditor(r *http.Request, action, courseID string) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	slog.Info("editor_action", "action", action, "course_id", courseID, "account_id", sess.AccountID)
}
