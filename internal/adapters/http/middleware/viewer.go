package middleware

import (
	"context"
	"log/slog"
	"net/http"
)

const viewerContextKey contextKey = "viewer"

// ViewerCookieName identifies the browser's viewing context.
const ViewerCookieName = "academy_viewer"

// Viewer ensures every request carries a viewing-context token, issuing a
// cookie on first contact. Workspaces are keyed by this token.
func Viewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ""
		if c, err := r.Cookie(ViewerCookieName); err == nil && len(c.Value) == 64 {
			token = c.Value
		}
		if token == "" {
			t, err := generateToken()
			if err != nil {
				slog.Error("viewer_token_failed", "error", err)
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}
			token = t
			http.SetCookie(w, &http.Cookie{
				Name:     ViewerCookieName,
				Value:    token,
				HttpOnly: true,
				Secure:   SecureCookies,
				SameSite: http.SameSiteLaxMode,
				Path:     "/",
			})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), viewerContextKey, token)))
	})
}

// ViewerToken returns the viewing-context token set by Viewer.
func ViewerToken(ctx context.Context) string {
	token, _ := ctx.Value(viewerContextKey).(string)
	return token
}

// ClearViewerCookie ends the viewing context on the client.
func ClearViewerCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     ViewerCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}
