package web

import (
	"errors"
	"log/slog"
	"net/http"

	"academy/internal/adapters/http/middleware"
	"academy/internal/application/orchestrators"
)

type loginPage struct {
	Email string
	Error string
}

// handleLoginPage handles GET /login.
func handleLoginPage(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, r, http.StatusOK, "login.html", loginPage{})
}

// handleLogin handles POST /login for both the HTML form and JSON clients.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	var input orchestrators.LoginInput
	jsonClient := isJSONRequest(r)
	if jsonClient {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := strictDecode(r, &body); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		input = orchestrators.LoginInput{Email: body.Email, Password: body.Password}
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		input = orchestrators.LoginInput{Email: r.FormValue("email"), Password: r.FormValue("password")}
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), input, orchestrators.LoginDeps{
		AccountStore: stores.AccountStore,
	})
	if errors.Is(err, orchestrators.ErrInvalidCredentials) {
		if jsonClient {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: err.Error()})
			return
		}
		renderTemplate(w, r, http.StatusUnauthorized, "login.html", loginPage{Email: input.Email, Error: "Invalid email or password."})
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}

	token, err := sessions.Create(result.AccountID, result.Email, result.Role)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)

	if jsonClient {
		writeJSON(w, http.StatusOK, map[string]string{"email": result.Email, "role": result.Role})
		return
	}
	http.Redirect(w, r, "/courses", http.StatusSeeOther)
}

// handleLogout handles POST /logout. The viewer's workspaces go with the session.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.SessionToken(r); token != "" {
		sessions.Delete(token)
	}
	middleware.ClearSessionCookie(w)
	n := workspaces.Discard(middleware.ViewerToken(r.Context()))
	slog.Info("auth_event", "event", "logout", "workspaces_discarded", n)

	if isJSONRequest(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/courses", http.StatusSeeOther)
}
