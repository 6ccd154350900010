package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"academy/internal/domain/account"
)

// AccountStoreForLogin defines the store interface needed by Login.
type AccountStoreForLogin interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult carries the result of a successful login.
type LoginResult struct {
	AccountID string
	Email     string
	Role      string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	AccountStore AccountStoreForLogin
}

// ErrInvalidCredentials is returned for any login failure so callers cannot probe for accounts.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ExecuteLogin validates credentials and returns account info for session creation.
// PRE: none
// POST: Returns account info on success, ErrInvalidCredentials otherwise
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" || input.Password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	acct, err := deps.AccountStore.GetByEmail(ctx, email)
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "not_found")
		return LoginResult{}, ErrInvalidCredentials
	}
	if err := acct.CheckPassword(input.Password); err != nil {
		slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "wrong_password")
		return LoginResult{}, ErrInvalidCredentials
	}

	slog.Info("auth_event", "event", "login_success", "email", acct.Email, "role", acct.Role)
	return LoginResult{AccountID: acct.ID, Email: acct.Email, Role: acct.Role}, nil
}
