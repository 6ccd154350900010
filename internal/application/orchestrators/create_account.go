package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"academy/internal/domain/account"
)

// AccountStoreForCreate defines the store interface needed by account creation.
type AccountStoreForCreate interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
	Count(ctx context.Context) (int, error)
}

// CreateAccountInput carries input for the orchestrator.
type CreateAccountInput struct {
	Email    string
	Password string
	Role     string
}

// CreateAccountDeps holds dependencies for CreateAccount.
type CreateAccountDeps struct {
	AccountStore AccountStoreForCreate
	GenerateID   func() string
	Now          func() time.Time
}

// ErrEmailAlreadyExists is returned when the email is taken.
var ErrEmailAlreadyExists = errors.New("an account with this email already exists")

// ExecuteCreateAccount coordinates account creation.
// PRE: Valid email, password >= 12 chars, valid role
// POST: Account created with hashed password
// INVARIANT: Email must be unique
func ExecuteCreateAccount(ctx context.Context, input CreateAccountInput, deps CreateAccountDeps) (account.Account, error) {
	acct := account.Account{
		ID:        deps.GenerateID(),
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		Role:      input.Role,
		CreatedAt: deps.Now(),
	}
	if err := acct.Validate(); err != nil {
		return account.Account{}, err
	}
	if _, err := deps.AccountStore.GetByEmail(ctx, acct.Email); err == nil {
		return account.Account{}, ErrEmailAlreadyExists
	}
	if err := acct.SetPassword(input.Password); err != nil {
		return account.Account{}, err
	}
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return account.Account{}, err
	}

	slog.Info("auth_event", "event", "account_created", "account_id", acct.ID, "role", acct.Role)
	return acct, nil
}

// ExecuteEnsureAdmin creates the first admin account when none exist yet.
// PRE: none; empty credentials make this a no-op
// POST: Returns true if an account was created
func ExecuteEnsureAdmin(ctx context.Context, input CreateAccountInput, deps CreateAccountDeps) (bool, error) {
	if input.Email == "" || input.Password == "" {
		return false, nil
	}
	n, err := deps.AccountStore.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	input.Role = account.RoleAdmin
	if _, err := ExecuteCreateAccount(ctx, input, deps); err != nil {
		return false, err
	}
	return true, nil
}
