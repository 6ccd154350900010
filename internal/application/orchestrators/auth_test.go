package orchestrators

import (
	"context"
	"errors"
	"strings"
	"testing"

	"academy/internal/domain/account"
)

// mockAccountStore implements the account store interfaces for testing.
type mockAccountStore struct {
	accounts map[string]account.Account // keyed by email
}

func newMockAccountStore() *mockAccountStore {
	return &mockAccountStore{accounts: make(map[string]account.Account)}
}

func (m *mockAccountStore) GetByEmail(_ context.Context, email string) (account.Account, error) {
	a, ok := m.accounts[strings.ToLower(email)]
	if !ok {
		return account.Account{}, errors.New("not found")
	}
	return a, nil
}

func (m *mockAccountStore) Save(_ context.Context, a account.Account) error {
	m.accounts[a.Email] = a
	return nil
}

func (m *mockAccountStore) Count(_ context.Context) (int, error) {
	return len(m.accounts), nil
}

func createDeps(store *mockAccountStore) CreateAccountDeps {
	return CreateAccountDeps{AccountStore: store, GenerateID: fixedID, Now: fixedNow}
}

// TestExecuteEnsureAdmin_CreatesOnce verifies the first admin is seeded exactly once.
func TestExecuteEnsureAdmin_CreatesOnce(t *testing.T) {
	store := newMockAccountStore()
	input := CreateAccountInput{Email: "Admin@Example.com", Password: "correct horse battery"}

	created, err := ExecuteEnsureAdmin(context.Background(), input, createDeps(store))
	if err != nil || !created {
		t.Fatalf("first ensure: created=%v err=%v", created, err)
	}
	acct := store.accounts["admin@example.com"]
	if acct.Role != account.RoleAdmin || acct.PasswordHash == "" {
		t.Errorf("unexpected account %+v", acct)
	}

	created, err = ExecuteEnsureAdmin(context.Background(), input, createDeps(store))
	if err != nil || created {
		t.Errorf("second ensure: created=%v err=%v, want false nil", created, err)
	}
}

// TestExecuteCreateAccount_DuplicateEmail verifies emails are unique.
func TestExecuteCreateAccount_DuplicateEmail(t *testing.T) {
	store := newMockAccountStore()
	input := CreateAccountInput{Email: "ed@example.com", Password: "long enough password", Role: account.RoleEditor}
	if _, err := ExecuteCreateAccount(context.Background(), input, createDeps(store)); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := ExecuteCreateAccount(context.Background(), input, createDeps(store)); !errors.Is(err, ErrEmailAlreadyExists) {
		t.Errorf("err = %v, want ErrEmailAlreadyExists", err)
	}
}

// TestExecuteLogin covers success and the uniform failure error.
func TestExecuteLogin(t *testing.T) {
	store := newMockAccountStore()
	if _, err := ExecuteCreateAccount(context.Background(), CreateAccountInput{
		Email: "ed@example.com", Password: "long enough password", Role: account.RoleEditor,
	}, createDeps(store)); err != nil {
		t.Fatalf("create: %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"success", "ed@example.com", "long enough password", nil},
		{"wrong password", "ed@example.com", "wrong password here", ErrInvalidCredentials},
		{"unknown email", "who@example.com", "long enough password", ErrInvalidCredentials},
		{"empty", "", "", ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ExecuteLogin(context.Background(), LoginInput{Email: tt.email, Password: tt.password},
				LoginDeps{AccountStore: store})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && res.Role != account.RoleEditor {
				t.Errorf("role = %q", res.Role)
			}
		})
	}
}
