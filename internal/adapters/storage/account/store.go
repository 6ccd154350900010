package account

import (
	"context"
	"errors"

	domain "academy/internal/domain/account"
)

// ErrNotFound is returned when no account matches the lookup.
var ErrNotFound = errors.New("account not found")

// Store persists Account state.
type Store interface {
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	Save(ctx context.Context, value domain.Account) error
	Count(ctx context.Context) (int, error)
}
