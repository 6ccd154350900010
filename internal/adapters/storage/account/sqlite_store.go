package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"academy/internal/adapters/storage"
	domain "academy/internal/domain/account"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new AccountStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByEmail retrieves an Account by email, case-insensitively.
// PRE: email is non-empty
// POST: Returns the entity or an error wrapping ErrNotFound
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, email, password_hash, role, created_at FROM account WHERE email = ?",
		strings.ToLower(strings.TrimSpace(email)))

	var entity domain.Account
	var createdAt string
	err := row.Scan(&entity.ID, &entity.Email, &entity.PasswordHash, &entity.Role, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Account{}, fmt.Errorf("%s: %w", email, ErrNotFound)
	}
	if err != nil {
		return domain.Account{}, err
	}
	entity.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return entity, nil
}

// Save persists an Account to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update); email stored lower-case
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Account) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO account (id, email, password_hash, role, created_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET email=excluded.email, password_hash=excluded.password_hash, role=excluded.role`,
		entity.ID,
		strings.ToLower(strings.TrimSpace(entity.Email)),
		entity.PasswordHash,
		entity.Role,
		entity.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// Count returns the total number of accounts.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM account").Scan(&count)
	return count, err
}
