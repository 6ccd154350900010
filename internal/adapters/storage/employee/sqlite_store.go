package employee

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"academy/internal/adapters/storage"
	domain "academy/internal/domain/employee"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new employee store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an Employee and their progress records.
// PRE: id is non-empty
// POST: Returns the entity, or an error wrapping domain.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Employee, error) {
	var e domain.Employee
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, department FROM employee WHERE id = ?", id,
	).Scan(&e.ID, &e.Name, &e.Email, &e.Department)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Employee{}, fmt.Errorf("employee %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Employee{}, err
	}
	list := []domain.Employee{e}
	if err := s.attachProgress(ctx, list); err != nil {
		return domain.Employee{}, err
	}
	return list[0], nil
}

// List returns every employee ordered by name.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Employee, error) {
	return s.query(ctx, "SELECT id, name, email, department FROM employee ORDER BY name, id")
}

// ListByCourse returns employees holding a progress record for courseID.
// POST: Each returned employee carries all of their records, not only courseID's
func (s *SQLiteStore) ListByCourse(ctx context.Context, courseID string) ([]domain.Employee, error) {
	return s.query(ctx, `SELECT e.id, e.name, e.email, e.department
		FROM employee e JOIN progress_record p ON p.employee_id = e.id
		WHERE p.course_id = ? ORDER BY e.name, e.id`, courseID)
}

// Save persists an Employee, replacing their progress records.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Employee) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO employee (id, name, email, department) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name=excluded.name, email=excluded.email, department=excluded.department`,
		entity.ID, entity.Name, entity.Email, entity.Department,
	); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM progress_record WHERE employee_id = ?", entity.ID); err != nil {
		return err
	}
	for _, p := range entity.Progress {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO progress_record (employee_id, course_id, percent) VALUES (?, ?, ?)",
			entity.ID, p.CourseID, p.Percent,
		); err != nil {
			return fmt.Errorf("insert progress %s/%s: %w", entity.ID, p.CourseID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) query(ctx context.Context, q string, args ...any) ([]domain.Employee, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	var results []domain.Employee
	for rows.Next() {
		var e domain.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Email, &e.Department); err != nil {
			rows.Close()
			return nil, err
		}
		results = append(results, e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if err := s.attachProgress(ctx, results); err != nil {
		return nil, err
	}
	return results, nil
}

// attachProgress loads progress records after the employee rows are closed.
func (s *SQLiteStore) attachProgress(ctx context.Context, employees []domain.Employee) error {
	for i := range employees {
		rows, err := s.db.QueryContext(ctx,
			"SELECT course_id, percent FROM progress_record WHERE employee_id = ? ORDER BY course_id", employees[i].ID)
		if err != nil {
			return err
		}
		records := []domain.ProgressRecord{}
		for rows.Next() {
			var p domain.ProgressRecord
			if err := rows.Scan(&p.CourseID, &p.Percent); err != nil {
				rows.Close()
				return err
			}
			records = append(records, p)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return err
		}
		employees[i].Progress = records
	}
	return nil
}
