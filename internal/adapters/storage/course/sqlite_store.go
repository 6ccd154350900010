package course

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"academy/internal/adapters/storage"
	domain "academy/internal/domain/course"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new course store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// querier is satisfied by both SQLDB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// GetByID loads a course with its modules and content in display order.
// PRE: id is non-empty
// POST: Returns the aggregate, or an error wrapping domain.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Course, error) {
	c, err := scanCourseRow(s.db.QueryRowContext(ctx,
		"SELECT id, title, description, category, level, duration FROM course WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Course{}, fmt.Errorf("course %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Course{}, err
	}
	if err := loadModules(ctx, s.db, []*domain.Course{&c}); err != nil {
		return domain.Course{}, err
	}
	return c, nil
}

// Create inserts a new course aggregate.
// PRE: c has been validated
// POST: course, modules and content rows inserted atomically
func (s *SQLiteStore) Create(ctx context.Context, c domain.Course) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO course (id, title, description, category, level, duration) VALUES (?, ?, ?, ?, ?, ?)",
		c.ID, c.Title, c.Description, c.Category, c.Level, c.Duration,
	); err != nil {
		return fmt.Errorf("insert course %s: %w", c.ID, err)
	}
	if err := insertModules(ctx, tx, c); err != nil {
		return err
	}
	return tx.Commit()
}

// Replace overwrites an existing course aggregate in one transaction.
// PRE: c has been validated; a course with c.ID exists
// POST: stored course equals c exactly; on error nothing changes
func (s *SQLiteStore) Replace(ctx context.Context, c domain.Course) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE course SET title = ?, description = ?, category = ?, level = ?, duration = ? WHERE id = ?",
		c.Title, c.Description, c.Category, c.Level, c.Duration, c.ID,
	)
	if err != nil {
		return fmt.Errorf("update course %s: %w", c.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("course %s: %w", c.ID, domain.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM module_content WHERE course_id = ?", c.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM course_module WHERE course_id = ?", c.ID); err != nil {
		return err
	}
	if err := insertModules(ctx, tx, c); err != nil {
		return err
	}
	return tx.Commit()
}

// List retrieves courses matching the filter, ordered by title.
// PRE: filter has valid parameters
// POST: Returns matching aggregates with modules loaded
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Course, error) {
	query := "SELECT id, title, description, category, level, duration FROM course WHERE 1=1"
	var args []any
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query += " AND (LOWER(title) LIKE ? OR LOWER(description) LIKE ?)"
		args = append(args, like, like)
	}
	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, filter.Category)
	}
	if filter.Level != "" {
		query += " AND level = ?"
		args = append(args, filter.Level)
	}
	query += " ORDER BY title, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	var results []domain.Course
	for rows.Next() {
		c, err := scanCourseRow(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		results = append(results, c)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	ptrs := make([]*domain.Course, len(results))
	for i := range results {
		ptrs[i] = &results[i]
	}
	if err := loadModules(ctx, s.db, ptrs); err != nil {
		return nil, err
	}
	return results, nil
}

// ListCategories returns the distinct, non-empty course categories in alphabetical order.
func (s *SQLiteStore) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT category FROM course WHERE category != '' ORDER BY category")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var cat string
		if err := rows.Scan(&cat); err != nil {
			return nil, err
		}
		out = append(out, cat)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourseRow(r rowScanner) (domain.Course, error) {
	var c domain.Course
	err := r.Scan(&c.ID, &c.Title, &c.Description, &c.Category, &c.Level, &c.Duration)
	c.Modules = []domain.Module{}
	return c, err
}

// loadModules fills Modules (and their Content) for each course.
// Rows are read fully before the next query so a single-connection pool never deadlocks.
func loadModules(ctx context.Context, q querier, courses []*domain.Course) error {
	for _, c := range courses {
		rows, err := q.QueryContext(ctx,
			"SELECT id, title, duration, completed, resource_type FROM course_module WHERE course_id = ? ORDER BY position", c.ID)
		if err != nil {
			return err
		}
		modules := []domain.Module{}
		for rows.Next() {
			var m domain.Module
			var completed int
			if err := rows.Scan(&m.ID, &m.Title, &m.Duration, &completed, &m.ResourceType); err != nil {
				rows.Close()
				return err
			}
			m.Completed = completed != 0
			m.Content = []domain.Content{}
			modules = append(modules, m)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()

		rows, err = q.QueryContext(ctx,
			"SELECT module_id, id, title, type, duration, resource_url, description FROM module_content WHERE course_id = ? ORDER BY module_id, position", c.ID)
		if err != nil {
			return err
		}
		byModule := make(map[string][]domain.Content)
		for rows.Next() {
			var moduleID string
			var item domain.Content
			if err := rows.Scan(&moduleID, &item.ID, &item.Title, &item.Type, &item.Duration, &item.ResourceURL, &item.Description); err != nil {
				rows.Close()
				return err
			}
			byModule[moduleID] = append(byModule[moduleID], item)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()

		for i := range modules {
			if items, ok := byModule[modules[i].ID]; ok {
				modules[i].Content = items
			}
		}
		c.Modules = modules
	}
	return nil
}

func insertModules(ctx context.Context, tx *sql.Tx, c domain.Course) error {
	for pos, m := range c.Modules {
		completed := 0
		if m.Completed {
			completed = 1
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO course_module (id, course_id, position, title, duration, completed, resource_type) VALUES (?, ?, ?, ?, ?, ?, ?)",
			m.ID, c.ID, pos, m.Title, m.Duration, completed, m.ResourceType,
		); err != nil {
			return fmt.Errorf("insert module %s: %w", m.ID, err)
		}
		for cpos, item := range m.Content {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO module_content (id, course_id, module_id, position, title, type, duration, resource_url, description) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
				item.ID, c.ID, m.ID, cpos, item.Title, item.Type, item.Duration, item.ResourceURL, item.Description,
			); err != nil {
				return fmt.Errorf("insert content %s: %w", item.ID, err)
			}
		}
	}
	return nil
}
