package course

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	_ "modernc.org/sqlite"

	"academy/internal/adapters/storage"
	domain "academy/internal/domain/course"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func sampleCourse() domain.Course {
	return domain.Course{
		ID:          "safety-101",
		Title:       "Workplace Safety",
		Description: "Hazards, reporting and first response",
		Category:    "Compliance",
		Level:       "Beginner",
		Duration:    "2h",
		Modules: []domain.Module{
			{
				ID: "m1", Title: "Hazard basics", Duration: "30m",
				Content: []domain.Content{
					{ID: "c1", Title: "Intro video", Type: domain.ContentVideo, Duration: "5m"},
					{ID: "c2", Title: "Checklist", Type: domain.ContentReading},
				},
			},
			{ID: "m2", Title: "Reporting", Duration: "20m", Completed: true, Content: []domain.Content{}},
		},
	}
}

func TestSQLiteStore_CreateAndGet(t *testing.T) {
	store := NewSQLiteStore(setupTestDB(t))
	ctx := context.Background()
	want := sampleCourse()

	if err := store.Create(ctx, want); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := store.GetByID(ctx, want.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLiteStore_GetByID_NotFound(t *testing.T) {
	store := NewSQLiteStore(setupTestDB(t))
	_, err := store.GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStore_Replace_OverwritesWholeAggregate(t *testing.T) {
	store := NewSQLiteStore(setupTestDB(t))
	ctx := context.Background()
	original := sampleCourse()
	if err := store.Create(ctx, original); err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated := original.WithModule(domain.Module{ID: "m3", Title: "Drills"})
	updated, err := updated.WithContent("m2", domain.Content{ID: "c9", Title: "Form", Type: domain.ContentActivity})
	if err != nil {
		t.Fatalf("WithContent: %v", err)
	}
	// Dropping a module must remove it from storage too.
	updated.Modules = updated.Modules[1:]

	if err := store.Replace(ctx, updated); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	got, err := store.GetByID(ctx, original.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if diff := cmp.Diff(updated, got); diff != "" {
		t.Errorf("replace mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLiteStore_Replace_MissingCourse(t *testing.T) {
	store := NewSQLiteStore(setupTestDB(t))
	err := store.Replace(context.Background(), sampleCourse())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStore_Replace_FailureLeavesStoredCourse(t *testing.T) {
	store := NewSQLiteStore(setupTestDB(t))
	ctx := context.Background()
	original := sampleCourse()
	if err := store.Create(ctx, original); err != nil {
		t.Fatalf("Create: %v", err)
	}

	bad := original.Clone()
	bad.Title = "Changed"
	bad.Modules = append(bad.Modules, domain.Module{ID: "m1", Title: "Duplicate primary key"})
	if err := store.Replace(ctx, bad); err == nil {
		t.Fatal("expected Replace to fail on duplicate module ID")
	}

	got, err := store.GetByID(ctx, original.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if diff := cmp.Diff(original, got); diff != "" {
		t.Errorf("failed replace changed storage (-want +got):\n%s", diff)
	}
}

func TestSQLiteStore_ListAndCategories(t *testing.T) {
	store := NewSQLiteStore(setupTestDB(t))
	ctx := context.Background()

	courses := []domain.Course{
		{ID: "a", Title: "Advanced Negotiation", Category: "Sales", Level: "Advanced"},
		{ID: "b", Title: "Cold Calling", Category: "Sales", Level: "Beginner", Description: "phone prospecting"},
		{ID: "c", Title: "Data Privacy", Category: "Compliance", Level: "Beginner"},
	}
	for _, c := range courses {
		if err := store.Create(ctx, c); err != nil {
			t.Fatalf("Create %s: %v", c.ID, err)
		}
	}

	tests := []struct {
		name   string
		filter ListFilter
		want   []string
	}{
		{"all", ListFilter{}, []string{"a", "b", "c"}},
		{"by category", ListFilter{Category: "Sales"}, []string{"a", "b"}},
		{"by level", ListFilter{Level: "Beginner"}, []string{"b", "c"}},
		{"search title", ListFilter{Search: "privacy"}, []string{"c"}},
		{"search description", ListFilter{Search: "PHONE"}, []string{"b"}},
		{"combined", ListFilter{Category: "Sales", Level: "Advanced"}, []string{"a"}},
		{"no match", ListFilter{Search: "zzz"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			var ids []string
			for _, c := range got {
				ids = append(ids, c.ID)
			}
			if diff := cmp.Diff(tt.want, ids); diff != "" {
				t.Errorf("ids mismatch (-want +got):\n%s", diff)
			}
		})
	}

	cats, err := store.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if diff := cmp.Diff([]string{"Compliance", "Sales"}, cats); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLiteStore_WorksThroughTimedDB(t *testing.T) {
	tdb := storage.NewTimedDB(setupTestDB(t), 0)
	store := NewSQLiteStore(tdb)
	ctx := context.Background()

	if err := store.Create(ctx, sampleCourse()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := store.GetByID(ctx, "safety-101"); err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if queries, _ := tdb.Stats(); queries == 0 {
		t.Error("expected TimedDB to observe statements")
	}
}
