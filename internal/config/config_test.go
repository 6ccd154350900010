package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"ACADEMY_ADDR", "ACADEMY_ENV", "ACADEMY_SLOW_QUERY_MS", "ACADEMY_WORKSPACE_TTL", "ACADEMY_PUBLIC_URL"} {
		t.Setenv(k, "")
	}
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.Env != "development" || cfg.SlowQuery != 50*time.Millisecond || cfg.WorkspaceTTL != 30*time.Minute {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.IsProduction() {
		t.Error("default env should not be production")
	}
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "test.env")
	content := "ACADEMY_DB_PATH=from-file.db\nACADEMY_ADDR=:9999\nACADEMY_PUBLIC_URL=https://academy.example.com/\n"
	if err := os.WriteFile(file, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ACADEMY_ADDR", ":7000")
	t.Setenv("ACADEMY_DB_PATH", "")
	t.Setenv("ACADEMY_PUBLIC_URL", "")
	// godotenv only fills variables that are unset, so clear what the file provides.
	os.Unsetenv("ACADEMY_DB_PATH")
	os.Unsetenv("ACADEMY_PUBLIC_URL")

	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "from-file.db" {
		t.Errorf("DBPath = %q, want from-file.db", cfg.DBPath)
	}
	if cfg.Addr != ":7000" {
		t.Errorf("Addr = %q, want environment value :7000", cfg.Addr)
	}
	if cfg.PublicURL != "https://academy.example.com" {
		t.Errorf("PublicURL = %q, want trailing slash trimmed", cfg.PublicURL)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad slow query", map[string]string{"ACADEMY_SLOW_QUERY_MS": "fast"}},
		{"bad ttl", map[string]string{"ACADEMY_WORKSPACE_TTL": "forever"}},
		{"production without csrf key", map[string]string{"ACADEMY_ENV": "production", "ACADEMY_CSRF_KEY": "short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"ACADEMY_SLOW_QUERY_MS", "ACADEMY_WORKSPACE_TTL", "ACADEMY_ENV", "ACADEMY_CSRF_KEY"} {
				t.Setenv(k, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(filepath.Join(t.TempDir(), "none.env")); err == nil {
				t.Error("expected error")
			}
		})
	}
}
