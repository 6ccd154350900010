package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testSeed = `
courses:
  - id: safety-101
    title: Workplace Safety
    category: Compliance
    level: Beginner
    modules:
      - id: m1
        title: Hazards
        duration: 30m
employees:
  - id: e1
    name: Ana
    email: ana@example.com
    department: Operations
    progress:
      - course_id: safety-101
        progress: 100
  - id: e2
    name: Ben
    progress:
      - course_id: safety-101
        progress: 40
`

// execute runs the root command with args against a fresh output buffer.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCatalogctl_ImportAudienceAccessLink(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "academy.db")
	seed := filepath.Join(dir, "seed.yaml")
	if err := os.WriteFile(seed, []byte(testSeed), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	t.Setenv("ACADEMY_PUBLIC_URL", "https://academy.example.com")
	common := []string{"--db", db, "--env-file", filepath.Join(dir, "missing.env")}

	out, err := execute(t, append([]string{"import", seed}, common...)...)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, "1 created") || !strings.Contains(out, "employees: 2") {
		t.Errorf("import output = %q", out)
	}

	out, err = execute(t, append([]string{"audience", "safety-101"}, common...)...)
	if err != nil {
		t.Fatalf("audience: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Errorf("audience csv = %q, want header plus 2 rows", out)
	}

	out, err = execute(t, append([]string{"access-link", "safety-101", "e1"}, common...)...)
	if err != nil {
		t.Fatalf("access-link: %v", err)
	}
	if strings.TrimSpace(out) != "https://academy.example.com/access/safety-101/e1" {
		t.Errorf("access-link output = %q", out)
	}

	if _, err := execute(t, append([]string{"access-link", "safety-101", "nobody"}, common...)...); err == nil {
		t.Error("access-link should fail for an unknown employee")
	}
}
