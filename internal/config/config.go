// Package config loads service settings from an optional .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Addr          string
	DBPath        string
	Env           string
	CSRFKey       string
	PublicURL     string
	ResendKey     string
	EmailFrom     string
	AdminEmail    string
	AdminPassword string
	SlowQuery     time.Duration
	WorkspaceTTL  time.Duration
}

// IsProduction reports whether the service runs in production mode.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads envFiles (".env" when none are given) without overriding variables
// already set, then builds a Config from the environment. Missing files are ignored.
// POST: Returns an error only for malformed numeric or duration values, or a
// production config without a CSRF key
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := Config{
		Addr:          getEnv("ACADEMY_ADDR", ":8080"),
		DBPath:        getEnv("ACADEMY_DB_PATH", "academy.db"),
		Env:           strings.ToLower(getEnv("ACADEMY_ENV", "development")),
		CSRFKey:       os.Getenv("ACADEMY_CSRF_KEY"),
		PublicURL:     strings.TrimRight(getEnv("ACADEMY_PUBLIC_URL", "http://localhost:8080"), "/"),
		ResendKey:     os.Getenv("ACADEMY_RESEND_KEY"),
		EmailFrom:     getEnv("ACADEMY_EMAIL_FROM", "Academy <noreply@academy.example.com>"),
		AdminEmail:    os.Getenv("ACADEMY_ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ACADEMY_ADMIN_PASSWORD"),
	}

	ms, err := getEnvInt("ACADEMY_SLOW_QUERY_MS", 50)
	if err != nil {
		return Config{}, err
	}
	cfg.SlowQuery = time.Duration(ms) * time.Millisecond

	ttl, err := time.ParseDuration(getEnv("ACADEMY_WORKSPACE_TTL", "30m"))
	if err != nil {
		return Config{}, fmt.Errorf("ACADEMY_WORKSPACE_TTL: %w", err)
	}
	cfg.WorkspaceTTL = ttl

	if cfg.IsProduction() && len(cfg.CSRFKey) < 32 {
		return Config{}, errors.New("ACADEMY_CSRF_KEY must be at least 32 bytes in production")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
