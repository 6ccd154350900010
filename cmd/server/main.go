package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	emailPkg "academy/internal/adapters/email"
	web "academy/internal/adapters/http"
	"academy/internal/adapters/storage"
	accountStore "academy/internal/adapters/storage/account"
	courseStore "academy/internal/adapters/storage/course"
	employeeStore "academy/internal/adapters/storage/employee"
	"academy/internal/application/orchestrators"
	"academy/internal/application/workspace"
	"academy/internal/config"
	"academy/internal/platform/logger"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "academy: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	flush, err := logger.Install(cfg.Env)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer flush()

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	// Slow-query instrumentation sits under every store.
	timedDB := storage.NewTimedDB(db, cfg.SlowQuery)
	stores := &web.Stores{
		CourseStore:   courseStore.NewSQLiteStore(timedDB),
		EmployeeStore: employeeStore.NewSQLiteStore(timedDB),
		AccountStore:  accountStore.NewSQLiteStore(timedDB),
	}

	created, err := orchestrators.ExecuteEnsureAdmin(context.Background(), orchestrators.CreateAccountInput{
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	}, orchestrators.CreateAccountDeps{
		AccountStore: stores.AccountStore,
		GenerateID:   func() string { return uuid.New().String() },
		Now:          time.Now,
	})
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if created {
		slog.Info("admin_seeded", "email", cfg.AdminEmail)
	}

	var sender emailPkg.Sender
	if cfg.ResendKey != "" {
		sender = emailPkg.NewResendSender(cfg.ResendKey, cfg.EmailFrom)
		slog.Info("email_sender", "provider", "resend")
	} else {
		sender = emailPkg.NewNoopSender()
		if cfg.IsProduction() {
			slog.Warn("email_sender", "provider", "noop", "reason", "ACADEMY_RESEND_KEY is not set; access links will not be delivered")
		} else {
			slog.Info("email_sender", "provider", "noop")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := workspace.NewRegistry(workspace.Deps{
		CourseStore: stores.CourseStore,
		GenerateID:  func() string { return uuid.New().String() },
	}, cfg.WorkspaceTTL)
	go registry.Run(ctx, time.Minute)

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: web.NewMux(stores, web.Options{
			CSRFKey:    cfg.CSRFKey,
			Secure:     cfg.IsProduction(),
			PublicURL:  cfg.PublicURL,
			Sender:     sender,
			Workspaces: registry,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_start", "version", version, "addr", cfg.Addr, "env", cfg.Env, "schema", storage.LatestSchemaVersion())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		slog.Info("server_stop", "reason", "signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	queries, slow := timedDB.Stats()
	slog.Info("server_stopped", "queries", queries, "slow_queries", slow)
	return nil
}
