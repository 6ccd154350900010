// Command catalogctl is the operator CLI for the course catalog: seeding from
// YAML, exporting audiences and issuing direct-access links.
package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"academy/internal/adapters/storage"
	"academy/internal/config"
	"academy/internal/platform/logger"
)

var (
	envFile string
	dbPath  string
)

// cfg is loaded once in the root PersistentPreRunE.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:           "catalogctl",
	Short:         "Operate the academy course catalog",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(envFile)
		if err != nil {
			return err
		}
		if dbPath != "" {
			loaded.DBPath = dbPath
		}
		cfg = loaded
		flush, err := logger.Install(cfg.Env)
		if err != nil {
			return err
		}
		cobra.OnFinalize(flush)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (default: ACADEMY_DB_PATH)")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(audienceCmd)
	rootCmd.AddCommand(accessLinkCmd)
}

// openDB opens and migrates the configured database.
func openDB() (*sql.DB, error) {
	return storage.Open(cfg.DBPath)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "catalogctl: %v\n", err)
		os.Exit(1)
	}
}
