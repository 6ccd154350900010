package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	courseStore "academy/internal/adapters/storage/course"
	employeeStore "academy/internal/adapters/storage/employee"
	"academy/internal/application/catalogio"
)

var importCmd = &cobra.Command{
	Use:   "import <seed.yaml>",
	Short: "Create or replace courses and employees from a YAML seed file",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	seed, err := catalogio.ParseSeed(f)
	if err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := catalogio.Import(cmd.Context(), seed, catalogio.ImportDeps{
		CourseStore:   courseStore.NewSQLiteStore(db),
		EmployeeStore: employeeStore.NewSQLiteStore(db),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "courses: %d created, %d replaced; employees: %d\n",
		res.CoursesCreated, res.CoursesReplaced, res.Employees)
	return nil
}
