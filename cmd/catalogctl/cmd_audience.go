package main

import (
	"github.com/spf13/cobra"

	courseStore "academy/internal/adapters/storage/course"
	employeeStore "academy/internal/adapters/storage/employee"
	"academy/internal/application/catalogio"
	"academy/internal/application/projections"
)

var audienceCmd = &cobra.Command{
	Use:   "audience <courseID>",
	Short: "Write the enrolled employees of a course as CSV to stdout",
	Args:  cobra.ExactArgs(1),
	RunE:  runAudience,
}

func runAudience(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	detail, err := projections.QueryGetCourseDetail(cmd.Context(), projections.GetCourseDetailQuery{CourseID: args[0]}, projections.GetCourseDetailDeps{
		CourseStore:   courseStore.NewSQLiteStore(db),
		EmployeeStore: employeeStore.NewSQLiteStore(db),
	})
	if err != nil {
		return err
	}
	return catalogio.WriteAudienceCSV(cmd.OutOrStdout(), detail.Audience)
}
