package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	emailPkg "academy/internal/adapters/email"
	courseStore "academy/internal/adapters/storage/course"
	employeeStore "academy/internal/adapters/storage/employee"
	"academy/internal/application/orchestrators"
	"academy/internal/domain/access"
)

var sendLink bool

var accessLinkCmd = &cobra.Command{
	Use:   "access-link <courseID> <employeeID>",
	Short: "Print (and optionally email) an employee's direct-access URL",
	Long: `Verifies that both identifiers resolve, then prints the direct-access URL
built from ACADEMY_PUBLIC_URL. With --send the link is also emailed through
Resend when ACADEMY_RESEND_KEY is set.`,
	Args: cobra.ExactArgs(2),
	RunE: runAccessLink,
}

func init() {
	accessLinkCmd.Flags().BoolVar(&sendLink, "send", false, "email the link to the employee")
}

func runAccessLink(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	courses := courseStore.NewSQLiteStore(db)
	employees := employeeStore.NewSQLiteStore(db)

	res, err := orchestrators.ExecuteResolveDirectAccess(cmd.Context(), orchestrators.ResolveDirectAccessInput{
		CourseID:   args[0],
		EmployeeID: args[1],
	}, orchestrators.ResolveDirectAccessDeps{
		CourseStore:   courses,
		EmployeeStore: employees,
		Now:           time.Now,
	})
	if err != nil {
		return err
	}

	link := access.Link{CourseID: res.Course.ID, EmployeeID: res.Employee.ID}
	fmt.Fprintln(cmd.OutOrStdout(), link.URL(cfg.PublicURL))

	if !sendLink {
		return nil
	}
	var sender emailPkg.Sender = emailPkg.NewNoopSender()
	if cfg.ResendKey != "" {
		sender = emailPkg.NewResendSender(cfg.ResendKey, cfg.EmailFrom)
	}
	if _, err := orchestrators.ExecuteSendAccessLink(cmd.Context(), orchestrators.SendAccessLinkInput{
		CourseID:   link.CourseID,
		EmployeeID: link.EmployeeID,
		BaseURL:    cfg.PublicURL,
	}, orchestrators.SendAccessLinkDeps{
		CourseStore:   courses,
		EmployeeStore: employees,
		Sender:        sender,
	}); err != nil {
		return fmt.Errorf("send link: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "sent to %s\n", res.Employee.Email)
	return nil
}
