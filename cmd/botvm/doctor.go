package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/botvm/pkg/doctor"
)

// newDoctorCmd creates the doctor subcommand
func newDoctorCmd() *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check host dependencies",
		Long:  `Check that every tool provisioning relies on is installed, and optionally install missing ones.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, fix)
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Run the fix command for each missing dependency")

	return cmd
}

func runDoctor(cmd *cobra.Command, fix bool) error {
	checker := doctor.NewChecker()

	if checker.Platform() != "linux" {
		fmt.Printf("Warning: provisioning targets linux hosts; checks on %s are informational only.\n\n", checker.Platform())
	}

	groups := checker.CheckAllAsync(cmd.Context())

	missing := 0
	for _, group := range groups {
		fmt.Printf("%s: %s\n", group.Name, group.Description)
		for _, check := range group.Checks {
			marker := "ok"
			if check.Status != doctor.StatusOK {
				marker = check.Status.String()
				missing++
			}
			fmt.Printf("  [%s] %-22s %s\n", marker, check.Name, check.Message)
		}
		fmt.Println()
	}

	summary := checker.GetSummary(groups)
	fmt.Printf("%d checks: %d ok, %d missing, %d warnings, %d errors\n",
		summary.Total, summary.OK, summary.Missing, summary.Warnings, summary.Errors)

	if missing == 0 {
		return nil
	}

	if !fix {
		fmt.Println("\nRun with --fix to install missing dependencies.")
		return fmt.Errorf("%d dependency check(s) failed", missing)
	}

	fixer := doctor.NewFixer()
	for _, group := range groups {
		for _, check := range group.Checks {
			if check.Status != doctor.StatusMissing || check.FixCommand == nil {
				continue
			}
			fmt.Printf("Fixing %s: %s\n", check.Name, check.FixCommand.Description)
			if err := fixer.RunFix(cmd.Context(), check.FixCommand); err != nil {
				return fmt.Errorf("failed to fix %s: %w", check.Name, err)
			}
		}
	}

	fmt.Println("Fixes applied. Re-run botvm doctor to verify.")
	return nil
}
