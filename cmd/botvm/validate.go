package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/botvm/pkg/validation"
)

// newValidateCmd creates the validate subcommand
func newValidateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate provisioned artifacts",
		Long:  `Validate the env files, dependency manifest, unit file and control scripts against the desired state.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runValidate(configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML desired-state override file")

	return cmd
}

func runValidate(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	host, err := currentHost(cfg)
	if err != nil {
		return err
	}

	validator := validation.NewValidator(host, cfg)
	result := validator.ValidateAll()

	for _, issue := range result.Issues {
		prefix := "WARNING"
		if issue.Severity == validation.SeverityError {
			prefix = "ERROR"
		}

		if issue.Field != "" {
			fmt.Printf("[%s] %s: %s (%s)\n", prefix, issue.File, issue.Message, issue.Field)
		} else {
			fmt.Printf("[%s] %s: %s\n", prefix, issue.File, issue.Message)
		}
	}

	if result.HasErrors() {
		return fmt.Errorf("validation failed with %d error(s)", result.ErrorCount())
	}

	if len(result.Issues) == 0 {
		fmt.Println("All provisioned artifacts are valid.")
	} else {
		fmt.Printf("\nValidation passed with %d warning(s).\n", result.WarningCount())
	}

	return nil
}
