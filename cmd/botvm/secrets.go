package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/botvm/pkg/config"
	"github.com/jaspreet-dot-casa/botvm/pkg/tui"
)

// newSecretsCmd creates the secrets subcommand
func newSecretsCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "secrets",
		Short: "Fill in the bot secrets",
		Long:  `Launch an interactive form that writes the bot's secrets into the workspace .env file.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runSecrets(configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML desired-state override file")

	return cmd
}

func runSecrets(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	host, err := currentHost(cfg)
	if err != nil {
		return err
	}

	current, err := config.ParseEnvFile(host.EnvFile())
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to read %s: %w", host.EnvFile(), err)
		}
		current = map[string]string{}
	}

	values, err := tui.RunSecretsForm(current)
	if err != nil {
		return err
	}

	if err := config.WriteEnvFile(host.EnvFile(), config.EnvKeys, values); err != nil {
		return err
	}

	fmt.Printf("Wrote %s.\n", host.EnvFile())
	fmt.Printf("Restart the bot to pick up the new values: %s/restart.sh\n", host.Workspace)
	return nil
}
