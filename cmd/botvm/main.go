// Package main provides the botvm CLI tool for provisioning a Discord bot VM.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/botvm/pkg/config"
	"github.com/jaspreet-dot-casa/botvm/pkg/provision"
)

// version is set via -ldflags during build
var version = "dev"

func main() {
	rootCmd := newRootCmd()

	// Cobra handles error printing
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd creates the root command for botvm
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "botvm",
		Short: "Discord Bot VM Provisioner",
		Long: `botvm provisions a single Ubuntu VM to run a Discord translation bot
under systemd supervision.

It supports:
  - One-shot provisioning: OS packages, workspace, virtualenv, pinned
    dependencies, systemd unit, control scripts and firewall rules
  - Pre-flight host dependency checks with automated fixes
  - Validation of provisioned artifacts against the desired state
  - An interactive form for filling in the bot's secrets`,
		Version: version,
	}

	rootCmd.AddCommand(
		newProvisionCmd(),
		newDoctorCmd(),
		newValidateCmd(),
		newSecretsCmd(),
		newStatusCmd(),
		newHistoryCmd(),
	)

	return rootCmd
}

// loadConfig loads the desired state, applying the YAML override when set.
func loadConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		return config.DefaultConfig(), nil
	}
	return config.Load(configPath)
}

// currentHost resolves the provisioning target from the invoking user.
func currentHost(cfg *config.Config) (*provision.Host, error) {
	host, err := provision.CurrentHost(cfg)
	if err != nil {
		return nil, fmt.Errorf("could not resolve host paths: %w", err)
	}
	return host, nil
}
