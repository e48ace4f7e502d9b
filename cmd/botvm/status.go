package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/botvm/pkg/execx"
	"github.com/jaspreet-dot-casa/botvm/pkg/history"
	"github.com/jaspreet-dot-casa/botvm/pkg/systemd"
	"github.com/jaspreet-dot-casa/botvm/pkg/utils"
)

// newStatusCmd creates the status subcommand
func newStatusCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show service and provisioning status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML desired-state override file")

	return cmd
}

func runStatus(cmd *cobra.Command, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	mgr := systemd.NewManager(&execx.RealRunner{}, cfg.ServiceName)
	active, state, err := mgr.IsActive(cmd.Context())
	if err != nil {
		fmt.Printf("Service %s: state unknown (%v)\n", cfg.ServiceName, err)
	} else if active {
		fmt.Printf("Service %s: active\n", cfg.ServiceName)
	} else {
		fmt.Printf("Service %s: %s\n", cfg.ServiceName, state)
	}

	store, err := history.NewStore()
	if err != nil {
		return err
	}
	latest, err := store.Latest()
	if err != nil {
		return err
	}
	if latest == nil {
		fmt.Println("Last provisioned: never")
		return nil
	}

	outcome := "ok"
	if !latest.Success {
		outcome = fmt.Sprintf("failed at %s", latest.FailedStep)
	}
	if latest.DryRun {
		outcome += " (dry run)"
	}
	fmt.Printf("Last provisioned: %s (%s)\n", utils.FormatTimeAgo(latest.StartedAt), outcome)
	return nil
}
