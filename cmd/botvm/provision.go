package main

import (
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/botvm/pkg/execx"
	"github.com/jaspreet-dot-casa/botvm/pkg/history"
	"github.com/jaspreet-dot-casa/botvm/pkg/provision"
	"github.com/jaspreet-dot-casa/botvm/pkg/tui"
)

// newProvisionCmd creates the provision subcommand
func newProvisionCmd() *cobra.Command {
	var configPath string
	var plain, dryRun, skipUpgrade, skipFirewall bool

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Provision this host to run the bot",
		Long: `Run the full provisioning pipeline: system packages, workspace and
virtualenv, template files, pinned dependencies, systemd unit, control
scripts and firewall rules.

The pipeline stops at the first failing step. Rerunning is safe: the
workspace and firewall rules are not duplicated and an existing .env is
never overwritten.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProvision(cmd, configPath, plain, dryRun, skipUpgrade, skipFirewall)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML desired-state override file")
	cmd.Flags().BoolVar(&plain, "plain", false, "Print one status line per step instead of the progress UI")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the commands each step would run without executing them")
	cmd.Flags().BoolVar(&skipUpgrade, "skip-upgrade", false, "Skip apt-get upgrade")
	cmd.Flags().BoolVar(&skipFirewall, "skip-firewall", false, "Skip the firewall step")

	return cmd
}

func runProvision(cmd *cobra.Command, configPath string, plain, dryRun, skipUpgrade, skipFirewall bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if skipUpgrade {
		cfg.SkipUpgrade = true
	}
	if skipFirewall {
		cfg.SkipFirewall = true
	}

	if runtime.GOOS != "linux" && !dryRun {
		return fmt.Errorf("provisioning requires a linux host (running on %s); use --dry-run to preview", runtime.GOOS)
	}

	host, err := currentHost(cfg)
	if err != nil {
		return err
	}

	pctx := &provision.Context{
		Host:   host,
		Config: cfg,
		Runner: &execx.RealRunner{},
		DryRun: dryRun,
	}
	pipeline := provision.NewPipeline(cfg)

	startedAt := time.Now()
	var result *provision.Result

	if plain || dryRun {
		result = pipeline.Run(cmd.Context(), pctx, plainProgress)
	} else {
		result, err = tui.RunProvisioning(cmd.Context(), pipeline, pctx)
		if err != nil {
			return err
		}
	}

	recordRun(host, result, startedAt, dryRun)

	if !result.Success {
		if result.FailedStep == provision.FailedStepCancelled {
			return fmt.Errorf("provisioning cancelled")
		}
		return fmt.Errorf("provisioning failed at step %q", result.FailedStep)
	}

	fmt.Printf("\nProvisioned %s for user %s in %s.\n", host.Workspace, host.Username, result.Duration.Round(time.Millisecond))
	fmt.Println("\nNext steps:")
	fmt.Printf("  1. Fill in secrets:  botvm secrets   (or edit %s)\n", host.EnvFile())
	fmt.Printf("  2. Start the bot:    %s/start.sh\n", host.Workspace)
	fmt.Printf("  3. Tail the logs:    %s/logs.sh\n", host.Workspace)
	return nil
}

// plainProgress prints one labeled status line per event.
func plainProgress(e provision.ProgressEvent) {
	switch {
	case e.IsError:
		fmt.Printf("[%s] ERROR: %s\n", e.StepID, e.Message)
	case e.IsWarning:
		fmt.Printf("[%s] WARNING: %s\n", e.StepID, e.Message)
	case e.Command != "":
		fmt.Printf("[%s] $ %s\n", e.StepID, e.Command)
	default:
		fmt.Printf("[%s] %s\n", e.StepID, e.Message)
	}
}

// recordRun appends the run to history; failures to record are not fatal.
func recordRun(host *provision.Host, result *provision.Result, startedAt time.Time, dryRun bool) {
	store, err := history.NewStore()
	if err != nil {
		fmt.Printf("Warning: could not open history store: %v\n", err)
		return
	}
	if err := store.Append(history.NewRecord(host, result, startedAt, dryRun)); err != nil {
		fmt.Printf("Warning: could not record run: %v\n", err)
	}
}
