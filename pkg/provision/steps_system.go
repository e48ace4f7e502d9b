package provision

import (
	"context"
	"fmt"
)

// SystemStep upgrades installed OS packages and installs the fixed
// dependency list: interpreter, pip, venv, tmux, htop and git.
type SystemStep struct{}

func (s *SystemStep) ID() string   { return "system" }
func (s *SystemStep) Name() string { return "System packages" }

func (s *SystemStep) Run(ctx context.Context, pctx *Context) error {
	if err := pctx.runCommand(ctx, "apt-get", "update"); err != nil {
		return fmt.Errorf("apt-get update failed: %w", err)
	}

	if pctx.Config.SkipUpgrade {
		pctx.Infof("Skipping apt-get upgrade")
	} else if err := pctx.runCommand(ctx, "apt-get", "-y", "upgrade"); err != nil {
		return fmt.Errorf("apt-get upgrade failed: %w", err)
	}

	args := append([]string{"-y", "install"}, pctx.Config.AptPackages...)
	if err := pctx.runCommand(ctx, "apt-get", args...); err != nil {
		return fmt.Errorf("apt-get install failed: %w", err)
	}

	return nil
}
