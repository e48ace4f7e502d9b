package provision

import (
	"context"
	"fmt"
	"os"
)

// WorkspaceStep creates the bot workspace directory and a virtualenv inside
// it. Both are idempotent: an existing directory is a no-op and the
// virtualenv is only created when its interpreter is absent.
type WorkspaceStep struct{}

func (s *WorkspaceStep) ID() string   { return "workspace" }
func (s *WorkspaceStep) Name() string { return "Workspace" }

func (s *WorkspaceStep) Run(ctx context.Context, pctx *Context) error {
	host := pctx.Host

	pctx.Infof("Creating workspace %s", host.Workspace)
	if !pctx.DryRun {
		if err := os.MkdirAll(host.Workspace, 0755); err != nil {
			return fmt.Errorf("failed to create workspace %s: %w", host.Workspace, err)
		}
	}

	if pctx.Runner.FileExists(host.Python()) {
		pctx.Infof("Virtualenv already present at %s", host.VenvDir)
		return nil
	}

	if err := pctx.runCommand(ctx, "python3", "-m", "venv", host.VenvDir); err != nil {
		return fmt.Errorf("failed to create virtualenv: %w", err)
	}

	return nil
}
