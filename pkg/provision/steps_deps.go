package provision

import (
	"context"
	"fmt"
)

// DependenciesStep upgrades pip itself, then installs every pinned
// dependency one at a time so a failure surfaces the exact pin that broke.
type DependenciesStep struct{}

func (s *DependenciesStep) ID() string   { return "dependencies" }
func (s *DependenciesStep) Name() string { return "Python dependencies" }

func (s *DependenciesStep) Run(ctx context.Context, pctx *Context) error {
	pip := pctx.Host.Pip()

	if err := pctx.runCommand(ctx, pip, "install", "--upgrade", "pip"); err != nil {
		return fmt.Errorf("failed to upgrade pip: %w", err)
	}

	for _, req := range pctx.Config.Requirements {
		if err := pctx.runCommand(ctx, pip, "install", req.String()); err != nil {
			return fmt.Errorf("failed to install %s: %w", req.String(), err)
		}
	}

	return nil
}
