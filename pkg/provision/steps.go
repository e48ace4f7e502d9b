package provision

import (
	"context"
	"strings"
)

// runCommand emits the command line, honors dry-run, and executes through
// the configured runner.
func (c *Context) runCommand(ctx context.Context, name string, args ...string) error {
	c.Commandf("%s %s", name, strings.Join(args, " "))
	if c.DryRun {
		return nil
	}
	_, err := c.Runner.Run(ctx, name, args...)
	return err
}
