package doctor

import (
	"context"
	"fmt"

	"github.com/jaspreet-dot-casa/botvm/pkg/execx"
)

// fixCommands defines the apt-based fix commands for each tool. The target
// hosts are Ubuntu VMs, so there are no per-platform variants.
var fixCommands = map[string]*FixCommand{
	IDPython: {
		Description: "Install Python with pip and venv",
		Command:     "sudo apt-get install -y python3 python3-pip python3-venv",
		Sudo:        true,
	},
	IDGit: {
		Description: "Install git",
		Command:     "sudo apt-get install -y git",
		Sudo:        true,
	},
	IDTmux: {
		Description: "Install tmux",
		Command:     "sudo apt-get install -y tmux",
		Sudo:        true,
	},
	IDHtop: {
		Description: "Install htop",
		Command:     "sudo apt-get install -y htop",
		Sudo:        true,
	},
	IDIptables: {
		Description: "Install iptables",
		Command:     "sudo apt-get install -y iptables",
		Sudo:        true,
	},
	IDNetfilterPersistent: {
		Description: "Install firewall rule persistence",
		Command:     "sudo apt-get install -y iptables-persistent netfilter-persistent",
		Sudo:        true,
	},
}

// getFixCommand returns the fix command for a tool, or nil when the tool
// has no automated fix (e.g. apt-get itself).
func getFixCommand(toolID string) *FixCommand {
	return fixCommands[toolID]
}

// GetFixCommand returns the fix command for a tool ID.
func GetFixCommand(toolID string) *FixCommand {
	return getFixCommand(toolID)
}

// Fixer provides functionality to run fix commands.
type Fixer struct {
	runner execx.Runner
}

// NewFixer creates a new Fixer.
func NewFixer() *Fixer {
	return &Fixer{runner: &execx.RealRunner{}}
}

// NewFixerWithRunner creates a new Fixer with a custom runner.
func NewFixerWithRunner(runner execx.Runner) *Fixer {
	return &Fixer{runner: runner}
}

// RunFix executes a fix command through the shell.
func (f *Fixer) RunFix(ctx context.Context, fix *FixCommand) error {
	if fix == nil {
		return fmt.Errorf("no fix command available")
	}

	output, err := f.runner.CombinedOutput(ctx, "sh", "-c", fix.Command)
	if err != nil {
		return fmt.Errorf("fix failed: %w\nOutput: %s", err, string(output))
	}

	return nil
}
