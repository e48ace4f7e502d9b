package doctor

import (
	"context"
	"regexp"

	"github.com/jaspreet-dot-casa/botvm/pkg/execx"
)

// checkTool checks if a tool is installed and gets its version.
func checkTool(ctx context.Context, runner execx.Runner, id, name, desc string, versionArgs []string, versionRegex *regexp.Regexp, fixCmd *FixCommand) Check {
	check := Check{
		ID:          id,
		Name:        name,
		Description: desc,
		FixCommand:  fixCmd,
	}

	path, err := runner.LookPath(id)
	if err != nil {
		check.Status = StatusMissing
		check.Message = "not installed"
		return check
	}

	// Try to get version
	output, err := runner.Run(ctx, path, versionArgs...)
	if err != nil {
		// Tool exists but version check failed - still consider it OK
		check.Status = StatusOK
		check.Message = "installed (version unknown)"
		return check
	}

	version := extractVersion(output, versionRegex)
	if version != "" {
		check.Status = StatusOK
		check.Message = version
	} else {
		check.Status = StatusOK
		check.Message = "installed"
	}

	return check
}

// extractVersion extracts version string from command output.
func extractVersion(output string, regex *regexp.Regexp) string {
	if regex == nil {
		regex = regexp.MustCompile(`v?(\d+\.\d+(?:\.\d+)?(?:-[a-zA-Z0-9]+)?)`)
	}
	matches := regex.FindStringSubmatch(output)
	if len(matches) >= 2 {
		return matches[1]
	}
	return ""
}

// CheckApt checks for the apt-get package manager.
func CheckApt(ctx context.Context, runner execx.Runner) Check {
	return checkTool(ctx, runner, IDApt, "apt-get", "OS package manager",
		[]string{"--version"}, nil, nil)
}

// CheckPython checks for the python3 interpreter.
func CheckPython(ctx context.Context, runner execx.Runner) Check {
	return checkTool(ctx, runner, IDPython, "Python 3", "Bot runtime interpreter",
		[]string{"--version"}, nil, getFixCommand(IDPython))
}

// CheckGit checks for the git client used by update.sh.
func CheckGit(ctx context.Context, runner execx.Runner) Check {
	return checkTool(ctx, runner, IDGit, "Git", "Version control client for bot updates",
		[]string{"--version"}, nil, getFixCommand(IDGit))
}

// CheckTmux checks for the tmux process multiplexer.
func CheckTmux(ctx context.Context, runner execx.Runner) Check {
	return checkTool(ctx, runner, IDTmux, "tmux", "Terminal multiplexer for operator sessions",
		[]string{"-V"}, nil, getFixCommand(IDTmux))
}

// CheckHtop checks for the htop monitoring tool.
func CheckHtop(ctx context.Context, runner execx.Runner) Check {
	return checkTool(ctx, runner, IDHtop, "htop", "Process monitor",
		[]string{"--version"}, nil, getFixCommand(IDHtop))
}

// CheckSystemctl checks for systemctl.
func CheckSystemctl(ctx context.Context, runner execx.Runner) Check {
	return checkTool(ctx, runner, IDSystemctl, "systemctl", "Service manager control",
		[]string{"--version"}, nil, nil)
}

// CheckJournalctl checks for journalctl, used by logs.sh.
func CheckJournalctl(ctx context.Context, runner execx.Runner) Check {
	return checkTool(ctx, runner, IDJournalctl, "journalctl", "Service log viewer",
		[]string{"--version"}, nil, nil)
}

// CheckIptables checks for iptables.
func CheckIptables(ctx context.Context, runner execx.Runner) Check {
	return checkTool(ctx, runner, IDIptables, "iptables", "Packet filter",
		[]string{"--version"}, nil, getFixCommand(IDIptables))
}

// CheckNetfilterPersistent checks for the rule persistence helper.
func CheckNetfilterPersistent(ctx context.Context, runner execx.Runner) Check {
	check := Check{
		ID:          IDNetfilterPersistent,
		Name:        "netfilter-persistent",
		Description: "Persists firewall rules across reboots",
		FixCommand:  getFixCommand(IDNetfilterPersistent),
	}

	if _, err := runner.LookPath(IDNetfilterPersistent); err != nil {
		check.Status = StatusMissing
		check.Message = "not installed"
		return check
	}

	check.Status = StatusOK
	check.Message = "installed"
	return check
}
