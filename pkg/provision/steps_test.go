package provision

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaspreet-dot-casa/botvm/pkg/config"
	"github.com/jaspreet-dot-casa/botvm/pkg/execx"
)

func fakeContext(cfg *config.Config) (*Context, *execx.FakeRunner) {
	runner := execx.NewFakeRunner()
	return &Context{
		Host:   HostFor("alice", "/home/alice", cfg),
		Config: cfg,
		Runner: runner,
	}, runner
}

// tempContext builds a Context whose workspace is a real temp directory, for
// steps that write files.
func tempContext(t *testing.T, cfg *config.Config) *Context {
	t.Helper()
	home := t.TempDir()
	return &Context{
		Host:   HostFor("alice", home, cfg),
		Config: cfg,
		Runner: &execx.RealRunner{},
	}
}

func TestSystemStep(t *testing.T) {
	cfg := config.DefaultConfig()
	pctx, runner := fakeContext(cfg)

	require.NoError(t, (&SystemStep{}).Run(context.Background(), pctx))

	assert.Equal(t, []string{
		"apt-get update",
		"apt-get -y upgrade",
		"apt-get -y install python3 python3-pip python3-venv tmux htop git",
	}, runner.CommandLines())
}

func TestSystemStepSkipUpgrade(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.SkipUpgrade = true
	pctx, runner := fakeContext(cfg)

	require.NoError(t, (&SystemStep{}).Run(context.Background(), pctx))

	for _, line := range runner.CommandLines() {
		assert.NotContains(t, line, "upgrade")
	}
}

func TestSystemStepAbortsOnFailure(t *testing.T) {
	cfg := config.DefaultConfig()
	pctx, runner := fakeContext(cfg)
	runner.Fail("apt-get update", "could not get lock")

	err := (&SystemStep{}).Run(context.Background(), pctx)
	assert.ErrorContains(t, err, "apt-get update failed")
	assert.Len(t, runner.Calls(), 1, "nothing runs after the failing command")
}

func TestWorkspaceStep(t *testing.T) {
	cfg := config.DefaultConfig()
	home := t.TempDir()
	runner := execx.NewFakeRunner()
	pctx := &Context{
		Host:   HostFor("alice", home, cfg),
		Config: cfg,
		Runner: runner,
	}

	require.NoError(t, (&WorkspaceStep{}).Run(context.Background(), pctx))

	info, err := os.Stat(pctx.Host.Workspace)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	lines := runner.CommandLines()
	require.Len(t, lines, 1)
	assert.Equal(t, "python3 -m venv "+pctx.Host.VenvDir, lines[0])

	// Rerun with the venv interpreter present: creation is skipped and the
	// existing directory is a no-op, not an error.
	runner.AddFile(pctx.Host.Python())
	require.NoError(t, (&WorkspaceStep{}).Run(context.Background(), pctx))
	assert.Len(t, runner.CommandLines(), 1)
}

func TestTemplatesStep(t *testing.T) {
	cfg := config.DefaultConfig()
	pctx := tempContext(t, cfg)
	require.NoError(t, os.MkdirAll(pctx.Host.Workspace, 0755))

	require.NoError(t, (&TemplatesStep{}).Run(context.Background(), pctx))

	for _, path := range []string{
		pctx.Host.EntryPoint(),
		filepath.Join(pctx.Host.Workspace, "keep_alive.py"),
		pctx.Host.RequirementsFile(),
		pctx.Host.EnvExampleFile(),
		pctx.Host.EnvFile(),
	} {
		_, err := os.Stat(path)
		assert.NoError(t, err, path)
	}

	manifest, err := os.ReadFile(pctx.Host.RequirementsFile())
	require.NoError(t, err)
	assert.Equal(t, "discord.py==2.3.2\naiohttp==3.9.1\npython-dotenv==1.0.0\n", string(manifest))

	envVars, err := config.ParseEnvFile(pctx.Host.EnvFile())
	require.NoError(t, err)
	assert.Len(t, envVars, 4)
	for _, key := range config.EnvKeys {
		assert.NotEmpty(t, envVars[key], key)
	}
}

func TestTemplatesStepRerunPreservesSecrets(t *testing.T) {
	cfg := config.DefaultConfig()
	pctx := tempContext(t, cfg)
	require.NoError(t, os.MkdirAll(pctx.Host.Workspace, 0755))

	step := &TemplatesStep{}
	require.NoError(t, step.Run(context.Background(), pctx))

	// Operator fills in a real token, then provisioning reruns.
	secrets := map[string]string{
		"DISCORD_TOKEN":  "real-token",
		"DEEPL_KEY":      "real-deepl",
		"AZURE_KEY":      "real-azure",
		"AUTO_TRANSLATE": "false",
	}
	require.NoError(t, config.WriteEnvFile(pctx.Host.EnvFile(), config.EnvKeys, secrets))

	require.NoError(t, step.Run(context.Background(), pctx))

	envVars, err := config.ParseEnvFile(pctx.Host.EnvFile())
	require.NoError(t, err)
	assert.Equal(t, "real-token", envVars["DISCORD_TOKEN"], ".env must survive reruns")

	// Template files are overwritten in place, never duplicated.
	entries, err := os.ReadDir(pctx.Host.Workspace)
	require.NoError(t, err)
	assert.Len(t, entries, 5)
}

func TestDependenciesStep(t *testing.T) {
	cfg := config.DefaultConfig()
	pctx, runner := fakeContext(cfg)

	require.NoError(t, (&DependenciesStep{}).Run(context.Background(), pctx))

	pip := pctx.Host.Pip()
	assert.Equal(t, []string{
		pip + " install --upgrade pip",
		pip + " install discord.py==2.3.2",
		pip + " install aiohttp==3.9.1",
		pip + " install python-dotenv==1.0.0",
	}, runner.CommandLines())
}

func TestDependenciesStepSurfacesFailingPin(t *testing.T) {
	cfg := config.DefaultConfig()
	pctx, runner := fakeContext(cfg)
	runner.Fail(pctx.Host.Pip()+" install aiohttp==3.9.1", "no matching distribution")

	err := (&DependenciesStep{}).Run(context.Background(), pctx)
	assert.ErrorContains(t, err, "aiohttp==3.9.1")

	// The failing pin stops the chain.
	assert.Len(t, runner.Calls(), 3)
}

func TestServiceStepWritesAndEnablesUnit(t *testing.T) {
	cfg := config.DefaultConfig()
	pctx, runner := fakeContext(cfg)
	unitPath := filepath.Join(t.TempDir(), "discord-bot.service")

	step := &ServiceStep{UnitPath: unitPath}
	require.NoError(t, step.Run(context.Background(), pctx))

	data, err := os.ReadFile(unitPath)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "User=alice")
	assert.Contains(t, content, "WorkingDirectory=/home/alice/discord-bot")
	assert.Contains(t, content, "Restart=always")

	assert.Equal(t, []string{
		"systemctl daemon-reload",
		"systemctl enable discord-bot.service",
	}, runner.CommandLines())
}

func TestServiceStepBacksOutOnEnableFailure(t *testing.T) {
	cfg := config.DefaultConfig()
	pctx, runner := fakeContext(cfg)
	runner.Fail("systemctl enable discord-bot.service", "Failed to enable unit")
	unitPath := filepath.Join(t.TempDir(), "discord-bot.service")

	step := &ServiceStep{UnitPath: unitPath}
	err := step.Run(context.Background(), pctx)
	require.Error(t, err)

	_, statErr := os.Stat(unitPath)
	assert.True(t, os.IsNotExist(statErr), "a failed enable must not leave a unit file behind")

	assert.Equal(t, []string{
		"systemctl daemon-reload",
		"systemctl enable discord-bot.service",
		"systemctl disable discord-bot.service",
		"systemctl daemon-reload",
	}, runner.CommandLines())
}

func TestServiceStepDryRun(t *testing.T) {
	cfg := config.DefaultConfig()
	pctx, runner := fakeContext(cfg)
	pctx.DryRun = true

	require.NoError(t, (&ServiceStep{}).Run(context.Background(), pctx))
	assert.Empty(t, runner.Calls(), "dry run must not touch systemd")
}

func TestScriptsStep(t *testing.T) {
	cfg := config.DefaultConfig()
	pctx := tempContext(t, cfg)
	require.NoError(t, os.MkdirAll(pctx.Host.Workspace, 0755))

	require.NoError(t, (&ScriptsStep{}).Run(context.Background(), pctx))

	for _, name := range []string{"start.sh", "stop.sh", "restart.sh", "logs.sh", "status.sh", "update.sh"} {
		info, err := os.Stat(filepath.Join(pctx.Host.Workspace, name))
		require.NoError(t, err, name)
		assert.NotZero(t, info.Mode()&0111, name)
	}
}

func TestFirewallStep(t *testing.T) {
	cfg := config.DefaultConfig()
	pctx, runner := fakeContext(cfg)
	// No rules present yet
	for _, line := range []string{
		"iptables -C INPUT -p tcp --dport 80 -m state --state NEW -j ACCEPT",
		"iptables -C INPUT -p tcp --dport 443 -m state --state NEW -j ACCEPT",
		"iptables -C INPUT -p tcp --dport 8080 -m state --state NEW -j ACCEPT",
	} {
		runner.Fail(line, "rule does not exist")
	}
	runner.Script("iptables -S INPUT", "-P INPUT ACCEPT\n-A INPUT -a\n-A INPUT -b\n-A INPUT -c\n-A INPUT -d\n-A INPUT -e\n")

	require.NoError(t, (&FirewallStep{}).Run(context.Background(), pctx))

	lines := runner.CommandLines()
	assert.Contains(t, lines, "iptables -I INPUT 6 -p tcp --dport 80 -m state --state NEW -j ACCEPT")
	assert.Contains(t, lines, "iptables -I INPUT 6 -p tcp --dport 443 -m state --state NEW -j ACCEPT")
	assert.Contains(t, lines, "iptables -I INPUT 6 -p tcp --dport 8080 -m state --state NEW -j ACCEPT")
	assert.Contains(t, lines, "netfilter-persistent save")
}

func TestFirewallStepDryRun(t *testing.T) {
	cfg := config.DefaultConfig()
	pctx, runner := fakeContext(cfg)
	pctx.DryRun = true

	require.NoError(t, (&FirewallStep{}).Run(context.Background(), pctx))
	assert.Empty(t, runner.Calls(), "dry run must not touch iptables")
}
