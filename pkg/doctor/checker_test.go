package doctor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaspreet-dot-casa/botvm/pkg/execx"
)

func TestCheckAllEverythingInstalled(t *testing.T) {
	runner := execx.NewFakeRunner()
	runner.Script("/usr/bin/python3 --version", "Python 3.12.3")
	checker := NewCheckerWithRunner(runner)

	groups := checker.CheckAll(context.Background())
	require.Len(t, groups, 3)
	assert.Equal(t, GroupSystem, groups[0].ID)
	assert.Equal(t, GroupService, groups[1].ID)
	assert.Equal(t, GroupFirewall, groups[2].ID)

	summary := checker.GetSummary(groups)
	assert.Equal(t, 9, summary.Total)
	assert.Equal(t, 9, summary.OK)
	assert.Equal(t, 0, summary.Missing)
}

func TestCheckAllAsyncPreservesGroupOrder(t *testing.T) {
	runner := execx.NewFakeRunner()
	checker := NewCheckerWithRunner(runner)

	groups := checker.CheckAllAsync(context.Background())
	require.Len(t, groups, 3)
	for i, def := range GetGroups() {
		assert.Equal(t, def.ID, groups[i].ID)
		assert.Len(t, groups[i].Checks, len(def.CheckIDs))
	}
}

func TestCheckMissingTool(t *testing.T) {
	runner := execx.NewFakeRunner()
	runner.MarkMissing("tmux")
	checker := NewCheckerWithRunner(runner)

	group := checker.CheckGroup(context.Background(), GroupSystem)
	require.Len(t, group.Checks, 5)

	var tmux Check
	for _, check := range group.Checks {
		if check.ID == IDTmux {
			tmux = check
		}
	}
	assert.Equal(t, StatusMissing, tmux.Status)
	assert.Equal(t, "not installed", tmux.Message)
	require.NotNil(t, tmux.FixCommand)
	assert.Equal(t, "sudo apt-get install -y tmux", tmux.FixCommand.Command)
}

func TestCheckVersionExtracted(t *testing.T) {
	runner := execx.NewFakeRunner()
	runner.Script("/usr/bin/python3 --version", "Python 3.12.3")

	check := CheckPython(context.Background(), runner)
	assert.Equal(t, StatusOK, check.Status)
	assert.Equal(t, "3.12.3", check.Message)
}

func TestCheckVersionCommandFails(t *testing.T) {
	runner := execx.NewFakeRunner()
	runner.Fail("/usr/bin/git --version", "exit status 1")

	check := CheckGit(context.Background(), runner)
	assert.Equal(t, StatusOK, check.Status)
	assert.Equal(t, "installed (version unknown)", check.Message)
}

func TestAptHasNoFixCommand(t *testing.T) {
	runner := execx.NewFakeRunner()
	runner.MarkMissing("apt-get")

	check := CheckApt(context.Background(), runner)
	assert.Equal(t, StatusMissing, check.Status)
	assert.Nil(t, check.FixCommand)
}

func TestCheckGroupUnknownID(t *testing.T) {
	checker := NewCheckerWithRunner(execx.NewFakeRunner())

	group := checker.CheckGroup(context.Background(), "bogus")
	assert.Equal(t, "Unknown", group.Name)
	assert.Empty(t, group.Checks)
}
