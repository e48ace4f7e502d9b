package scripts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaspreet-dot-casa/botvm/pkg/assets"
)

func testVars() Vars {
	return Vars{
		ServiceName: "discord-bot",
		Workspace:   "/home/alice/discord-bot",
		VenvDir:     "/home/alice/discord-bot/venv",
	}
}

func TestRenderSingleCommandWrappers(t *testing.T) {
	tests := []struct {
		script  string
		command string
	}{
		{"start.sh", "systemctl start discord-bot"},
		{"stop.sh", "systemctl stop discord-bot"},
		{"restart.sh", "systemctl restart discord-bot"},
		{"logs.sh", "journalctl -u discord-bot -f"},
		{"status.sh", "systemctl status discord-bot"},
	}

	for _, tt := range tests {
		t.Run(tt.script, func(t *testing.T) {
			content, err := Render(tt.script, testVars())
			require.NoError(t, err)

			assert.Contains(t, content, "exec sudo "+tt.command)
			// Exactly one wrapped command, exit code passed through via exec
			assert.Equal(t, 1, strings.Count(content, "exec "))
			assert.NotContains(t, content, "${")
		})
	}
}

func TestRenderUpdateScript(t *testing.T) {
	content, err := Render("update.sh", testVars())
	require.NoError(t, err)

	// Short-circuit on any failure in the chain
	assert.Contains(t, content, "set -e")
	assert.Contains(t, content, "cd /home/alice/discord-bot")
	assert.Contains(t, content, "source /home/alice/discord-bot/venv/bin/activate")
	assert.Contains(t, content, "pip install -r requirements.txt")
	assert.Contains(t, content, "sudo systemctl restart discord-bot")

	// git pull only runs inside a checkout
	assert.Contains(t, content, "if [ -d .git ]")
}

func TestWriteAll(t *testing.T) {
	dir := t.TempDir()

	written, err := WriteAll(dir, testVars())
	require.NoError(t, err)
	require.Len(t, written, len(assets.ScriptNames))

	for _, name := range assets.ScriptNames {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		require.NoError(t, err, name)
		assert.NotZero(t, info.Mode()&0111, "%s must be executable", name)
	}
}

func TestWriteAllOverwrites(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "start.sh")
	require.NoError(t, os.WriteFile(stale, []byte("#!/bin/bash\necho stale\n"), 0755))

	_, err := WriteAll(dir, testVars())
	require.NoError(t, err)

	data, err := os.ReadFile(stale)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale")
	assert.Contains(t, string(data), "systemctl start discord-bot")
}
