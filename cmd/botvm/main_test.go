package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd(t *testing.T) {
	rootCmd := newRootCmd()

	assert.Equal(t, "botvm", rootCmd.Use)
	assert.Equal(t, "Discord Bot VM Provisioner", rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestRootCmdHelp(t *testing.T) {
	rootCmd := newRootCmd()
	rootCmd.SetArgs([]string{"--help"})

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)

	err := rootCmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "botvm")
	assert.Contains(t, output, "provision")
	assert.Contains(t, output, "doctor")
	assert.Contains(t, output, "validate")
	assert.Contains(t, output, "secrets")
	assert.Contains(t, output, "status")
	assert.Contains(t, output, "history")
}

func TestRootCmdVersion(t *testing.T) {
	rootCmd := newRootCmd()
	rootCmd.SetArgs([]string{"--version"})

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)

	err := rootCmd.Execute()
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "botvm version")
}

func TestSubcommandHelp(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		expects []string
	}{
		{
			name:    "provision help",
			args:    []string{"provision", "--help"},
			expects: []string{"--dry-run", "--skip-firewall", "systemd unit"},
		},
		{
			name:    "doctor help",
			args:    []string{"doctor", "--help"},
			expects: []string{"--fix", "installed"},
		},
		{
			name:    "validate help",
			args:    []string{"validate", "--help"},
			expects: []string{"unit file", "control scripts"},
		},
		{
			name:    "secrets help",
			args:    []string{"secrets", "--help"},
			expects: []string{".env"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rootCmd := newRootCmd()
			rootCmd.SetArgs(tt.args)

			var buf bytes.Buffer
			rootCmd.SetOut(&buf)

			err := rootCmd.Execute()
			require.NoError(t, err)

			output := buf.String()
			for _, expect := range tt.expects {
				assert.Contains(t, output, expect)
			}
		})
	}
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "1f92c3d4", shortID("1f92c3d4-a0b1-4c2d-9e3f-556677889900"))
	assert.Equal(t, "short", shortID("short"))
	assert.Equal(t, "", shortID(""))
}

func TestLoadConfigDefaultsWithoutPath(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "discord-bot", cfg.ServiceName)
}
