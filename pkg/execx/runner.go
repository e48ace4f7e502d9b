// Package execx provides command execution with a swappable runner for testing.
package execx

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Runner is an interface for executing external commands, allowing for testing.
type Runner interface {
	LookPath(file string) (string, error)
	// Run executes a command and returns its stdout. If the command fails
	// and wrote to stderr, stderr is included in the returned error.
	Run(ctx context.Context, name string, args ...string) (string, error)
	// CombinedOutput runs a command and returns combined stdout and stderr.
	CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error)
	FileExists(path string) bool
}

// RealRunner is the default runner that uses the real system.
type RealRunner struct{}

// LookPath finds the path to an executable.
func (r *RealRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Run executes a command and returns its stdout.
func (r *RealRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		errMsg := strings.TrimSpace(stderr.String())
		if errMsg != "" {
			return stdout.String(), fmt.Errorf("%s %s: %s", name, strings.Join(args, " "), errMsg)
		}
		return stdout.String(), fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}

	// Some tools write their output to stderr
	output := stdout.String()
	if output == "" {
		output = stderr.String()
	}
	return output, nil
}

// CombinedOutput runs a command and returns combined stdout and stderr.
func (r *RealRunner) CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

// FileExists checks if a file exists.
func (r *RealRunner) FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
