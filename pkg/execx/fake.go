package execx

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Call records a single command invocation made through a FakeRunner.
type Call struct {
	Name string
	Args []string
}

// String returns the call as a shell-style command line.
func (c Call) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// FakeRunner is a Runner for tests. Responses are keyed by the full command
// line; unscripted commands succeed with empty output.
type FakeRunner struct {
	mu         sync.Mutex
	calls      []Call
	outputs    map[string]string
	errors     map[string]error
	missing    map[string]bool // executables LookPath should not find
	files      map[string]bool
	failAll    bool
	failAllMsg string
}

// NewFakeRunner creates a FakeRunner with no scripted responses.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		outputs: make(map[string]string),
		errors:  make(map[string]error),
		missing: make(map[string]bool),
		files:   make(map[string]bool),
	}
}

// Script sets the output returned for a command line.
func (f *FakeRunner) Script(cmdline, output string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outputs[cmdline] = output
}

// Fail makes a command line return an error.
func (f *FakeRunner) Fail(cmdline, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors[cmdline] = fmt.Errorf("%s", message)
}

// FailAll makes every command return an error.
func (f *FakeRunner) FailAll(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failAll = true
	f.failAllMsg = message
}

// MarkMissing makes LookPath fail for an executable.
func (f *FakeRunner) MarkMissing(file string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.missing[file] = true
}

// AddFile makes FileExists return true for a path.
func (f *FakeRunner) AddFile(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[path] = true
}

// Calls returns all recorded invocations.
func (f *FakeRunner) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CommandLines returns all recorded invocations as command lines.
func (f *FakeRunner) CommandLines() []string {
	calls := f.Calls()
	lines := make([]string, len(calls))
	for i, c := range calls {
		lines[i] = c.String()
	}
	return lines
}

// LookPath implements Runner.
func (f *FakeRunner) LookPath(file string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.missing[file] {
		return "", fmt.Errorf("exec: %q: executable file not found in $PATH", file)
	}
	return "/usr/bin/" + file, nil
}

// Run implements Runner.
func (f *FakeRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	call := Call{Name: name, Args: args}
	f.calls = append(f.calls, call)

	key := call.String()
	if f.failAll {
		return "", fmt.Errorf("%s: %s", key, f.failAllMsg)
	}
	if err, ok := f.errors[key]; ok {
		return f.outputs[key], err
	}
	return f.outputs[key], nil
}

// CombinedOutput implements Runner.
func (f *FakeRunner) CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := f.Run(ctx, name, args...)
	return []byte(out), err
}

// FileExists implements Runner.
func (f *FakeRunner) FileExists(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.files[path]
}
