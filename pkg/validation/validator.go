// Package validation checks provisioned artifacts against the desired
// state: the env files, the dependency manifest, the unit file and the
// control scripts.
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jaspreet-dot-casa/botvm/pkg/assets"
	"github.com/jaspreet-dot-casa/botvm/pkg/config"
	"github.com/jaspreet-dot-casa/botvm/pkg/provision"
)

// Severity represents the severity of a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue represents a validation issue found in a provisioned artifact.
type Issue struct {
	File     string   `json:"file"`
	Field    string   `json:"field,omitempty"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Result holds all validation results.
type Result struct {
	Issues []Issue `json:"issues"`
}

// HasErrors returns true if there are any error-level issues.
func (r *Result) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ErrorCount returns the number of error-level issues.
func (r *Result) ErrorCount() int {
	count := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			count++
		}
	}
	return count
}

// WarningCount returns the number of warning-level issues.
func (r *Result) WarningCount() int {
	count := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityWarning {
			count++
		}
	}
	return count
}

// Validator validates provisioned artifacts for one host.
type Validator struct {
	Host   *provision.Host
	Config *config.Config

	// UnitPath overrides the unit file location; empty means the
	// config's standard /etc/systemd/system path.
	UnitPath string
}

// NewValidator creates a new Validator.
func NewValidator(host *provision.Host, cfg *config.Config) *Validator {
	return &Validator{Host: host, Config: cfg}
}

func (v *Validator) unitPath() string {
	if v.UnitPath != "" {
		return v.UnitPath
	}
	return v.Config.UnitFilePath()
}

// ValidateAll validates every artifact and returns the combined result.
func (v *Validator) ValidateAll() *Result {
	result := &Result{Issues: []Issue{}}
	result.Issues = append(result.Issues, v.ValidateEnvFile(v.Host.EnvFile())...)
	result.Issues = append(result.Issues, v.ValidateManifest()...)
	result.Issues = append(result.Issues, v.ValidateUnitFile()...)
	result.Issues = append(result.Issues, v.ValidateScripts()...)
	return result
}

// ValidateEnvFile checks that the env file has every required key with a
// non-empty value, and warns about values still set to placeholders.
func (v *Validator) ValidateEnvFile(path string) []Issue {
	issues := []Issue{}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		issues = append(issues, Issue{
			File:     path,
			Message:  "env file not found",
			Severity: SeverityError,
		})
		return issues
	}

	envVars, err := config.ParseEnvFile(path)
	if err != nil {
		issues = append(issues, Issue{
			File:     path,
			Message:  fmt.Sprintf("failed to parse file: %v", err),
			Severity: SeverityError,
		})
		return issues
	}

	for _, key := range config.EnvKeys {
		value, exists := envVars[key]
		if !exists || strings.TrimSpace(value) == "" {
			issues = append(issues, Issue{
				File:     path,
				Field:    key,
				Message:  fmt.Sprintf("%s is required", key),
				Severity: SeverityError,
			})
			continue
		}
		if value == config.EnvPlaceholders[key] && key != "AUTO_TRANSLATE" {
			issues = append(issues, Issue{
				File:     path,
				Field:    key,
				Message:  fmt.Sprintf("%s still has its placeholder value", key),
				Severity: SeverityWarning,
			})
		}
	}

	for key := range envVars {
		if !containsKey(config.EnvKeys, key) {
			issues = append(issues, Issue{
				File:     path,
				Field:    key,
				Message:  fmt.Sprintf("unexpected key %s", key),
				Severity: SeverityWarning,
			})
		}
	}

	return issues
}

// ValidateManifest checks requirements.txt against the configured pins.
func (v *Validator) ValidateManifest() []Issue {
	issues := []Issue{}
	path := v.Host.RequirementsFile()

	data, err := os.ReadFile(path)
	if err != nil {
		issues = append(issues, Issue{
			File:     path,
			Message:  "dependency manifest not found",
			Severity: SeverityError,
		})
		return issues
	}

	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			lines = append(lines, line)
		}
	}

	for _, req := range v.Config.Requirements {
		if !containsKey(lines, req.String()) {
			issues = append(issues, Issue{
				File:     path,
				Field:    req.Name,
				Message:  fmt.Sprintf("missing pinned dependency %s", req.String()),
				Severity: SeverityError,
			})
		}
	}

	if len(lines) != len(v.Config.Requirements) {
		issues = append(issues, Issue{
			File:     path,
			Message:  fmt.Sprintf("manifest has %d entries, expected %d", len(lines), len(v.Config.Requirements)),
			Severity: SeverityWarning,
		})
	}

	return issues
}

// ValidateUnitFile checks that the registered unit points at this host's
// workspace and interpreter.
func (v *Validator) ValidateUnitFile() []Issue {
	issues := []Issue{}
	path := v.unitPath()

	data, err := os.ReadFile(path)
	if err != nil {
		issues = append(issues, Issue{
			File:     path,
			Message:  "unit file not found (service not registered)",
			Severity: SeverityError,
		})
		return issues
	}

	content := string(data)
	expectations := map[string]string{
		"WorkingDirectory": "WorkingDirectory=" + v.Host.Workspace,
		"ExecStart":        "ExecStart=" + v.Host.Python() + " " + v.Host.EntryPoint(),
		"Restart":          "Restart=always",
		"RestartSec":       "RestartSec=10",
	}
	for field, want := range expectations {
		if !strings.Contains(content, want) {
			issues = append(issues, Issue{
				File:     path,
				Field:    field,
				Message:  fmt.Sprintf("expected %q", want),
				Severity: SeverityError,
			})
		}
	}

	return issues
}

// ValidateScripts checks that every control script exists and is executable.
func (v *Validator) ValidateScripts() []Issue {
	issues := []Issue{}

	for _, name := range assets.ScriptNames {
		path := filepath.Join(v.Host.Workspace, name)
		info, err := os.Stat(path)
		if err != nil {
			issues = append(issues, Issue{
				File:     path,
				Message:  "control script not found",
				Severity: SeverityError,
			})
			continue
		}
		if info.Mode()&0111 == 0 {
			issues = append(issues, Issue{
				File:     path,
				Message:  "control script is not executable",
				Severity: SeverityError,
			})
		}
	}

	return issues
}

func containsKey(list []string, key string) bool {
	for _, item := range list {
		if item == key {
			return true
		}
	}
	return false
}
