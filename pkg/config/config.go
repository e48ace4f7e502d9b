// Package config holds the desired state for a bot host and the env files
// the provisioner reads and writes.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Requirement is a pinned pip dependency.
type Requirement struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// String returns the requirement in pip pin syntax.
func (r Requirement) String() string {
	return fmt.Sprintf("%s==%s", r.Name, r.Version)
}

// Config describes everything the provisioner applies to the host.
// DefaultConfig covers the standard single-VM deployment; a YAML file can
// override individual fields via Load.
type Config struct {
	// ServiceName is the systemd unit name (without .service suffix).
	ServiceName string `yaml:"service_name"`

	// WorkspaceDir is the bot workspace. A leading "~/" is expanded
	// against the provisioning user's home directory.
	WorkspaceDir string `yaml:"workspace_dir"`

	// VenvDir is the virtualenv directory name inside the workspace.
	VenvDir string `yaml:"venv_dir"`

	// AptPackages are installed by the system step.
	AptPackages []string `yaml:"apt_packages"`

	// SkipUpgrade skips apt-get upgrade (apt-get update still runs).
	SkipUpgrade bool `yaml:"skip_upgrade"`

	// Requirements are the pinned pip dependencies written to
	// requirements.txt and installed into the virtualenv.
	Requirements []Requirement `yaml:"requirements"`

	// FirewallPorts are TCP ports opened by the firewall step.
	FirewallPorts []int `yaml:"firewall_ports"`

	// FirewallInsertIndex is the INPUT chain position rules are inserted
	// at. Hosts with fewer pre-existing rules get a warning, not an error.
	FirewallInsertIndex int `yaml:"firewall_insert_index"`

	// SkipFirewall disables the firewall step entirely.
	SkipFirewall bool `yaml:"skip_firewall"`
}

// EnvKeys are the secrets the bot reads from .env, in file order.
// AUTO_TRANSLATE is a boolean feature toggle; the rest are credentials.
var EnvKeys = []string{
	"DISCORD_TOKEN",
	"DEEPL_KEY",
	"AZURE_KEY",
	"AUTO_TRANSLATE",
}

// EnvPlaceholders are the values written to .env.example. Every key gets a
// non-empty placeholder; real values are supplied by the operator.
var EnvPlaceholders = map[string]string{
	"DISCORD_TOKEN":  "your-discord-bot-token",
	"DEEPL_KEY":      "your-deepl-api-key",
	"AZURE_KEY":      "your-azure-translator-key",
	"AUTO_TRANSLATE": "true",
}

// DefaultConfig returns the standard deployment configuration.
func DefaultConfig() *Config {
	return &Config{
		ServiceName:  "discord-bot",
		WorkspaceDir: "~/discord-bot",
		VenvDir:      "venv",
		AptPackages: []string{
			"python3",
			"python3-pip",
			"python3-venv",
			"tmux",
			"htop",
			"git",
		},
		Requirements: []Requirement{
			{Name: "discord.py", Version: "2.3.2"},
			{Name: "aiohttp", Version: "3.9.1"},
			{Name: "python-dotenv", Version: "1.0.0"},
		},
		FirewallPorts:       []int{80, 443, 8080},
		FirewallInsertIndex: 6,
	}
}

// Load reads a YAML config file and applies it on top of DefaultConfig.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the config for values the provisioner cannot apply.
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("service_name must not be empty")
	}
	if strings.ContainsAny(c.ServiceName, "/ ") {
		return fmt.Errorf("service_name %q must not contain slashes or spaces", c.ServiceName)
	}
	if c.WorkspaceDir == "" {
		return fmt.Errorf("workspace_dir must not be empty")
	}
	if c.VenvDir == "" {
		return fmt.Errorf("venv_dir must not be empty")
	}
	if len(c.Requirements) == 0 {
		return fmt.Errorf("requirements must not be empty")
	}
	for _, req := range c.Requirements {
		if req.Name == "" || req.Version == "" {
			return fmt.Errorf("requirement %q must have both name and version", req.String())
		}
	}
	for _, port := range c.FirewallPorts {
		if port < 1 || port > 65535 {
			return fmt.Errorf("firewall port %d out of range", port)
		}
	}
	if c.FirewallInsertIndex < 1 {
		return fmt.Errorf("firewall_insert_index must be >= 1")
	}
	return nil
}

// UnitFileName returns the systemd unit file name.
func (c *Config) UnitFileName() string {
	return c.ServiceName + ".service"
}

// UnitFilePath returns the absolute unit file path.
func (c *Config) UnitFilePath() string {
	return filepath.Join("/etc/systemd/system", c.UnitFileName())
}

// RequirementLines returns the requirements.txt content.
func (c *Config) RequirementLines() string {
	var b strings.Builder
	for _, req := range c.Requirements {
		b.WriteString(req.String())
		b.WriteString("\n")
	}
	return b.String()
}
