// Package provision runs the sequential provisioning pipeline that turns a
// fresh Ubuntu host into a supervised bot deployment.
package provision

import (
	"fmt"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/jaspreet-dot-casa/botvm/pkg/config"
)

// Host holds the identity and derived paths provisioning is applied to.
type Host struct {
	Username  string
	HomeDir   string
	Workspace string
	VenvDir   string
}

// CurrentHost builds a Host from the invoking user.
func CurrentHost(cfg *config.Config) (*Host, error) {
	u, err := user.Current()
	if err != nil {
		return nil, fmt.Errorf("failed to determine current user: %w", err)
	}
	if u.HomeDir == "" {
		return nil, fmt.Errorf("user %s has no home directory", u.Username)
	}
	return HostFor(u.Username, u.HomeDir, cfg), nil
}

// HostFor builds a Host for an explicit user and home directory.
func HostFor(username, homeDir string, cfg *config.Config) *Host {
	workspace := cfg.WorkspaceDir
	if workspace == "~" || strings.HasPrefix(workspace, "~/") {
		workspace = filepath.Join(homeDir, strings.TrimPrefix(workspace, "~"))
	}
	return &Host{
		Username:  username,
		HomeDir:   homeDir,
		Workspace: workspace,
		VenvDir:   filepath.Join(workspace, cfg.VenvDir),
	}
}

// VenvBin returns a path inside the virtualenv bin directory.
func (h *Host) VenvBin(name string) string {
	return filepath.Join(h.VenvDir, "bin", name)
}

// Python returns the virtualenv python interpreter path.
func (h *Host) Python() string {
	return h.VenvBin("python")
}

// Pip returns the virtualenv pip path.
func (h *Host) Pip() string {
	return h.VenvBin("pip")
}

// EntryPoint returns the bot entry point path.
func (h *Host) EntryPoint() string {
	return filepath.Join(h.Workspace, "main.py")
}

// EnvFile returns the active .env path.
func (h *Host) EnvFile() string {
	return filepath.Join(h.Workspace, ".env")
}

// EnvExampleFile returns the .env.example path.
func (h *Host) EnvExampleFile() string {
	return filepath.Join(h.Workspace, ".env.example")
}

// RequirementsFile returns the pip manifest path.
func (h *Host) RequirementsFile() string {
	return filepath.Join(h.Workspace, "requirements.txt")
}
