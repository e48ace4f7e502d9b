package systemd

import (
	"context"
	"fmt"
	"strings"

	"github.com/jaspreet-dot-casa/botvm/pkg/execx"
)

// Manager wraps systemctl for a single unit.
type Manager struct {
	runner execx.Runner
	unit   string // unit name including .service suffix
}

// NewManager creates a Manager for a unit name (without suffix).
func NewManager(runner execx.Runner, serviceName string) *Manager {
	return &Manager{
		runner: runner,
		unit:   serviceName + ".service",
	}
}

// DaemonReload reloads the systemd unit cache.
func (m *Manager) DaemonReload(ctx context.Context) error {
	if _, err := m.runner.Run(ctx, "systemctl", "daemon-reload"); err != nil {
		return fmt.Errorf("daemon-reload failed: %w", err)
	}
	return nil
}

// Enable registers the unit for boot-time activation.
func (m *Manager) Enable(ctx context.Context) error {
	if _, err := m.runner.Run(ctx, "systemctl", "enable", m.unit); err != nil {
		return fmt.Errorf("enable %s failed: %w", m.unit, err)
	}
	return nil
}

// Disable removes the unit from boot-time activation. Used to back out of a
// partially registered service.
func (m *Manager) Disable(ctx context.Context) error {
	if _, err := m.runner.Run(ctx, "systemctl", "disable", m.unit); err != nil {
		return fmt.Errorf("disable %s failed: %w", m.unit, err)
	}
	return nil
}

// Start starts the unit.
func (m *Manager) Start(ctx context.Context) error {
	if _, err := m.runner.Run(ctx, "systemctl", "start", m.unit); err != nil {
		return fmt.Errorf("start %s failed: %w", m.unit, err)
	}
	return nil
}

// Restart restarts the unit.
func (m *Manager) Restart(ctx context.Context) error {
	if _, err := m.runner.Run(ctx, "systemctl", "restart", m.unit); err != nil {
		return fmt.Errorf("restart %s failed: %w", m.unit, err)
	}
	return nil
}

// IsActive reports whether the unit is currently active. systemctl exits
// non-zero for inactive units, so the error is only surfaced when the
// output is not a recognised state.
func (m *Manager) IsActive(ctx context.Context) (bool, string, error) {
	out, err := m.runner.Run(ctx, "systemctl", "is-active", m.unit)
	state := strings.TrimSpace(out)
	if state == "" && err != nil {
		return false, "unknown", err
	}
	return state == "active", state, nil
}
