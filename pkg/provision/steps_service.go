package provision

import (
	"context"
	"fmt"
	"os"

	"github.com/jaspreet-dot-casa/botvm/pkg/config"
	"github.com/jaspreet-dot-casa/botvm/pkg/systemd"
)

// ServiceStep renders the unit file, writes it, reloads the unit cache and
// enables boot-time activation. Restart=always with a 10 second delay in
// the unit is the deployment's only resilience mechanism; nothing else
// watches the bot process after provisioning.
type ServiceStep struct {
	// UnitPath overrides the unit file location; empty means the
	// config's standard /etc/systemd/system path.
	UnitPath string
}

func (s *ServiceStep) unitPath(cfg *config.Config) string {
	if s.UnitPath != "" {
		return s.UnitPath
	}
	return cfg.UnitFilePath()
}

func (s *ServiceStep) ID() string   { return "service" }
func (s *ServiceStep) Name() string { return "Service registration" }

func (s *ServiceStep) Run(ctx context.Context, pctx *Context) error {
	host := pctx.Host

	unit, err := systemd.RenderUnit(systemd.UnitVars{
		Username:   host.Username,
		Workspace:  host.Workspace,
		VenvDir:    host.VenvDir,
		Python:     host.Python(),
		EntryPoint: host.EntryPoint(),
	})
	if err != nil {
		return err
	}

	unitPath := s.unitPath(pctx.Config)
	pctx.Infof("Writing %s", unitPath)
	if pctx.DryRun {
		pctx.Commandf("systemctl daemon-reload")
		pctx.Commandf("systemctl enable %s", pctx.Config.UnitFileName())
		return nil
	}

	if err := os.WriteFile(unitPath, []byte(unit), 0644); err != nil {
		return fmt.Errorf("failed to write unit file %s: %w", unitPath, err)
	}

	mgr := systemd.NewManager(pctx.Runner, pctx.Config.ServiceName)
	if err := mgr.DaemonReload(ctx); err != nil {
		return err
	}
	if err := mgr.Enable(ctx); err != nil {
		// Never leave a half-registered service behind.
		_ = mgr.Disable(ctx)
		os.Remove(unitPath)
		_ = mgr.DaemonReload(ctx)
		return err
	}

	return nil
}
