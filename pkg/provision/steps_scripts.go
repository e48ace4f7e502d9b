package provision

import (
	"context"

	"github.com/jaspreet-dot-casa/botvm/pkg/assets"
	"github.com/jaspreet-dot-casa/botvm/pkg/scripts"
)

// ScriptsStep emits the six control scripts into the workspace. Each wraps
// a single service-manager or log-viewer command; update.sh additionally
// chains pull, reinstall and restart with short-circuit semantics.
type ScriptsStep struct{}

func (s *ScriptsStep) ID() string   { return "scripts" }
func (s *ScriptsStep) Name() string { return "Control scripts" }

func (s *ScriptsStep) Run(_ context.Context, pctx *Context) error {
	vars := scripts.Vars{
		ServiceName: pctx.Config.ServiceName,
		Workspace:   pctx.Host.Workspace,
		VenvDir:     pctx.Host.VenvDir,
	}

	if pctx.DryRun {
		for _, name := range assets.ScriptNames {
			pctx.Infof("Would write %s/%s", pctx.Host.Workspace, name)
		}
		return nil
	}

	written, err := scripts.WriteAll(pctx.Host.Workspace, vars)
	for _, path := range written {
		pctx.Infof("Wrote %s", path)
	}
	return err
}
