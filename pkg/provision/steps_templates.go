package provision

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jaspreet-dot-casa/botvm/pkg/assets"
	"github.com/jaspreet-dot-casa/botvm/pkg/config"
)

// TemplatesStep writes the placeholder bot sources, the dependency manifest
// and the env template into the workspace. Template files are fully
// overwritten on every run; the active .env is only created when absent so
// reruns never clobber operator-entered secrets.
type TemplatesStep struct{}

func (s *TemplatesStep) ID() string   { return "templates" }
func (s *TemplatesStep) Name() string { return "Template files" }

func (s *TemplatesStep) Run(_ context.Context, pctx *Context) error {
	host := pctx.Host

	files := []struct {
		path    string
		content string
	}{
		{host.EntryPoint(), assets.BotMain},
		{filepath.Join(host.Workspace, "keep_alive.py"), assets.BotKeepAlive},
		{host.RequirementsFile(), pctx.Config.RequirementLines()},
	}

	for _, f := range files {
		pctx.Infof("Writing %s", f.path)
		if pctx.DryRun {
			continue
		}
		if err := os.WriteFile(f.path, []byte(f.content), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.path, err)
		}
	}

	pctx.Infof("Writing %s", host.EnvExampleFile())
	if !pctx.DryRun {
		if err := config.WriteEnvFile(host.EnvExampleFile(), config.EnvKeys, config.EnvPlaceholders); err != nil {
			return err
		}
	}

	if pctx.Runner.FileExists(host.EnvFile()) {
		pctx.Infof("Keeping existing %s", host.EnvFile())
		return nil
	}

	pctx.Infof("Creating %s from template", host.EnvFile())
	if pctx.DryRun {
		return nil
	}
	return config.WriteEnvFile(host.EnvFile(), config.EnvKeys, config.EnvPlaceholders)
}
