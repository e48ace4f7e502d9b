// Package scripts emits the control scripts wrapping service-manager verbs.
package scripts

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jaspreet-dot-casa/botvm/pkg/assets"
)

// Vars holds the substitution variables shared by all control scripts.
type Vars struct {
	ServiceName string
	Workspace   string
	VenvDir     string
}

// Render renders a single control script by name.
func Render(name string, vars Vars) (string, error) {
	tmpl, err := assets.Script(name)
	if err != nil {
		return "", err
	}
	return assets.Substitute(tmpl, map[string]string{
		"SERVICE_NAME": vars.ServiceName,
		"WORKSPACE":    vars.Workspace,
		"VENV":         vars.VenvDir,
	}), nil
}

// WriteAll writes every control script into dir, executable, overwriting
// any previous version. It returns the written paths.
func WriteAll(dir string, vars Vars) ([]string, error) {
	var written []string
	for _, name := range assets.ScriptNames {
		content, err := Render(name, vars)
		if err != nil {
			return written, err
		}

		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0755); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
