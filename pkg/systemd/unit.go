// Package systemd renders the bot service unit and wraps systemctl.
package systemd

import (
	"fmt"
	"strings"

	"github.com/jaspreet-dot-casa/botvm/pkg/assets"
)

// UnitVars holds the substitution variables for the unit template.
type UnitVars struct {
	Username   string
	Workspace  string
	VenvDir    string
	Python     string
	EntryPoint string
}

// RenderUnit renders the embedded unit template with the given variables.
func RenderUnit(vars UnitVars) (string, error) {
	if vars.Username == "" {
		return "", fmt.Errorf("unit requires a username")
	}
	if vars.Workspace == "" {
		return "", fmt.Errorf("unit requires a workspace path")
	}

	rendered := assets.Substitute(assets.UnitTemplate, map[string]string{
		"USERNAME":   vars.Username,
		"WORKSPACE":  vars.Workspace,
		"VENV":       vars.VenvDir,
		"PYTHON":     vars.Python,
		"ENTRYPOINT": vars.EntryPoint,
	})

	// A leftover placeholder means a variable was never supplied; writing
	// such a unit would register a broken service.
	if strings.Contains(rendered, "${") {
		return "", fmt.Errorf("unit template has unsubstituted variables")
	}

	return rendered, nil
}
