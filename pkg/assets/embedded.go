// Package assets provides the embedded files the provisioner writes to the
// host: placeholder bot sources, the systemd unit template and the control
// script templates.
package assets

import (
	"embed"
	"fmt"
	"regexp"
)

// BotMain contains the placeholder bot entry point. The real bot is supplied
// by the operator after provisioning; this stub only guarantees the expected
// filename exists and documents the required env vars.
//
//go:embed templates/main.py
var BotMain string

// BotKeepAlive contains the placeholder keep-alive module.
//
//go:embed templates/keep_alive.py
var BotKeepAlive string

// UnitTemplate contains the systemd unit template. Variables like
// ${USERNAME} and ${WORKSPACE} are substituted at generation time.
//
//go:embed templates/bot.service
var UnitTemplate string

// scriptFS holds the control script templates.
//
//go:embed templates/scripts
var scriptFS embed.FS

// ScriptNames lists the control scripts in emission order.
var ScriptNames = []string{
	"start.sh",
	"stop.sh",
	"restart.sh",
	"logs.sh",
	"status.sh",
	"update.sh",
}

// Script returns the template for a control script by name.
func Script(name string) (string, error) {
	data, err := scriptFS.ReadFile("templates/scripts/" + name)
	if err != nil {
		return "", fmt.Errorf("unknown control script %q: %w", name, err)
	}
	return string(data), nil
}

var varPattern = regexp.MustCompile(`\$\{([A-Z_]+)\}`)

// Substitute replaces ${VAR} placeholders in a template with values from
// vars. Unknown placeholders are left untouched so a rendering mistake is
// visible in the output instead of silently dropped.
func Substitute(template string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(template, func(match string) string {
		key := varPattern.FindStringSubmatch(match)[1]
		if value, ok := vars[key]; ok {
			return value
		}
		return match
	})
}
