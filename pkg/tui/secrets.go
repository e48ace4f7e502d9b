package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/jaspreet-dot-casa/botvm/pkg/config"
)

// RunSecretsForm prompts for the bot secrets, pre-filled with current
// values, and returns the collected env map. Placeholder values are shown
// as empty so the operator is not tempted to keep them.
func RunSecretsForm(current map[string]string) (map[string]string, error) {
	prefill := func(key string) string {
		value := current[key]
		if value == config.EnvPlaceholders[key] {
			return ""
		}
		return value
	}

	discordToken := prefill("DISCORD_TOKEN")
	deeplKey := prefill("DEEPL_KEY")
	azureKey := prefill("AZURE_KEY")
	autoTranslate := !strings.EqualFold(current["AUTO_TRANSLATE"], "false")

	notEmpty := func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("value must not be empty")
		}
		return nil
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Discord bot token").
				Description("From the Discord developer portal").
				EchoMode(huh.EchoModePassword).
				Validate(notEmpty).
				Value(&discordToken),
			huh.NewInput().
				Title("DeepL API key").
				Description("Primary translation provider").
				EchoMode(huh.EchoModePassword).
				Validate(notEmpty).
				Value(&deeplKey),
			huh.NewInput().
				Title("Azure Translator key").
				Description("Fallback translation provider").
				EchoMode(huh.EchoModePassword).
				Validate(notEmpty).
				Value(&azureKey),
			huh.NewConfirm().
				Title("Auto-translate").
				Description("Translate messages without an explicit command").
				Affirmative("Enabled").
				Negative("Disabled").
				Value(&autoTranslate),
		).Title("Bot secrets"),
	).WithTheme(Theme())

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("form cancelled: %w", err)
	}

	values := map[string]string{
		"DISCORD_TOKEN":  discordToken,
		"DEEPL_KEY":      deeplKey,
		"AZURE_KEY":      azureKey,
		"AUTO_TRANSLATE": "false",
	}
	if autoTranslate {
		values["AUTO_TRANSLATE"] = "true"
	}
	return values, nil
}
