package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ParseEnvFile parses a shell-style env file and returns key-value pairs.
func ParseEnvFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	envVars := make(map[string]string)
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE or KEY="VALUE"
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		envVars[key] = value
	}

	return envVars, scanner.Err()
}

// WriteEnvFile writes KEY=VALUE lines for the given keys in order. Values
// containing whitespace are quoted. The file is fully overwritten.
func WriteEnvFile(path string, keys []string, values map[string]string) error {
	var b strings.Builder
	b.WriteString("# Bot secrets. Fill in real values before starting the service.\n")
	for _, key := range keys {
		value := values[key]
		if strings.ContainsAny(value, " \t") {
			b.WriteString(fmt.Sprintf("%s=%q\n", key, value))
		} else {
			b.WriteString(fmt.Sprintf("%s=%s\n", key, value))
		}
	}

	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
