// Package firewall inserts and persists the inbound iptables rules the bot
// host needs.
package firewall

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jaspreet-dot-casa/botvm/pkg/execx"
)

// Configurator applies inbound TCP allow rules to the INPUT chain.
type Configurator struct {
	runner      execx.Runner
	insertIndex int
}

// NewConfigurator creates a Configurator inserting rules at the given
// INPUT chain position.
func NewConfigurator(runner execx.Runner, insertIndex int) *Configurator {
	return &Configurator{runner: runner, insertIndex: insertIndex}
}

// ruleArgs returns the match portion of an allow rule for a TCP port.
func ruleArgs(port int) []string {
	return []string{
		"INPUT",
		"-p", "tcp",
		"--dport", strconv.Itoa(port),
		"-m", "state", "--state", "NEW",
		"-j", "ACCEPT",
	}
}

// HasRule reports whether the allow rule for a port already exists.
// iptables -C exits non-zero when the rule is absent.
func (c *Configurator) HasRule(ctx context.Context, port int) bool {
	args := append([]string{"-C"}, ruleArgs(port)...)
	_, err := c.runner.Run(ctx, "iptables", args...)
	return err == nil
}

// InsertRule inserts the allow rule for a port at the configured position.
func (c *Configurator) InsertRule(ctx context.Context, port int) error {
	return c.insertRuleAt(ctx, port, c.insertIndex)
}

func (c *Configurator) insertRuleAt(ctx context.Context, port, position int) error {
	args := append([]string{"-I", "INPUT", strconv.Itoa(position)}, ruleArgs(port)[1:]...)
	if _, err := c.runner.Run(ctx, "iptables", args...); err != nil {
		return fmt.Errorf("failed to insert rule for port %d: %w", port, err)
	}
	return nil
}

// InputRuleCount returns the number of rules currently in the INPUT chain.
func (c *Configurator) InputRuleCount(ctx context.Context) (int, error) {
	out, err := c.runner.Run(ctx, "iptables", "-S", "INPUT")
	if err != nil {
		return 0, fmt.Errorf("failed to list INPUT rules: %w", err)
	}

	count := 0
	for _, line := range strings.Split(out, "\n") {
		// -S prints the chain policy as "-P INPUT ..." and each rule as
		// "-A INPUT ..."; only the latter occupy rule positions.
		if strings.HasPrefix(strings.TrimSpace(line), "-A INPUT") {
			count++
		}
	}
	return count, nil
}

// Apply ensures the allow rules exist for all ports and persists the rule
// set. Reruns are idempotent: existing rules are not duplicated. It returns
// a warning message (empty when none) for conditions that change rule
// ordering but do not prevent provisioning.
func (c *Configurator) Apply(ctx context.Context, ports []int) (string, error) {
	warning := ""
	count, countErr := c.InputRuleCount(ctx)
	if countErr == nil && count+1 < c.insertIndex {
		// iptables rejects -I INPUT N when N exceeds rule-count+1, so
		// short chains get the rules appended at the end instead.
		warning = fmt.Sprintf("INPUT chain has %d rules; inserting at position %d instead of %d", count, count+1, c.insertIndex)
	}

	for _, port := range ports {
		if c.HasRule(ctx, port) {
			continue
		}
		position := c.insertIndex
		if countErr == nil && count+1 < position {
			position = count + 1
		}
		if err := c.insertRuleAt(ctx, port, position); err != nil {
			return warning, err
		}
		if countErr == nil {
			count++
		}
	}

	if err := c.Persist(ctx); err != nil {
		return warning, err
	}
	return warning, nil
}

// Persist saves the rule set so it survives reboot.
func (c *Configurator) Persist(ctx context.Context) error {
	if _, err := c.runner.Run(ctx, "netfilter-persistent", "save"); err != nil {
		return fmt.Errorf("failed to persist firewall rules: %w", err)
	}
	return nil
}
