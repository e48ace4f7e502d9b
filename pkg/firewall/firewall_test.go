package firewall

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaspreet-dot-casa/botvm/pkg/execx"
)

const chainWithSixRules = `-P INPUT ACCEPT
-A INPUT -i lo -j ACCEPT
-A INPUT -m state --state RELATED,ESTABLISHED -j ACCEPT
-A INPUT -p icmp -j ACCEPT
-A INPUT -p tcp --dport 22 -j ACCEPT
-A INPUT -p udp --dport 123 -j ACCEPT
-A INPUT -j REJECT
`

func checkLine(port int) string {
	return fmt.Sprintf("iptables -C INPUT -p tcp --dport %d -m state --state NEW -j ACCEPT", port)
}

func insertLine(port int) string {
	return insertLineAt(port, 6)
}

func insertLineAt(port, position int) string {
	return fmt.Sprintf("iptables -I INPUT %d -p tcp --dport %d -m state --state NEW -j ACCEPT", position, port)
}

func TestApplyInsertsMissingRules(t *testing.T) {
	runner := execx.NewFakeRunner()
	runner.Script("iptables -S INPUT", chainWithSixRules)
	for _, port := range []int{80, 443, 8080} {
		runner.Fail(checkLine(port), "rule does not exist")
	}

	fw := NewConfigurator(runner, 6)
	warning, err := fw.Apply(context.Background(), []int{80, 443, 8080})
	require.NoError(t, err)
	assert.Empty(t, warning)

	lines := runner.CommandLines()
	for _, port := range []int{80, 443, 8080} {
		assert.Contains(t, lines, insertLine(port))
	}
	assert.Equal(t, "netfilter-persistent save", lines[len(lines)-1])
}

func TestApplyIsIdempotent(t *testing.T) {
	runner := execx.NewFakeRunner()
	runner.Script("iptables -S INPUT", chainWithSixRules)
	// All -C checks succeed: every rule already present.

	fw := NewConfigurator(runner, 6)
	warning, err := fw.Apply(context.Background(), []int{80, 443, 8080})
	require.NoError(t, err)
	assert.Empty(t, warning)

	for _, line := range runner.CommandLines() {
		assert.NotContains(t, line, "-I INPUT", "no rule should be inserted on rerun")
	}
}

func TestApplyClampsInsertOnShortChain(t *testing.T) {
	runner := execx.NewFakeRunner()
	runner.Script("iptables -S INPUT", "-P INPUT ACCEPT\n-A INPUT -i lo -j ACCEPT\n")
	for _, port := range []int{80, 443, 8080} {
		runner.Fail(checkLine(port), "rule does not exist")
		// iptables exits 2 for an out-of-range position.
		runner.Fail(insertLineAt(port, 6), "Index of insertion too big")
	}

	fw := NewConfigurator(runner, 6)
	warning, err := fw.Apply(context.Background(), []int{80, 443, 8080})
	require.NoError(t, err)
	assert.Contains(t, warning, "INPUT chain has 1 rules")
	assert.Contains(t, warning, "instead of 6")

	lines := runner.CommandLines()
	assert.Contains(t, lines, insertLineAt(80, 2))
	assert.Contains(t, lines, insertLineAt(443, 3))
	assert.Contains(t, lines, insertLineAt(8080, 4))
	assert.Equal(t, "netfilter-persistent save", lines[len(lines)-1])
}

func TestApplyOnEmptyChain(t *testing.T) {
	runner := execx.NewFakeRunner()
	runner.Script("iptables -S INPUT", "-P INPUT ACCEPT\n")
	for _, port := range []int{80, 443, 8080} {
		runner.Fail(checkLine(port), "rule does not exist")
		runner.Fail(insertLineAt(port, 6), "Index of insertion too big")
	}

	fw := NewConfigurator(runner, 6)
	warning, err := fw.Apply(context.Background(), []int{80, 443, 8080})
	require.NoError(t, err)
	assert.Contains(t, warning, "INPUT chain has 0 rules")

	lines := runner.CommandLines()
	assert.Contains(t, lines, insertLineAt(80, 1))
	assert.Contains(t, lines, insertLineAt(443, 2))
	assert.Contains(t, lines, insertLineAt(8080, 3))
}

func TestApplyStopsOnInsertFailure(t *testing.T) {
	runner := execx.NewFakeRunner()
	runner.Script("iptables -S INPUT", chainWithSixRules)
	runner.Fail(checkLine(80), "rule does not exist")
	runner.Fail(insertLine(80), "permission denied")

	fw := NewConfigurator(runner, 6)
	_, err := fw.Apply(context.Background(), []int{80, 443})
	assert.ErrorContains(t, err, "port 80")

	// The failed insert short-circuits: no persist happened.
	for _, line := range runner.CommandLines() {
		assert.False(t, strings.HasPrefix(line, "netfilter-persistent"))
	}
}

func TestInputRuleCount(t *testing.T) {
	runner := execx.NewFakeRunner()
	runner.Script("iptables -S INPUT", chainWithSixRules)

	fw := NewConfigurator(runner, 6)
	count, err := fw.InputRuleCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, count)
}
