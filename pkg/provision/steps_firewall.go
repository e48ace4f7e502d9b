package provision

import (
	"context"
	"fmt"
	"strings"

	"github.com/jaspreet-dot-casa/botvm/pkg/firewall"
)

// FirewallStep inserts the inbound allow rules for the bot's TCP ports and
// persists them. Reruns do not duplicate rules.
type FirewallStep struct{}

func (s *FirewallStep) ID() string   { return "firewall" }
func (s *FirewallStep) Name() string { return "Firewall rules" }

func (s *FirewallStep) Run(ctx context.Context, pctx *Context) error {
	ports := pctx.Config.FirewallPorts
	portWords := make([]string, len(ports))
	for i, p := range ports {
		portWords[i] = fmt.Sprintf("%d", p)
	}
	pctx.Infof("Allowing inbound TCP on ports %s", strings.Join(portWords, ", "))

	if pctx.DryRun {
		for _, p := range ports {
			pctx.Commandf("iptables -I INPUT %d -p tcp --dport %d -m state --state NEW -j ACCEPT",
				pctx.Config.FirewallInsertIndex, p)
		}
		pctx.Commandf("netfilter-persistent save")
		return nil
	}

	fw := firewall.NewConfigurator(pctx.Runner, pctx.Config.FirewallInsertIndex)
	warning, err := fw.Apply(ctx, ports)
	if warning != "" {
		pctx.Warnf("%s", warning)
	}
	return err
}
