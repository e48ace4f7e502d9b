package doctor

import (
	"context"
	"runtime"
	"sync"

	"github.com/jaspreet-dot-casa/botvm/pkg/execx"
)

// Checker provides host dependency checking.
type Checker struct {
	runner   execx.Runner
	platform string
}

// NewChecker creates a new Checker with the real command runner.
func NewChecker() *Checker {
	return &Checker{
		runner:   &execx.RealRunner{},
		platform: runtime.GOOS,
	}
}

// NewCheckerWithRunner creates a new Checker with a custom runner (for testing).
func NewCheckerWithRunner(runner execx.Runner) *Checker {
	return &Checker{
		runner:   runner,
		platform: runtime.GOOS,
	}
}

// Platform returns the platform the checker runs on. Provisioning only
// makes sense on linux; other platforms get a warning from the CLI.
func (c *Checker) Platform() string {
	return c.platform
}

// CheckAll runs all checks and returns groups with results.
func (c *Checker) CheckAll(ctx context.Context) []CheckGroup {
	var result []CheckGroup
	for _, group := range GetGroups() {
		result = append(result, c.CheckGroup(ctx, group.ID))
	}
	return result
}

// CheckAllAsync runs all groups concurrently and returns them in order.
func (c *Checker) CheckAllAsync(ctx context.Context) []CheckGroup {
	groups := GetGroups()
	result := make([]CheckGroup, len(groups))
	var wg sync.WaitGroup

	for i, group := range groups {
		wg.Add(1)
		go func(idx int, g GroupDefinition) {
			defer wg.Done()
			result[idx] = c.CheckGroup(ctx, g.ID)
		}(i, group)
	}

	wg.Wait()
	return result
}

// CheckGroup runs all checks for a specific group.
func (c *Checker) CheckGroup(ctx context.Context, groupID string) CheckGroup {
	def, ok := GetGroupDefinition(groupID)
	if !ok {
		return CheckGroup{
			ID:   groupID,
			Name: "Unknown",
		}
	}

	group := CheckGroup{
		ID:          groupID,
		Name:        def.Name,
		Description: def.Description,
	}

	for _, checkID := range def.CheckIDs {
		group.Checks = append(group.Checks, c.runCheck(ctx, checkID))
	}

	return group
}

// runCheck runs a specific check by ID.
func (c *Checker) runCheck(ctx context.Context, checkID string) Check {
	switch checkID {
	case IDApt:
		return CheckApt(ctx, c.runner)
	case IDPython:
		return CheckPython(ctx, c.runner)
	case IDGit:
		return CheckGit(ctx, c.runner)
	case IDTmux:
		return CheckTmux(ctx, c.runner)
	case IDHtop:
		return CheckHtop(ctx, c.runner)
	case IDSystemctl:
		return CheckSystemctl(ctx, c.runner)
	case IDJournalctl:
		return CheckJournalctl(ctx, c.runner)
	case IDIptables:
		return CheckIptables(ctx, c.runner)
	case IDNetfilterPersistent:
		return CheckNetfilterPersistent(ctx, c.runner)
	default:
		return Check{
			ID:      checkID,
			Name:    checkID,
			Status:  StatusError,
			Message: "unknown check",
		}
	}
}

// Summary represents an overall health summary.
type Summary struct {
	Total    int
	OK       int
	Missing  int
	Warnings int
	Errors   int
}

// GetSummary returns a summary of check results.
func (c *Checker) GetSummary(groups []CheckGroup) Summary {
	var summary Summary

	for _, group := range groups {
		for _, check := range group.Checks {
			summary.Total++
			switch check.Status {
			case StatusOK:
				summary.OK++
			case StatusMissing:
				summary.Missing++
			case StatusWarning:
				summary.Warnings++
			case StatusError:
				summary.Errors++
			}
		}
	}

	return summary
}
