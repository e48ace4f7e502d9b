package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/botvm/pkg/history"
	"github.com/jaspreet-dot-casa/botvm/pkg/utils"
)

// newHistoryCmd creates the history subcommand
func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List past provisioning runs",
		RunE:  runHistory,
	}
}

func runHistory(_ *cobra.Command, _ []string) error {
	store, err := history.NewStore()
	if err != nil {
		return err
	}

	records, err := store.List()
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println("No provisioning runs recorded.")
		return nil
	}

	// Newest first
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]

		outcome := "ok"
		if !r.Success {
			outcome = fmt.Sprintf("failed at %s", r.FailedStep)
		}
		if r.DryRun {
			outcome += ", dry run"
		}

		fmt.Printf("%s  %s  %s (%s, %s)\n",
			shortID(r.ID),
			r.StartedAt.Format(time.DateTime),
			utils.FormatTimeAgo(r.StartedAt),
			outcome,
			r.Duration.Round(time.Millisecond))
	}

	return nil
}

// shortID returns the display prefix of a run ID. A hand-edited history
// file may hold IDs shorter than the uuid the store writes.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
