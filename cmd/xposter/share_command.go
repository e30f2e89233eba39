package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"xposter/internal/api"
)

func newShareCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "share [item-id...]",
		Short: "Share queued posts now",
		Long: `Share queued posts now instead of waiting for the next scheduled run.

Without arguments every pending item is shared. With item ids only those
items are shared; ids that are not queued yet are queued first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseItemIDs(args)
			if err != nil {
				return err
			}

			var resp api.ShareResponse
			if err := ctx.postJSON("/api/share", api.ShareRequest{ItemIDs: ids}, &resp); err != nil {
				return err
			}
			if resp.Report == nil {
				return fmt.Errorf("daemon returned no drain report")
			}

			report := resp.Report
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Drain %s finished in %s: %d shared, %d skipped, %d failed\n",
				report.DrainID, report.Duration, report.Shared, report.Skipped, report.Failed)

			if len(report.Outcomes) == 0 {
				fmt.Fprintln(out, "Nothing to share")
				return nil
			}

			rows := make([][]string, 0, len(report.Outcomes))
			for _, outcome := range report.Outcomes {
				rows = append(rows, []string{
					strconv.FormatInt(outcome.ItemID, 10),
					statusLabel(string(outcome.Status)),
					outcome.PostID,
					outcome.Error,
				})
			}
			table := renderTable(
				[]string{"Item", "Result", "Post", "Error"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
			)
			fmt.Fprintln(out, table)

			if report.Failed > 0 {
				return fmt.Errorf("%d item(s) failed to share", report.Failed)
			}
			return nil
		},
	}
}
