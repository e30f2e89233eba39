package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"xposter/internal/api"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			var status api.DaemonStatus
			if err := ctx.getJSON("/api/status", &status); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			runningKind := statusError
			runningMsg := "stopped"
			if status.Running {
				runningKind = statusOK
				runningMsg = fmt.Sprintf("pid %d", status.PID)
			}
			fmt.Fprintln(out, renderStatusLine("Daemon", runningKind, runningMsg, colorize))

			publisherKind := statusWarn
			publisherMsg := "credentials not verified"
			if status.PublisherReady {
				publisherKind = statusOK
				publisherMsg = "credentials verified"
			}
			fmt.Fprintln(out, renderStatusLine("Publisher", publisherKind, publisherMsg, colorize))

			watcherKind := statusInfo
			watcherMsg := "disabled"
			if status.WatcherEnabled {
				watcherKind = statusOK
				watcherMsg = "polling for new posts"
			}
			fmt.Fprintln(out, renderStatusLine("Watcher", watcherKind, watcherMsg, colorize))

			fmt.Fprintln(out, renderStatusLine("Drain interval", statusInfo, status.DrainInterval, colorize))
			fmt.Fprintln(out, renderStatusLine("Queue database", statusInfo, status.QueueDBPath, colorize))

			queueMsg := fmt.Sprintf("%d pending, %d publishing, %d shared",
				status.Queue.Pending, status.Queue.Publishing, status.Queue.Shared)
			queueKind := statusOK
			if status.Queue.Pending > 0 {
				queueKind = statusInfo
			}
			fmt.Fprintln(out, renderStatusLine("Queue", queueKind, queueMsg, colorize))
			return nil
		},
	}
}
