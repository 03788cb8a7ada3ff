package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"mixcrate/internal/api"
	"mixcrate/internal/library"
	"mixcrate/internal/logs"
)

func newDaemonCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Talk to a running mixcrated instance",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newDaemonStatusCommand(ctx))
	cmd.AddCommand(newDaemonScanCommand(ctx))
	cmd.AddCommand(newDaemonLogsCommand(ctx))
	return cmd
}

func newDaemonStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the daemon's scan state and library size",
		RunE: func(cmd *cobra.Command, args []string) error {
			var status library.ScanStatus
			if err := ctx.callAPI(http.MethodGet, "/api/scan/status", nil, &status); err != nil {
				return err
			}
			var tracks []library.Track
			if err := ctx.callAPI(http.MethodGet, "/api/library", nil, &tracks); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if status.Scanning {
				fmt.Fprintf(out, "Scanning: %s / %s\n", status.CurrentFolder, status.CurrentFile)
			} else {
				fmt.Fprintln(out, "Idle")
			}
			if !status.LastScan.IsZero() {
				fmt.Fprintf(out, "Last scan: %s\n", status.LastScan.Format("2006-01-02 15:04:05"))
			}
			fmt.Fprintf(out, "Library: %d tracks\n", len(tracks))
			return nil
		},
	}
}

func newDaemonLogsCommand(ctx *commandContext) *cobra.Command {
	var follow bool
	var lines int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the daemon log",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logPath := filepath.Join(cfg.Paths.LogDir, "mixcrated.log")

			out := cmd.OutOrStdout()
			result, err := logs.Tail(cmd.Context(), logPath, logs.TailOptions{Offset: -1, Limit: lines})
			if err != nil {
				return err
			}
			for _, line := range result.Lines {
				fmt.Fprintln(out, line)
			}
			if !follow {
				return nil
			}

			offset := result.Offset
			for {
				result, err := logs.Tail(cmd.Context(), logPath, logs.TailOptions{
					Offset: offset,
					Follow: true,
					Wait:   time.Second,
				})
				if err != nil {
					if errors.Is(err, context.Canceled) {
						return nil
					}
					return err
				}
				for _, line := range result.Lines {
					fmt.Fprintln(out, line)
				}
				offset = result.Offset
			}
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep streaming new log lines")
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing lines to show first")
	return cmd
}

func newDaemonScanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Ask the daemon to start a background scan",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp api.ScanResponse
			if err := ctx.callAPI(http.MethodPost, "/api/scan", nil, &resp); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch resp.Status {
			case api.ScanAlreadyScanning:
				fmt.Fprintln(out, "A scan is already running.")
			default:
				fmt.Fprintln(out, "Scan started.")
			}
			return nil
		},
	}
}
