package main

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"mixcrate/internal/analysis"
	"mixcrate/internal/library"
	"mixcrate/internal/logging"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var withLoudness bool
	var noLoudness bool

	cmd := &cobra.Command{
		Use:   "scan [root...]",
		Short: "Analyze the library in the foreground",
		Long: "Walks the configured roots (or the given ones), analyzes new and changed\n" +
			"files, and updates the analysis cache. Unchanged files are skipped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			roots := cfg.Library.Roots
			if len(args) > 0 {
				roots = args
			}
			if len(roots) == 0 {
				return fmt.Errorf("no library roots configured; add them to the config or pass them as arguments")
			}

			wantLoudness := cfg.Scanner.AnalyzeLoudness
			if withLoudness {
				wantLoudness = true
			}
			if noLoudness {
				wantLoudness = false
			}

			logger := logging.NewNop()
			extractor := analysis.New(analysis.Options{
				WindowSeconds: cfg.Analysis.WindowSeconds,
				MinBPM:        cfg.Analysis.MinBPM,
				MaxBPM:        cfg.Analysis.MaxBPM,
			})
			cache := library.NewCache(cfg.CacheFilePath(), logger)
			scanner := library.NewScanner(cache, extractor, logger, library.ScannerOptions{
				Extensions:    cfg.Library.Extensions,
				Workers:       cfg.Scanner.Workers,
				SaveBatchSize: cfg.Scanner.SaveBatchSize,
			})

			bar := progressbar.NewOptions(-1,
				progressbar.OptionSetDescription("analyzing"),
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionSpinnerType(14),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
			analyzed := 0
			progress := func(path string) {
				analyzed++
				bar.Describe("analyzing " + filepath.Base(path))
				_ = bar.Add(1)
			}

			tracks, err := scanner.Scan(cmd.Context(), roots, wantLoudness, progress)
			_ = bar.Finish()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Library: %s tracks (%s analyzed this run, %s reused)\n",
				humanize.Comma(int64(len(tracks))),
				humanize.Comma(int64(analyzed)),
				humanize.Comma(int64(len(tracks)-analyzed)))
			fmt.Fprintf(out, "Cache: %s\n", cfg.CacheFilePath())
			return nil
		},
	}

	cmd.Flags().BoolVar(&withLoudness, "loudness", false, "Force the full decode pass (loudness, key, BPM)")
	cmd.Flags().BoolVar(&noLoudness, "no-loudness", false, "Metadata-only scan, skip the decode pass")
	cmd.MarkFlagsMutuallyExclusive("loudness", "no-loudness")
	return cmd
}
