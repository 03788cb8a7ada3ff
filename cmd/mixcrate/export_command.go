package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the analyzed library as CSV",
		Long: "Writes one row per analyzed track with its path, tags, and analysis\n" +
			"results. Defaults to stdout; use --output to write a file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := ctx.openCache()
			if err != nil {
				return err
			}

			tracks := cache.Library()
			sort.Slice(tracks, func(i, j int) bool {
				return tracks[i].Path < tracks[j].Path
			})

			dest := cmd.OutOrStdout()
			if output != "" {
				file, err := os.Create(output)
				if err != nil {
					return err
				}
				defer file.Close()
				dest = file
			}

			writer := csv.NewWriter(dest)
			header := []string{
				"path", "filename", "folder", "artist", "title", "album",
				"duration_seconds", "bitrate", "sample_rate", "dbfs",
				"key", "camelot", "bpm",
			}
			if err := writer.Write(header); err != nil {
				return err
			}
			for _, t := range tracks {
				record := []string{
					t.Path,
					t.Filename,
					t.Folder,
					t.Artist,
					t.Title,
					t.Album,
					strconv.FormatFloat(t.Duration, 'f', 2, 64),
					strconv.Itoa(t.Bitrate),
					strconv.Itoa(t.SampleRate),
					strconv.FormatFloat(t.LoudnessDBFS, 'f', 2, 64),
					t.Key,
					t.Camelot,
					strconv.Itoa(t.BPM),
				}
				if err := writer.Write(record); err != nil {
					return err
				}
			}
			writer.Flush()
			if err := writer.Error(); err != nil {
				return err
			}

			if output != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %s tracks to %s\n",
					humanize.Comma(int64(len(tracks))), output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write CSV to this file instead of stdout")
	return cmd
}
