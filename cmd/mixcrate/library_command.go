package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newLibraryCommand(ctx *commandContext) *cobra.Command {
	var folderFilter string

	cmd := &cobra.Command{
		Use:   "library",
		Short: "List analyzed tracks from the cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := ctx.openCache()
			if err != nil {
				return err
			}

			tracks := cache.Library()
			if folderFilter != "" {
				needle := strings.ToLower(folderFilter)
				filtered := tracks[:0]
				for _, t := range tracks {
					if strings.Contains(strings.ToLower(t.Folder), needle) {
						filtered = append(filtered, t)
					}
				}
				tracks = filtered
			}

			out := cmd.OutOrStdout()
			if len(tracks) == 0 {
				fmt.Fprintln(out, "No analyzed tracks. Run 'mixcrate scan' first.")
				return nil
			}

			sort.Slice(tracks, func(i, j int) bool {
				if tracks[i].Folder != tracks[j].Folder {
					return tracks[i].Folder < tracks[j].Folder
				}
				return tracks[i].Filename < tracks[j].Filename
			})

			rows := make([][]string, 0, len(tracks))
			for _, t := range tracks {
				rows = append(rows, []string{
					t.Filename,
					t.Camelot,
					formatBPM(t.BPM),
					formatDuration(t.Duration),
					t.Folder,
				})
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"Track", "Key", "BPM", "Length", "Folder"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft}))
			fmt.Fprintf(out, "%s tracks\n", humanize.Comma(int64(len(tracks))))
			return nil
		},
	}

	cmd.Flags().StringVar(&folderFilter, "folder", "", "Only show tracks whose folder contains this text")
	return cmd
}
