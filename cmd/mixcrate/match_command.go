package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"mixcrate/internal/match"
)

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var folders []string
	var limit int

	cmd := &cobra.Command{
		Use:   "match <track>",
		Short: "Suggest harmonically compatible tracks",
		Long: "Looks the given track up in the analysis cache (by path, exact filename,\n" +
			"or filename fragment) and ranks every compatible track in the library\n" +
			"against it on the Camelot wheel.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := ctx.openCache()
			if err != nil {
				return err
			}

			ref, err := match.Lookup(cache, args[0], args[0])
			if err != nil {
				return err
			}

			allowed := folders
			if !cmd.Flags().Changed("folders") {
				allowed = nil
			}
			suggestions := match.FindMatches(ref, cache.Library(), allowed)
			if limit > 0 && len(suggestions) > limit {
				suggestions = suggestions[:limit]
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Reference: %s  [%s  %s BPM]\n\n",
				ref.Filename, ref.Camelot, formatBPM(ref.BPM))
			if len(suggestions) == 0 {
				fmt.Fprintln(out, "No compatible tracks found.")
				return nil
			}

			rows := make([][]string, 0, len(suggestions))
			for _, s := range suggestions {
				rows = append(rows, []string{
					s.MixType,
					s.Track.Camelot,
					formatBPM(s.Track.BPM),
					strconv.Itoa(s.BPMDiff),
					s.Track.Filename,
					s.Track.Folder,
					s.MixDesc,
				})
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"Mix", "Key", "BPM", "ΔBPM", "Track", "Folder", "Note"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft, alignLeft}))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&folders, "folders", nil, "Restrict candidates to these folders")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most this many suggestions (0 = all)")
	return cmd
}
