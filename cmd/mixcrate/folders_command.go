package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newFoldersCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "folders",
		Short: "List library folders and their track counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := ctx.openCache()
			if err != nil {
				return err
			}

			counts := make(map[string]int)
			for _, t := range cache.Library() {
				counts[t.Folder]++
			}
			folders := cache.Folders()

			out := cmd.OutOrStdout()
			if len(folders) == 0 {
				fmt.Fprintln(out, "No analyzed tracks. Run 'mixcrate scan' first.")
				return nil
			}

			rows := make([][]string, 0, len(folders))
			for _, folder := range folders {
				rows = append(rows, []string{folder, strconv.Itoa(counts[folder])})
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"Folder", "Tracks"},
				rows,
				[]columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}
}
