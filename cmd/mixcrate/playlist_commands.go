package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"mixcrate/internal/match"
	"mixcrate/internal/playlist"
)

func newPlaylistCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "playlist",
		Short: "Manage playlists",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newPlaylistListCommand(ctx))
	cmd.AddCommand(newPlaylistCreateCommand(ctx))
	cmd.AddCommand(newPlaylistShowCommand(ctx))
	cmd.AddCommand(newPlaylistDeleteCommand(ctx))
	cmd.AddCommand(newPlaylistRenameCommand(ctx))
	cmd.AddCommand(newPlaylistAddCommand(ctx))
	cmd.AddCommand(newPlaylistRemoveCommand(ctx))
	return cmd
}

// openPlaylists opens the playlist database directly. Playlist commands do
// not need a running daemon; WAL mode keeps concurrent access safe when one
// is running anyway.
func openPlaylists(ctx *commandContext) (*playlist.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	return playlist.Open(cfg.PlaylistDBPath())
}

func newPlaylistListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all playlists",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openPlaylists(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			playlists, err := store.List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(playlists) == 0 {
				fmt.Fprintln(out, "No playlists yet. Create one with 'mixcrate playlist create'.")
				return nil
			}

			rows := make([][]string, 0, len(playlists))
			for _, p := range playlists {
				rows = append(rows, []string{p.ID, p.Name, strconv.Itoa(len(p.Tracks)), p.CreatedAt})
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"ID", "Name", "Tracks", "Created"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft}))
			return nil
		},
	}
}

func newPlaylistCreateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "create [name]",
		Short: "Create a playlist",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openPlaylists(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			created, err := store.Create(cmd.Context(), name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created playlist %q (%s)\n", created.Name, created.ID)
			return nil
		},
	}
}

func newPlaylistShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a playlist and its tracks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openPlaylists(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			p, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%d tracks)\n", p.Name, len(p.Tracks))
			if len(p.Tracks) == 0 {
				return nil
			}

			rows := make([][]string, 0, len(p.Tracks))
			for i, t := range p.Tracks {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					t.Filename,
					t.Camelot,
					formatBPM(t.BPM),
					formatDuration(t.Duration),
				})
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"#", "Track", "Key", "BPM", "Length"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight}))
			return nil
		},
	}
}

func newPlaylistDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openPlaylists(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted playlist %s\n", args[0])
			return nil
		},
	}
}

func newPlaylistRenameCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a playlist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openPlaylists(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			p, err := store.Rename(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed playlist %s to %q\n", p.ID, p.Name)
			return nil
		},
	}
}

func newPlaylistAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <id> <track>",
		Short: "Add a cached track to a playlist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := ctx.openCache()
			if err != nil {
				return err
			}
			track, err := match.Lookup(cache, args[1], args[1])
			if err != nil {
				return err
			}

			store, err := openPlaylists(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			p, err := store.AddTrack(cmd.Context(), args[0], track)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s to %q (%d tracks)\n",
				track.Filename, p.Name, len(p.Tracks))
			return nil
		},
	}
}

func newPlaylistRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id> <position>",
		Short: "Remove a track from a playlist by its 1-based position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			position, err := strconv.Atoi(args[1])
			if err != nil || position < 1 {
				return fmt.Errorf("position must be a positive number, got %q", args[1])
			}

			store, err := openPlaylists(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			p, err := store.RemoveTrack(cmd.Context(), args[0], position-1)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed track %d from %q (%d left)\n",
				position, p.Name, len(p.Tracks))
			return nil
		},
	}
}
