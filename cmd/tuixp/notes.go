package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Gaurav-Gosain/tuixp/internal/config"
	"github.com/Gaurav-Gosain/tuixp/internal/storage"
	"github.com/spf13/cobra"
)

func newNoteCmd() *cobra.Command {
	noteCmd := &cobra.Command{
		Use:   "note",
		Short: "Read or clear the notepad's saved text",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the saved note",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withNotes(cmd.Context(), func(ctx context.Context, n *storage.Notes) error {
				return showNote(ctx, cmd.OutOrStdout(), n)
			})
		},
	}

	var yes bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the saved note",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Delete the saved note?") {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing deleted.")
				return nil
			}
			return withNotes(cmd.Context(), func(ctx context.Context, n *storage.Notes) error {
				if err := n.Clear(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Note deleted.")
				return nil
			})
		},
	}
	clearCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	noteCmd.AddCommand(showCmd, clearCmd)
	return noteCmd
}

// withNotes opens the configured note store for the duration of fn.
func withNotes(ctx context.Context, fn func(context.Context, *storage.Notes) error) error {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		cfg = config.DefaultConfig()
		config.ApplyOverrides(cfg, overrides)
	}
	path, err := cfg.NotesPath()
	if err != nil {
		return err
	}
	n, err := storage.Open(ctx, path)
	if err != nil {
		return err
	}
	defer n.Close()
	return fn(ctx, n)
}

func showNote(ctx context.Context, w io.Writer, n *storage.Notes) error {
	text, err := n.Load(ctx)
	if err != nil {
		return err
	}
	if text == "" {
		fmt.Fprintln(w, "(no saved note)")
		return nil
	}
	if at, ok, err := n.UpdatedAt(ctx, storage.DefaultKey); err == nil && ok {
		fmt.Fprintf(w, "# saved %s\n", at.Local().Format(time.DateTime))
	}
	fmt.Fprintln(w, text)
	return nil
}
