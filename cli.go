package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"clipdock/bookmark"
	"clipdock/bridge"
	"clipdock/history"
	"clipdock/traymenu"
)

// listWidth is the preview width used by the list commands.
const listWidth = 60

// bridgeClient is what the CLI commands need from the running tray.
type bridgeClient interface {
	ListHistory() ([]history.Entry, error)
	ListBookmarks() ([]bookmark.Bookmark, error)
	AddBookmark(content string) (bookmark.Bookmark, error)
	RemoveBookmark(id string) error
	Copy(content string) error
	ClearHistory() error
	ShowSettings() error
}

// newClient is swapped in tests.
var newClient = func() bridgeClient { return bridge.NewClient(settingsDir()) }

// oneLine flattens whitespace so previews stay on a single table row.
func oneLine(s string) string {
	return traymenu.Truncate(strings.Join(strings.Fields(s), " "), listWidth)
}

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List the clipboard history of the running tray",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := newClient().ListHistory()
			if err != nil {
				return err
			}
			printHistory(cmd.OutOrStdout(), entries)
			return nil
		},
	}
}

func printHistory(out io.Writer, entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "No clipboard history.")
		return
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tCOPIED\tTEXT")
	for i, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%s\n", i, humanize.Time(e.CopiedAt), oneLine(e.Text))
	}
	w.Flush()
}

func newBookmarkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bookmark",
		Aliases: []string{"bm"},
		Short:   "Manage bookmarked clipboard entries",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List bookmarks",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				bms, err := newClient().ListBookmarks()
				if err != nil {
					return err
				}
				printBookmarks(cmd.OutOrStdout(), bms)
				return nil
			},
		},
		&cobra.Command{
			Use:   "add <text>",
			Short: "Bookmark text (use - to read stdin)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				content, err := argOrStdin(cmd, args[0])
				if err != nil {
					return err
				}
				b, err := newClient().AddBookmark(content)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Bookmarked %s\n", b.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:     "rm <id>",
			Aliases: []string{"remove"},
			Short:   "Remove a bookmark",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := newClient().RemoveBookmark(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
				return nil
			},
		},
	)
	return cmd
}

func printBookmarks(out io.Writer, bms []bookmark.Bookmark) {
	if len(bms) == 0 {
		fmt.Fprintln(out, "No bookmarks.")
		return
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tADDED\tTEXT")
	for _, b := range bms {
		fmt.Fprintf(w, "%s\t%s\t%s\n", b.ID, humanize.Time(b.CreatedAt), oneLine(b.Content))
	}
	w.Flush()
}

func newCopyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "copy <text>",
		Short: "Put text on the clipboard through the tray (use - to read stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := argOrStdin(cmd, args[0])
			if err != nil {
				return err
			}
			return newClient().Copy(content)
		},
	}
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the clipboard history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return newClient().ClearHistory()
		},
	}
}

func newSettingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Open the settings window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return newClient().ShowSettings()
		},
	}
}

func argOrStdin(cmd *cobra.Command, arg string) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}
