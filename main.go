package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "clipdock",
		Short:        "Clipboard history and bookmarks in the system tray",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Tray app mode
			return runTrayApp()
		},
	}

	root.AddCommand(
		newHistoryCmd(),
		newBookmarkCmd(),
		newCopyCmd(),
		newClearCmd(),
		newSettingsCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
