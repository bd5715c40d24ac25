package app

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newRecentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently used libraries",
		Long: `List the most recently used libraries, newest first. Entries whose
archives no longer exist are dropped from the list automatically.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := recentSvc.Recent()
			if len(entries) == 0 {
				fmt.Println("No recent libraries.")
				return nil
			}

			head := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
			fmt.Println(head.Render(fmt.Sprintf("  %-24s  %-7s  %-16s  %s", "NAME", "ASSETS", "LAST USED", "PATH")))
			for _, e := range entries {
				fmt.Printf("  %-24s  %-7d  %-16s  %s\n",
					e.LibraryName,
					e.AssetCount,
					e.LastAccessed.Local().Format("2006-01-02 15:04"),
					color.HiBlackString(e.Path),
				)
			}
			return nil
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "remove <path>",
			Short: "Remove one entry from the recent list",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				recentSvc.Remove(args[0])
				ok("removed %s from recent libraries", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Clear the recent list",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				recentSvc.ClearAll()
				ok("cleared recent libraries")
				return nil
			},
		},
	)
	return cmd
}
