package app

import (
	"fmt"

	"github.com/driftline/cratectl/internal/archive"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newRemoveCmd() *cobra.Command {
	var skipConfirm bool

	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Remove an asset from the library",
		Long: `Remove an asset, its payload, and its thumbnail from the library.

The archive is compacted: surviving entries are copied into a fresh
file which atomically replaces the original, so space is reclaimed
immediately.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			path, err := libraryPath()
			if err != nil {
				return err
			}
			m, err := archive.LoadManifest(path, logSink)
			if err != nil {
				return err
			}

			victim := m.ByID(id)
			if victim == nil {
				return fmt.Errorf("asset %q not found", id)
			}

			if !skipConfirm {
				fmt.Println(color.YellowString("⚠ About to remove an asset"))
				printField("id", victim.ID)
				printField("name", victim.Name)
				printField("type", string(victim.Type))
				fmt.Print("Type the asset ID to confirm removal: ")
				var confirmation string
				_, _ = fmt.Scanln(&confirmation)
				if confirmation != id {
					return fmt.Errorf("confirmation did not match - aborted")
				}
			}

			found, err := archive.DeleteAsset(path, m, id, pol)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("asset %q not found", id)
			}
			recentSvc.RegisterUsage(path)
			ok("removed %q", victim.Name)
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipConfirm, "yes", false, "Skip confirmation prompt")
	return cmd
}
