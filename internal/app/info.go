package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <id>",
		Short: "Show details for a single asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := openLibrary()
			if err != nil {
				return err
			}
			defer lib.Unload()

			a, found := lib.Asset(args[0])
			if !found {
				return fmt.Errorf("asset %q not found", args[0])
			}

			header("%s", a.Name)
			printField("id", a.ID)
			printField("type", string(a.Type))
			printField("group", a.Group)
			printField("tags", strings.Join(a.Tags, ", "))
			printField("description", a.Description)
			printField("path", a.RelativePath)
			printField("thumbnail", a.ThumbnailPath)
			printField("size", humanBytes(a.SizeBytes))
			printField("checksum", a.Checksum)
			printField("added", a.DateAdded.Local().Format("2006-01-02 15:04"))
			return nil
		},
	}
	return cmd
}
