package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newStatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stat",
		Short: "Show library summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := openLibrary()
			if err != nil {
				return err
			}
			defer lib.Unload()

			info := lib.Info()

			var sizeOnDisk string
			if fi, err := os.Stat(info.Path); err == nil {
				sizeOnDisk = humanBytes(fi.Size())
			}

			header("%s", info.Name)
			printField("path", info.Path)
			printField("version", info.Version)
			printField("assets", fmt.Sprintf("%d", info.AssetCount))
			printField("created", info.Created.Local().Format("2006-01-02 15:04"))
			printField("modified", info.Modified.Local().Format("2006-01-02 15:04"))
			printField("strategy", string(info.Strategy))
			printField("size", sizeOnDisk)
			return nil
		},
	}
}
