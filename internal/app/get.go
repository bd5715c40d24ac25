package app

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/driftline/cratectl/internal/util"
	"github.com/spf13/cobra"
)

func newGetCmd() *cobra.Command {
	var (
		toPath    string
		thumbnail bool
		verify    bool
	)

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Copy an asset's payload out of the library",
		Long: `Copy an asset's payload (or its thumbnail with --thumbnail) out of
the archive into a local file. The destination defaults to the
payload's own file name in the current directory.

With --verify the extracted bytes are checked against the checksum
recorded in the manifest.`,
		Args: cobra.ExactArgs(1),
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

			var data []byte
			src := a.RelativePath
			if thumbnail {
				data = lib.AssetThumbnail(a)
				if data == nil {
					return fmt.Errorf("asset %q has no thumbnail", a.ID)
				}
				if a.ThumbnailPath != "" {
					src = a.ThumbnailPath
				}
			} else {
				data, err = lib.AssetFile(a)
				if err != nil {
					return err
				}
			}

			if verify {
				if thumbnail {
					warn("thumbnails carry no recorded checksum, skipping verification")
				} else if a.Checksum != "" {
					if sum := util.SHA256Bytes(data); sum != a.Checksum {
						return fmt.Errorf("checksum mismatch: manifest %s, payload %s", a.Checksum, sum)
					}
				}
			}

			dest := toPath
			if dest == "" {
				dest = path.Base(src)
			}
			if err := util.EnsureDir(filepath.Dir(dest)); err != nil {
				return err
			}
			if err := os.WriteFile(dest, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", dest, err)
			}

			ok("wrote %s (%s)", dest, humanBytes(int64(len(data))))
			return nil
		},
	}

	cmd.Flags().StringVar(&toPath, "to", "", "Destination file (default: payload file name)")
	cmd.Flags().BoolVar(&thumbnail, "thumbnail", false, "Copy the thumbnail instead of the payload")
	cmd.Flags().BoolVar(&verify, "verify", false, "Verify the payload against its recorded checksum")
	return cmd
}
