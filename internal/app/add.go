package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/driftline/cratectl/internal/archive"
	"github.com/driftline/cratectl/internal/manifest"
	"github.com/spf13/cobra"
)

func newAddCmd() *cobra.Command {
	var (
		name      string
		typeName  string
		group     string
		tagsCSV   string
		desc      string
		thumbPath string
	)

	cmd := &cobra.Command{
		Use:   "add <file>",
		Short: "Add an asset to the library",
		Long: `Add a file to the library as a new asset.

The asset type is derived from the file extension unless --type is
given, and the display name defaults to the file name without its
extension. Existing archive entries are carried over untouched; only
the new payload is compressed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := args[0]
			payload, err := os.ReadFile(src)
			if err != nil {
				return fmt.Errorf("reading asset file: %w", err)
			}

			var typ manifest.AssetType
			if typeName != "" {
				typ = manifest.ParseType(typeName)
			}

			opts := archive.AddOptions{
				SourceName:  filepath.Base(src),
				Name:        name,
				Type:        typ,
				Group:       group,
				Tags:        parseTags(tagsCSV),
				Description: desc,
			}
			if thumbPath != "" {
				thumb, err := os.ReadFile(thumbPath)
				if err != nil {
					return fmt.Errorf("reading thumbnail: %w", err)
				}
				opts.Thumbnail = thumb
				opts.ThumbnailName = filepath.Base(thumbPath)
			}

			path, err := libraryPath()
			if err != nil {
				return err
			}
			m, err := archive.LoadManifest(path, logSink)
			if err != nil {
				return err
			}

			asset, err := archive.AddAsset(path, m, payload, opts, pol)
			if err != nil {
				return err
			}
			recentSvc.RegisterUsage(path)

			ok("added %q (%s)", asset.Name, asset.Type)
			printField("id", asset.ID)
			printField("path", asset.RelativePath)
			printField("size", humanBytes(asset.SizeBytes))
			if asset.ThumbnailPath != "" {
				printField("thumbnail", asset.ThumbnailPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name (default: file name without extension)")
	cmd.Flags().StringVarP(&typeName, "type", "t", "", "Asset type (default: derived from extension)")
	cmd.Flags().StringVarP(&group, "group", "g", "", "Group the asset belongs to")
	cmd.Flags().StringVar(&tagsCSV, "tags", "", "Comma separated tags")
	cmd.Flags().StringVarP(&desc, "desc", "d", "", "Free-form description")
	cmd.Flags().StringVar(&thumbPath, "thumbnail", "", "Preview image file to embed")
	return cmd
}
