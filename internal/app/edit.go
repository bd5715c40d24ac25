package app

import (
	"fmt"

	"github.com/driftline/cratectl/internal/archive"
	"github.com/driftline/cratectl/internal/manifest"
	"github.com/spf13/cobra"
)

func newEditCmd() *cobra.Command {
	var (
		name     string
		typeName string
		group    string
		tagsCSV  string
		desc     string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an asset's metadata",
		Long: `Edit the metadata of an existing asset. Only the flags you pass
are changed; the payload and its in-archive path never move.

Pass an empty value to clear a field, e.g. --group "".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			var fields archive.UpdateFields
			if cmd.Flags().Changed("name") {
				fields.Name = &name
			}
			if cmd.Flags().Changed("type") {
				typ := manifest.ParseType(typeName)
				fields.Type = &typ
			}
			if cmd.Flags().Changed("group") {
				fields.Group = &group
			}
			if cmd.Flags().Changed("tags") {
				tags := parseTags(tagsCSV)
				fields.Tags = &tags
			}
			if cmd.Flags().Changed("desc") {
				fields.Description = &desc
			}
			if fields == (archive.UpdateFields{}) {
				return fmt.Errorf("nothing to change: pass at least one of --name, --type, --group, --tags, --desc")
			}

			path, err := libraryPath()
			if err != nil {
				return err
			}
			m, err := archive.LoadManifest(path, logSink)
			if err != nil {
				return err
			}

			found, err := archive.UpdateAsset(path, m, id, fields, pol)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("asset %q not found", id)
			}
			recentSvc.RegisterUsage(path)
			ok("updated %s", id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "New display name")
	cmd.Flags().StringVarP(&typeName, "type", "t", "", "New asset type")
	cmd.Flags().StringVarP(&group, "group", "g", "", "New group")
	cmd.Flags().StringVar(&tagsCSV, "tags", "", "Replacement tag list, comma separated")
	cmd.Flags().StringVarP(&desc, "desc", "d", "", "New description")
	return cmd
}
