package app

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/driftline/cratectl/internal/manifest"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type listedAsset struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Group     string   `json:"group,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	SizeBytes int64    `json:"size_bytes"`
}

func newListCmd() *cobra.Command {
	var (
		typeName string
		tag      string
		group    string
		search   string
		jsonOut  bool
	)

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List assets in the library",
		Long: `List the assets in the library, optionally narrowed by type,
tag, group, or a case-insensitive name search.

Examples:
  cratectl ls
  cratectl ls --type texture --tag terrain
  cratectl ls --search grass --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := openLibrary()
			if err != nil {
				return err
			}
			defer lib.Unload()

			f := manifest.Filter{Search: search, Type: typeName, Tag: tag, Group: group}
			assets := lib.FilterBy(f)

			if jsonOut {
				out := make([]listedAsset, 0, len(assets))
				for _, a := range assets {
					out = append(out, listedAsset{
						ID:        a.ID,
						Name:      a.Name,
						Type:      string(a.Type),
						Group:     a.Group,
						Tags:      a.Tags,
						SizeBytes: a.SizeBytes,
					})
				}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			if len(assets) == 0 {
				fmt.Println("No assets found.")
				return nil
			}

			head := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
			fmt.Println(head.Render(fmt.Sprintf("  %-36s  %-24s  %-9s  %s", "ID", "NAME", "TYPE", "SIZE")))
			for _, a := range assets {
				tagStr := ""
				if len(a.Tags) > 0 {
					tagStr = " " + color.CyanString("["+strings.Join(a.Tags, ",")+"]")
				}
				fmt.Printf("  %-36s  %-24s  %-9s  %s%s\n",
					color.WhiteString(a.ID),
					a.Name,
					a.Type,
					humanBytes(a.SizeBytes),
					tagStr,
				)
			}
			fmt.Printf("\n%d asset(s)\n", len(assets))
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", "", "Filter by asset type")
	cmd.Flags().StringVar(&tag, "tag", "", "Filter by tag")
	cmd.Flags().StringVarP(&group, "group", "g", "", "Filter by group")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Search asset names")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}
