package app

import (
	"path/filepath"
	"strings"

	"github.com/driftline/cratectl/internal/archive"
	"github.com/spf13/cobra"
)

func newCreateCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create <path>",
		Short: "Create a new empty library",
		Long: `Create a new empty .crate library at the given path.

The library name defaults to the file name without its extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if name == "" {
				base := filepath.Base(path)
				name = strings.TrimSuffix(base, filepath.Ext(base))
			}
			if err := archive.Create(path, name, pol); err != nil {
				return err
			}
			recentSvc.RegisterUsage(path)
			ok("created library %q at %s", name, path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Library display name")
	return cmd
}
