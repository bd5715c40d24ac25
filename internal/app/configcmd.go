package app

import (
	"fmt"
	"os"

	"github.com/driftline/cratectl/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or bootstrap the configuration",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the current (or default) configuration to disk",
		Long: `Write the resolved configuration to ` + "`~/.config/cratectl/config.yml`" + `
so it can be edited by hand. Refuses to overwrite an existing file
unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultPath()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.Save(cfg); err != nil {
				return err
			}
			ok("wrote %s", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			header("defaults")
			printField("library", cfg.Defaults.Library)
			printField("data_dir", cfg.Defaults.DataDir)
			header("archive")
			printField("full", cfg.Archive.FullCompression)
			printField("incremental", cfg.Archive.IncrementalCompression)
			return nil
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}
