package app

import (
	"fmt"
	"os"

	"github.com/driftline/cratectl/internal/archive"
	"github.com/driftline/cratectl/internal/config"
	"github.com/driftline/cratectl/internal/logging"
	"github.com/driftline/cratectl/internal/recent"
	"github.com/driftline/cratectl/internal/util"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	cfg       *config.Config
	pol       archive.Policy
	recentSvc *recent.Service
	logSink   logging.Logger

	flagNoColor bool
	flagConfig  string
	flagLibrary string
)

var rootCmd = &cobra.Command{
	Use:   "cratectl",
	Short: "Manage portable .crate asset libraries",
	Long: `cratectl manages portable asset libraries stored as single .crate files.

A crate bundles a manifest.json catalogue together with every asset
payload and thumbnail, so a whole library travels as one file. Assets
are read either lazily out of the open archive or from a full
extraction, whichever the archive admits.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/cratectl/config.yml)")
	rootCmd.PersistentFlags().StringVarP(&flagLibrary, "library", "l", "", "Library file to operate on (default: defaults.library from config)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		util.InitColor(flagNoColor)
		logSink = logging.New(os.Stderr)

		if flagConfig != "" {
			if err := os.Setenv("CRATECTL_CONFIG", flagConfig); err != nil {
				return err
			}
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		pol, err = cfg.Policy()
		if err != nil {
			return fmt.Errorf("invalid compression config: %w", err)
		}

		store, err := recent.OpenStore(cfg.PrefsPath())
		if err != nil {
			return fmt.Errorf("opening preferences: %w", err)
		}
		recentSvc = recent.NewService(store, logSink)
		return nil
	}

	rootCmd.AddCommand(
		newCreateCmd(),
		newAddCmd(),
		newListCmd(),
		newInfoCmd(),
		newEditCmd(),
		newRemoveCmd(),
		newGetCmd(),
		newTagsCmd(),
		newTypesCmd(),
		newGroupsCmd(),
		newStatCmd(),
		newRecentCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
}

// ok prints a green success line.
func ok(format string, a ...interface{}) {
	fmt.Println(color.GreenString("✓"), fmt.Sprintf(format, a...))
}

// warn prints a yellow warning line.
func warn(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, color.YellowString("!"), fmt.Sprintf(format, a...))
}

// header prints a cyan section heading.
func header(format string, a ...interface{}) {
	fmt.Println(color.CyanString(fmt.Sprintf(format, a...)))
}
