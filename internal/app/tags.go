package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newTagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List the distinct tags in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := openLibrary()
			if err != nil {
				return err
			}
			defer lib.Unload()

			counts := map[string]int{}
			for _, a := range lib.Assets() {
				for _, t := range a.Tags {
					counts[strings.ToLower(t)]++
				}
			}
			printCounted(lib.Tags(), counts, "No tags in use.")
			return nil
		},
	}
}

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the distinct asset types in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := openLibrary()
			if err != nil {
				return err
			}
			defer lib.Unload()

			counts := map[string]int{}
			for _, a := range lib.Assets() {
				counts[string(a.Type)]++
			}
			printCounted(lib.Types(), counts, "No assets in library.")
			return nil
		},
	}
}

func newGroupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "groups",
		Short: "List the distinct groups in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := openLibrary()
			if err != nil {
				return err
			}
			defer lib.Unload()

			counts := map[string]int{}
			for _, a := range lib.Assets() {
				if a.Group != "" {
					counts[a.Group]++
				}
			}
			printCounted(lib.Groups(), counts, "No groups in use.")
			return nil
		},
	}
}

// printCounted prints each name with its asset count. names is already
// sorted by the facade.
func printCounted(names []string, counts map[string]int, empty string) {
	if len(names) == 0 {
		fmt.Println(empty)
		return
	}
	for _, n := range names {
		fmt.Printf("  %-24s %d\n", n, counts[n])
	}
}
