package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Faultbox/maple-msb/internal/catalog"
)

func newDuplicateCommand(a *app) *cobra.Command {
	var deleteDuplicates bool

	cmd := &cobra.Command{
		Use:   "duplicate-finder <folder-path>",
		Short: "Find and optionally delete duplicate files in the given folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			files, err := a.scan(args[0])
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintln(out, "No MSB files found")
				return nil
			}

			groups, failed, err := catalog.FindDuplicates(cmd.Context(), files)
			if err != nil {
				return err
			}
			reportFailures(out, failed)

			if len(groups) == 0 {
				fmt.Fprintln(out, "No duplicates found")
				return nil
			}
			for _, group := range groups {
				fmt.Fprintln(out, strings.Join(group, "  "))
			}
			fmt.Fprintf(out, "Found %d duplicates\n", len(groups))

			if !deleteDuplicates {
				return nil
			}
			removed, err := catalog.RemoveDuplicates(groups)
			for _, path := range removed {
				fmt.Fprintf(out, "Deleted %s\n", path)
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&deleteDuplicates, "delete", false, "delete all but the first file of each group")
	return cmd
}
