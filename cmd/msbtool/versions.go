package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Faultbox/maple-msb/internal/catalog"
)

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version-finder <folder-path> <version>",
		Short: "Find files matching the given version, negate it with !",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			query, err := catalog.ParseVersionQuery(args[1])
			if err != nil {
				return err
			}

			files, err := a.scan(args[0])
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintln(out, "No MSB files found")
				return nil
			}

			matches, failed, err := catalog.FindVersions(cmd.Context(), files, query)
			if err != nil {
				return err
			}
			reportFailures(out, failed)

			if len(matches) == 0 {
				fmt.Fprintln(out, "No files found")
				return nil
			}
			for _, m := range matches {
				fmt.Fprintf(out, "%s\t%d\n", m.Path, m.Build)
			}
			fmt.Fprintf(out, "Found %d files\n", len(matches))
			return nil
		},
	}
}
