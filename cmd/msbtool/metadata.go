package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/maple-msb/internal/catalog"
	"github.com/Faultbox/maple-msb/internal/config"
	"github.com/Faultbox/maple-msb/internal/logger"
)

func newMetadataCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metadata-builder <folder-path>",
		Short: "Build metadata cache for the given folder",
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

			opts := catalog.BuildOptions{
				Progress: func(done, total int) {
					fmt.Fprintf(cmd.ErrOrStderr(), "Processing %d/%d ...\r", done, total)
				},
			}
			if path := a.cfg.Cache.IndexPath; path != "" {
				index, err := catalog.OpenIndex(path)
				if err != nil {
					return err
				}
				defer index.Close()
				opts.Index = index
			}

			entries, failed, err := catalog.BuildMetadata(cmd.Context(), files, opts)
			fmt.Fprintln(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			reportFailures(out, failed)

			if opts.Index != nil {
				if n, err := opts.Index.Prune(files); err != nil {
					logger.Warn("pruning index", zap.Error(err))
				} else if n > 0 {
					logger.Info("pruned index", zap.Int("records", n))
				}
			}

			if len(entries) == 0 {
				fmt.Fprintln(out, "No metadata to cache")
				return nil
			}
			if err := catalog.WriteCache(a.cfg.Cache.Output, entries); err != nil {
				return err
			}
			fmt.Fprintf(out, "Wrote %d entries to %s\n", len(entries), a.cfg.Cache.Output)
			return nil
		},
	}
	cmd.Flags().String(config.FlagOut, "", "metadata cache file (default "+catalog.DefaultCacheFile+")")
	cmd.Flags().String(config.FlagIndex, "", "bbolt parse index reused between runs")
	return cmd
}
