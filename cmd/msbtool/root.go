package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Faultbox/maple-msb/internal/catalog"
	"github.com/Faultbox/maple-msb/internal/config"
	"github.com/Faultbox/maple-msb/internal/logger"
)

// app carries the configuration resolved before every command.
type app struct {
	cfg *config.Config
}

// NewRootCommand builds the msbtool command tree writing results to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	a := &app{cfg: config.Default()}

	cmd := &cobra.Command{
		Use:           "msbtool",
		Short:         "Tools for MSB packet captures",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			a.cfg = cfg
			return logger.Init(cfg.Logging.Level, cfg.Logging.LogFile)
		},
	}
	cmd.SetOut(out)
	config.BindFlags(cmd.PersistentFlags())

	cmd.AddCommand(newMetadataCommand(a))
	cmd.AddCommand(newDuplicateCommand(a))
	cmd.AddCommand(newVersionCommand(a))
	cmd.AddCommand(newInfoCommand(a))
	cmd.AddCommand(newExportCommand(a))
	return cmd
}

// scan lists the capture files under dir.
func (a *app) scan(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid folder path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("invalid folder path: %s is not a directory", dir)
	}
	return catalog.Scan(dir, catalog.ScanOptions{
		Extensions: a.cfg.Scan.Extensions,
		SkipHidden: a.cfg.Scan.SkipHidden,
	})
}

func reportFailures(out io.Writer, failed []catalog.FileError) {
	for _, f := range failed {
		fmt.Fprintf(out, "skipped %s\n", f.Error())
	}
}
