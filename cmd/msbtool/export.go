package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Faultbox/maple-msb/internal/config"
	"github.com/Faultbox/maple-msb/internal/export"
	"github.com/Faultbox/maple-msb/pkg/msb"
)

func newExportCommand(a *app) *cobra.Command {
	var encrypt bool

	cmd := &cobra.Command{
		Use:   "export <file> <out.pcap>",
		Short: "Write a capture as a pcap file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reader, err := msb.Open(args[0])
			if err != nil {
				return err
			}

			f, err := os.Create(args[1])
			if err != nil {
				return err
			}

			stats, err := export.WritePCAP(f, reader, export.Options{
				LocalAddr:  a.cfg.Export.LocalAddr,
				RemoteAddr: a.cfg.Export.RemoteAddr,
				Encrypt:    encrypt,
				Version:    a.cfg.Cipher.Version,
				IV:         a.cfg.Cipher.IV,
				BlockIV:    a.cfg.Cipher.BlockIV,
			})
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d packets to %s (%d skipped)\n", stats.Written, args[1], stats.Skipped)
			return nil
		},
	}
	cmd.Flags().BoolVar(&encrypt, "encrypt", false, "re-encrypt payloads into cipher frames")
	cmd.Flags().Uint32(config.FlagVersion, 0, "cipher version (default from config)")
	cmd.Flags().Uint32(config.FlagIV, 0, "initial IV, decimal or 0x hex")
	cmd.Flags().Uint32(config.FlagBlockIV, 0, "block IV selecting the transform sequence")
	return cmd
}
