package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Faultbox/maple-msb/pkg/msb"
)

func newInfoCommand(a *app) *cobra.Command {
	var limit int
	var opcode int

	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Print the metadata and packets of one capture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			reader, err := msb.Open(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Version: %s (%#04x)\n", msb.VersionString(reader.Version()), reader.Version())
			fmt.Fprintln(out, reader.Metadata())

			packets, err := reader.Packets()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Packets: %d\n", len(packets))

			shown := 0
			for _, p := range packets {
				if opcode >= 0 && int(p.Opcode) != opcode {
					continue
				}
				if limit > 0 && shown == limit {
					break
				}
				fmt.Fprintln(out, p)
				shown++
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "print at most this many packets (0 prints all)")
	cmd.Flags().IntVar(&opcode, "opcode", -1, "only print packets with this opcode")
	return cmd
}
