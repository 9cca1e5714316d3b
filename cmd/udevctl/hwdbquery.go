package udevctl

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/udevgo/udevgo/internal/config"
	"github.com/udevgo/udevgo/udev/hwdb"
)

func newHwdbQueryCmd(opts *config.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hwdb-query <modalias>",
		Short: "Query the hardware database for a modalias and print matching properties",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r *hwdb.Reader
			var err error
			if opts.HwdbBinPath != "" {
				r, err = hwdb.OpenFile(opts.HwdbBinPath)
			} else {
				r, err = hwdb.Open()
			}
			if err != nil {
				return fmt.Errorf("opening hwdb: %w", err)
			}

			props, err := r.Query(args[0])
			if err != nil {
				return fmt.Errorf("querying %q: %w", args[0], err)
			}
			for _, p := range props {
				fmt.Printf("%s=%s\n", p.Key, p.Value)
			}
			return nil
		},
	}
	return cmd
}
