package udevctl

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/udevgo/udevgo/internal/config"
	"github.com/udevgo/udevgo/internal/systemd"
	"github.com/udevgo/udevgo/udev/queue"
)

func newQueueCmd(opts *config.Options) *cobra.Command {
	var noSystemd bool

	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Report whether the device manager daemon is active and has work queued",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := buildContext(opts, "queue")

			empty, err := queue.IsEmpty(ctx)
			if err != nil {
				return fmt.Errorf("checking queue: %w", err)
			}

			var checker queue.SystemdChecker
			if !noSystemd {
				mgr, mgrErr := systemd.NewManager(cmd.Context())
				if mgrErr == nil {
					defer mgr.Close()
					checker = mgr
				}
			}

			active, err := queue.IsActive(cmd.Context(), ctx, checker)
			if err != nil {
				return fmt.Errorf("checking daemon liveness: %w", err)
			}

			fmt.Printf("daemon active: %v\n", active)
			fmt.Printf("queue empty:   %v\n", empty)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noSystemd, "no-systemd", false, "skip the optional systemd ActiveState check")
	return cmd
}
