package udevctl

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/udevgo/udevgo/internal/config"
	"github.com/udevgo/udevgo/udev/enumerate"
)

func newEnumerateCmd(opts *config.Options) *cobra.Command {
	var subsystems []string
	var tags []string
	var sysnames []string
	var subsystemsOnly bool

	cmd := &cobra.Command{
		Use:   "enumerate",
		Short: "List sysfs devices or subsystems matching a set of filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := buildContext(opts, "enumerate")
			e := enumerate.New(ctx)
			for _, s := range subsystems {
				e.AddMatchSubsystem(s)
			}
			for _, t := range tags {
				e.AddMatchTag(t)
			}
			for _, s := range sysnames {
				e.AddMatchSysname(s)
			}

			var err error
			if subsystemsOnly {
				err = e.ScanSubsystems()
			} else {
				err = e.ScanDevices()
			}
			if err != nil {
				return fmt.Errorf("scanning: %w", err)
			}

			for _, syspath := range e.Syspaths() {
				fmt.Println(syspath)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&subsystems, "subsystem", nil, "match this subsystem (repeatable)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "match devices carrying this tag (repeatable)")
	cmd.Flags().StringSliceVar(&sysnames, "sysname", nil, "match this sysname glob (repeatable)")
	cmd.Flags().BoolVar(&subsystemsOnly, "subsystems", false, "list subsystems/drivers instead of devices")
	return cmd
}
