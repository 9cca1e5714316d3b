package udevctl

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/udevgo/udevgo/internal/config"
	"github.com/udevgo/udevgo/internal/logging"
	"github.com/udevgo/udevgo/udev/monitor"
)

func newMonitorCmd(opts *config.Options) *cobra.Command {
	var subsystem string
	var tag string
	var kernel bool
	var watchConfig bool

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Print device events as they arrive on the udev or kernel netlink group",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := buildContext(opts, "monitor")

			group := monitor.GroupUdev
			if kernel {
				group = monitor.GroupKernel
			}
			m := monitor.New(ctx, group)
			if subsystem != "" {
				m.AddSubsystemFilter(subsystem)
			}
			if tag != "" {
				m.AddTagFilter(tag)
			}
			if err := m.Bind(); err != nil {
				return fmt.Errorf("binding monitor socket: %w", err)
			}
			defer m.Close()

			if watchConfig && opts.Config != "" {
				w := config.NewConfigWatcher(opts.Config, reloadOptions, logging.GetLogger("monitor"))
				w.OnReload(func(reloaded *config.Options) {
					logging.Initialize(reloaded.LoggingConfig())
				})
				if err := w.Start(); err != nil {
					return fmt.Errorf("starting config watcher: %w", err)
				}
				defer w.Stop()
			}

			fmt.Println("listening for device events, ctrl-c to stop")
			for {
				d, err := m.Receive()
				if err != nil {
					return fmt.Errorf("receiving device event: %w", err)
				}
				printDevice(d)
			}
		},
	}

	cmd.Flags().StringVar(&subsystem, "subsystem", "", "only report devices in this subsystem")
	cmd.Flags().StringVar(&tag, "tag", "", "only report devices carrying this tag")
	cmd.Flags().BoolVar(&kernel, "kernel", false, "listen on the kernel netlink group instead of udev")
	cmd.Flags().BoolVar(&watchConfig, "watch-config", false, "reload logging levels when the config file changes")
	return cmd
}

// reloadOptions re-reads path as a config.Options, used by the
// monitor command's optional config.Watcher to pick up logging-level
// changes without a restart. It applies only file and env values, not
// CLI flags, since a watcher fires long after flag parsing happened.
func reloadOptions(path string) (*config.Options, error) {
	o := &config.Options{Config: path}
	if err := config.LoadConfig(o, nil); err != nil {
		return nil, err
	}
	return o, nil
}
