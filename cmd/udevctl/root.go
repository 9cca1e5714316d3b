// Package udevctl provides the udevctl command's cobra subcommands:
// thin wrappers around the udev/monitor, udev/enumerate, and udev/hwdb
// packages with no independent logic of their own — flags in, a
// library call, a formatted print out.
package udevctl

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/udevgo/udevgo/internal/config"
	"github.com/udevgo/udevgo/internal/logging"
	"github.com/udevgo/udevgo/udev"
)

// NewRootCmd builds the udevctl root command with all subcommands
// attached, sharing one set of persistent flags resolved through
// internal/config's CLI/env/TOML precedence.
func NewRootCmd() *cobra.Command {
	opts := &config.Options{}

	root := &cobra.Command{
		Use:   "udevctl",
		Short: "Inspect sysfs devices, uevents, and the hardware database",
	}

	root.PersistentFlags().StringVarP(&opts.Config, "config", "c", "udevgo.toml", "path to configuration file")
	root.PersistentFlags().StringVar(&opts.SysfsRoot, "sysfs-root", "", "root of the sysfs mount (default /sys)")
	root.PersistentFlags().StringVar(&opts.DevNodeRoot, "devnode-root", "", "root of the device-node tree (default /dev)")
	root.PersistentFlags().StringVar(&opts.RunRoot, "run-root", "", "root of the udev run directory (default /run)")
	root.PersistentFlags().StringVar(&opts.HwdbBinPath, "hwdb-path", "", "path to a specific hwdb.bin, overriding the search order")
	root.PersistentFlags().StringVar(&opts.LoggingLevel, "log-level", "info", "global logging level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.LoggingFormat, "log-format", "text", "logging format (text, json)")

	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if err := config.LoadConfig(opts, cmd); err != nil {
			slog.Warn("failed to load configuration file", "error", err)
		}
		logging.Initialize(opts.LoggingConfig())
	}

	root.AddCommand(newMonitorCmd(opts), newEnumerateCmd(opts), newHwdbQueryCmd(opts), newQueueCmd(opts))
	return root
}

func buildContext(opts *config.Options, module string) *udev.Context {
	return opts.ToContext(logging.GetLogger(module))
}

func printDevice(d *udev.Device) {
	fmt.Printf("%-9s %-12s %s\n", d.Action, d.GetSubsystem(), d.Syspath)
}
