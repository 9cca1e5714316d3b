package config

import (
	"log/slog"
	"os"

	"github.com/udevgo/udevgo/internal/control"
	"github.com/udevgo/udevgo/internal/logging"
	"github.com/udevgo/udevgo/udev"
)

// Options is the flat, TOML/env/flag-tagged structure LoadConfig fills
// in: one struct, one precedence pass, fields grouped by the section
// they belong to.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"udevgo.toml"`

	SysfsRoot   string `help:"Root of the sysfs mount" default:"/sys" toml:"paths.sysfs_root" env:"SYSFS_ROOT"`
	DevNodeRoot string `help:"Root of the device-node tree" default:"/dev" toml:"paths.devnode_root" env:"DEVNODE_ROOT"`
	RunRoot     string `help:"Root of the udev run directory" default:"/run" toml:"paths.run_root" env:"RUN_ROOT"`

	HwdbBinPath string   `help:"Path to a specific hwdb.bin, overriding the search order" toml:"hwdb.bin_path" env:"HWDB_BIN_PATH"`
	RulesPaths  []string `help:"Rules files to track mtimes for" toml:"rules.paths" env:"RULES_PATHS"`

	LoggingLevel     string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat    string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingEnumerate string `help:"enumerate package logging level" default:"info" toml:"logging.enumerate" env:"LOGGING_ENUMERATE"`
	LoggingMonitor   string `help:"monitor package logging level" default:"info" toml:"logging.monitor" env:"LOGGING_MONITOR"`
	LoggingHwdb      string `help:"hwdb package logging level" default:"info" toml:"logging.hwdb" env:"LOGGING_HWDB"`
	LoggingQueue     string `help:"queue package logging level" default:"info" toml:"logging.queue" env:"LOGGING_QUEUE"`
}

// LoggingConfig builds the logging.Config LoadConfig's sibling
// LoadLoggingConfig would otherwise read from the TOML file directly;
// this variant is used when Options has already been populated by
// LoadConfig (CLI/env included), so the module map reflects flag and
// env overrides too, not just the file.
func (o *Options) LoggingConfig() logging.Config {
	return logging.Config{
		Level:  o.LoggingLevel,
		Format: o.LoggingFormat,
		Modules: map[string]string{
			"enumerate": o.LoggingEnumerate,
			"monitor":   o.LoggingMonitor,
			"hwdb":      o.LoggingHwdb,
			"queue":     o.LoggingQueue,
		},
	}
}

// ToContext builds a *udev.Context from the resolved options. Rules
// files are stat'd once here to capture their starting mtimes; a
// missing rules file is recorded with a zero mtime rather than failing
// the whole load, since a stale or absent rules file is a daemon-side
// concern this library only tracks, never enforces.
func (o *Options) ToContext(logger *slog.Logger) *udev.Context {
	ctx := &udev.Context{
		SysfsRoot:   orDefault(o.SysfsRoot, control.DefaultSysfsRoot),
		DevNodeRoot: orDefault(o.DevNodeRoot, control.DefaultDevNodeRoot),
		RunRoot:     orDefault(o.RunRoot, control.DefaultRunRoot),
		LogLevel:    parseLevel(o.LoggingLevel),
		Logger:      logger,
	}
	for _, p := range o.RulesPaths {
		rf := udev.RulesFile{Path: p}
		if info, err := os.Stat(p); err == nil {
			rf.Mtime = info.ModTime()
		}
		ctx.RulesFiles = append(ctx.RulesFiles, rf)
	}
	return ctx
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
