package udev

import (
	"log/slog"
	"time"

	"github.com/udevgo/udevgo/internal/control"
)

// RulesFile records a rules-file path and the mtime it was last read
// at, so a daemon-side caller can detect staleness without this
// library re-reading the file itself (rule parsing is out of scope).
type RulesFile struct {
	Path  string
	Mtime time.Time
}

// Context is the process-wide configuration container shared by
// reference from every Monitor, Enumerator, and Device. It is
// constructed once at startup and treated as immutable after that —
// its fields remain exported and settable so tests can build one
// in-process without a config file.
type Context struct {
	SysfsRoot   string
	DevNodeRoot string
	RunRoot     string
	RulesFiles  []RulesFile
	LogLevel    slog.Level

	// Logger receives diagnostic output from lazy sysfs read-throughs
	// and directory-walk skips. Defaults to slog.Default() when nil.
	Logger *slog.Logger
}

// NewContext returns a Context with the canonical Linux paths and
// slog.LevelInfo.
func NewContext() *Context {
	return &Context{
		SysfsRoot:   control.DefaultSysfsRoot,
		DevNodeRoot: control.DefaultDevNodeRoot,
		RunRoot:     control.DefaultRunRoot,
		LogLevel:    slog.LevelInfo,
	}
}

func (c *Context) logger() *slog.Logger {
	if c == nil || c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// SysPath joins the context's sysfs root with a devpath.
func (c *Context) SysPath(devpath string) string {
	return control.SysPath(c.SysfsRoot, devpath)
}

// DevPath strips the context's sysfs root prefix from an absolute
// syspath.
func (c *Context) DevPath(syspath string) string {
	return control.DevPath(c.SysfsRoot, syspath)
}
