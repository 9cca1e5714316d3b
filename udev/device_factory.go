package udev

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// NewFromSyspath builds a Device rooted at syspath, which must lie
// under the Context's sysfs root and name an existing directory. The
// directory's "uevent" pseudo-file, if present, is read through to
// populate the environment eagerly; its absence is not an error, since
// some sysfs directories (buses, subsystems) never carry one.
func NewFromSyspath(ctx *Context, syspath string) (*Device, error) {
	syspath = strings.TrimRight(syspath, "/")
	if !strings.HasPrefix(syspath, ctx.SysfsRoot) {
		return nil, New(KindDevice, "syspath %q is not under the sysfs root %q", syspath, ctx.SysfsRoot)
	}
	fi, err := os.Stat(syspath)
	if err != nil {
		return nil, Wrap(KindDevice, err, "stat syspath %q", syspath)
	}
	if !fi.IsDir() {
		return nil, New(KindDevice, "syspath %q is not a directory", syspath)
	}

	d := New(ctx)
	d.Syspath = syspath
	d.Devpath = ctx.DevPath(syspath)
	d.Sysname = path.Base(syspath)
	d.Sysnum = trailingDigits(d.Sysname)

	f, err := os.Open(filepath.Join(syspath, "uevent"))
	if err != nil {
		if os.IsNotExist(err) {
			return d, nil
		}
		return nil, Wrap(KindIO, err, "opening uevent file for %q", syspath)
	}
	defer f.Close()

	if err := d.loadUeventFile(f); err != nil {
		return nil, err
	}
	return d, nil
}

// NewFromDevnum resolves a block ('b') or character ('c') device
// number to its owning syspath via the kernel's "/sys/dev/<kind>/"
// symlink farm, then builds a Device from that syspath.
func NewFromDevnum(ctx *Context, typ byte, devnum Devnum) (*Device, error) {
	var kind string
	switch typ {
	case 'b':
		kind = "block"
	case 'c':
		kind = "char"
	default:
		return nil, New(KindDevice, "unrecognized devnum type %q", string(typ))
	}

	link := filepath.Join(ctx.SysfsRoot, "dev", kind, fmt.Sprintf("%d:%d", devnum.Major, devnum.Minor))
	target, err := os.Readlink(link)
	if err != nil {
		return nil, Wrap(KindDevice, err, "resolving devnum %d:%d", devnum.Major, devnum.Minor)
	}

	syspath := filepath.Clean(filepath.Join(filepath.Dir(link), target))
	return NewFromSyspath(ctx, syspath)
}

// NewFromSubsystemSysname resolves a (subsystem, sysname) pair to a
// syspath by trying each candidate location the kernel may have put
// the device under, in the order real udev implementations probe
// them, and builds a Device from the first that exists. A sysname
// containing '/' (a multi-level bus name) is looked up with '/'
// translated to '!' the way the kernel itself names such directories.
func NewFromSubsystemSysname(ctx *Context, subsystem, sysname string) (*Device, error) {
	translated := strings.ReplaceAll(sysname, "/", "!")

	var candidates []string
	switch subsystem {
	case "subsystem":
		candidates = []string{
			filepath.Join(ctx.SysfsRoot, "bus", translated),
			filepath.Join(ctx.SysfsRoot, "class", translated),
		}
	case "module":
		candidates = []string{filepath.Join(ctx.SysfsRoot, "module", translated)}
	case "drivers":
		if idx := strings.IndexByte(sysname, ':'); idx >= 0 {
			candidates = []string{filepath.Join(ctx.SysfsRoot, "bus", sysname[:idx], "drivers", sysname[idx+1:])}
		}
	case "block":
		candidates = []string{
			filepath.Join(ctx.SysfsRoot, "class", "block", translated),
			filepath.Join(ctx.SysfsRoot, "block", translated),
		}
	default:
		candidates = []string{
			filepath.Join(ctx.SysfsRoot, "bus", subsystem, "devices", translated),
			filepath.Join(ctx.SysfsRoot, "class", subsystem, translated),
		}
	}

	for _, candidate := range candidates {
		if resolved, err := filepath.EvalSymlinks(candidate); err == nil {
			return NewFromSyspath(ctx, resolved)
		}
	}
	return nil, New(KindDevice, "no device found for subsystem %q sysname %q", subsystem, sysname)
}

// NewFromEnvironment builds a Device from the current process's
// environment, the way a program invoked as a uevent-triggered helper
// (udev rule RUN+= target) receives its device description: one
// KEY=VALUE pair per environment variable.
func NewFromEnvironment(ctx *Context, environ []string) (*Device, error) {
	d := New(ctx)
	d.InfoLoaded = true
	for _, rec := range environ {
		d.applyProperty(rec, false)
	}
	d.finishParse()
	if d.Syspath == "" {
		return nil, New(KindDevice, "environment did not contain DEVPATH")
	}
	return d, nil
}

// GetParent returns the device's parent, resolved lazily by walking
// up syspath components until one names an existing device (carries a
// "subsystem" symlink). The resolved parent is cached; subsequent
// calls return the same instance.
func (d *Device) GetParent() *Device {
	if d.parentResolved {
		return d.parent
	}
	d.parentResolved = true

	dir := path.Dir(d.Syspath)
	for len(dir) > len(d.ctx.SysfsRoot) {
		if _, err := os.Lstat(filepath.Join(dir, "subsystem")); err == nil {
			if parent, err := NewFromSyspath(d.ctx, dir); err == nil {
				d.parent = parent
				return d.parent
			}
		}
		dir = path.Dir(dir)
	}
	return nil
}
