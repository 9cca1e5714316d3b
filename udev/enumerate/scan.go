package enumerate

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/udevgo/udevgo/internal/control"
	"github.com/udevgo/udevgo/internal/metrics"
	"github.com/udevgo/udevgo/udev"
)

// ScanDevices populates the result list by dispatching on which
// filters are set, in priority order: a tag reverse-index fast path
// when any tag filter is configured, a parent-subtree walk when a
// parent is set, or a full sysfs walk otherwise.
func (e *Enumerator) ScanDevices() error {
	e.stale = false
	before := len(e.syspaths)

	var err error
	switch {
	case len(e.tagMatch) > 0:
		err = e.scanDevicesByTag()
	case e.parent != nil:
		err = e.walkDevices(e.parent.Syspath)
	default:
		err = e.walkDevices(filepath.Join(e.ctx.SysfsRoot, "devices"))
	}
	metrics.ObserveScan("devices", len(e.syspaths)-before)
	return err
}

// scanDevicesByTag iterates <run>/udev/tags/<tag>/ for every
// configured match tag, unions the device-id entries it finds
// (deduplicating syspaths via appendResult), lifts each to a Device
// record, and applies the full matcher set — including the tag
// matcher itself, since membership in any one tag's directory doesn't
// imply membership in every configured tag.
func (e *Enumerator) scanDevicesByTag() error {
	for _, tag := range e.tagMatch {
		dir := control.RunUdevTagDir(e.ctx.RunRoot, tag)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return udev.Wrap(udev.KindEnumerate, err, "reading tag directory %q", dir)
		}
		for _, ent := range entries {
			d, err := udev.NewFromDeviceID(e.ctx, ent.Name())
			if err != nil {
				continue
			}
			if e.matches(d) {
				e.appendResult(d.Syspath)
			}
		}
	}
	return nil
}

// walkDevices walks root looking for directories that carry a
// "uevent" file (i.e. name a device), applying the matcher set to
// each. Walking continues into subdirectories regardless of match
// outcome, since a device's children live further down the same tree.
func (e *Enumerator) walkDevices(root string) error {
	err := filepath.WalkDir(root, func(p string, de fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !de.IsDir() {
			return nil
		}
		if _, err := os.Lstat(filepath.Join(p, "uevent")); err != nil {
			return nil
		}
		d, err := udev.NewFromSyspath(e.ctx, p)
		if err != nil {
			return nil
		}
		if e.matches(d) {
			e.appendResult(d.Syspath)
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return udev.Wrap(udev.KindEnumerate, err, "walking %q", root)
	}
	return nil
}

// ScanSubsystems populates the result list with subsystem directories
// rather than devices: /sys/module, /sys/subsystem (or /sys/bus as a
// fallback), and each <subsysdir>/.../drivers directory, filtered by
// the subsystem matcher.
func (e *Enumerator) ScanSubsystems() error {
	e.stale = false
	before := len(e.syspaths)
	err := e.scanSubsystems()
	metrics.ObserveScan("subsystems", len(e.syspaths)-before)
	return err
}

func (e *Enumerator) scanSubsystems() error {
	if err := e.scanSubsystemRoot(filepath.Join(e.ctx.SysfsRoot, "module")); err != nil {
		return err
	}

	busRoot := filepath.Join(e.ctx.SysfsRoot, "subsystem")
	if _, err := os.Stat(busRoot); err != nil {
		busRoot = filepath.Join(e.ctx.SysfsRoot, "bus")
	}
	if err := e.scanSubsystemRoot(busRoot); err != nil {
		return err
	}
	return e.scanDrivers(busRoot)
}

func (e *Enumerator) scanSubsystemRoot(root string) error {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return udev.Wrap(udev.KindEnumerate, err, "reading subsystem root %q", root)
	}
	for _, ent := range entries {
		if !ent.IsDir() && ent.Type()&os.ModeSymlink == 0 {
			continue
		}
		name := ent.Name()
		if !e.matchSubsystemName(name) {
			continue
		}
		e.appendResult(filepath.Join(root, name))
	}
	return nil
}

// scanDrivers visits <busRoot>/<bus>/drivers/<driver> for every bus
// directory under busRoot, filtered by the same subsystem matcher
// (driver directories are classified under their owning bus name).
func (e *Enumerator) scanDrivers(busRoot string) error {
	buses, err := os.ReadDir(busRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return udev.Wrap(udev.KindEnumerate, err, "reading bus root %q", busRoot)
	}
	for _, bus := range buses {
		if !e.matchSubsystemName(bus.Name()) {
			continue
		}
		driversDir := filepath.Join(busRoot, bus.Name(), "drivers")
		drivers, err := os.ReadDir(driversDir)
		if err != nil {
			continue
		}
		for _, drv := range drivers {
			e.appendResult(filepath.Join(driversDir, drv.Name()))
		}
	}
	return nil
}

// matchSubsystemName applies the subsystem matcher's glob lists
// directly to a name, for callers (ScanSubsystems) that have no
// Device record to read GetSubsystem() through.
func (e *Enumerator) matchSubsystemName(name string) bool {
	for _, no := range e.subsystemNoMatch {
		if globMatch(no, name) {
			return false
		}
	}
	if len(e.subsystemMatch) == 0 {
		return true
	}
	for _, m := range e.subsystemMatch {
		if globMatch(m, name) {
			return true
		}
	}
	return false
}
