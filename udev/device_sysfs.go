package udev

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const sysattrReadLimit = 4096

// GetDevnode returns the device node path, reading through the
// "uevent" file if not already loaded.
func (d *Device) GetDevnode() string {
	d.ensureUevent()
	return d.Devnode
}

// GetDevtype returns the device type, reading through if necessary.
func (d *Device) GetDevtype() string {
	d.ensureUevent()
	return d.Devtype
}

// GetDevnum returns the packed device number, reading through if
// necessary.
func (d *Device) GetDevnum() Devnum {
	d.ensureUevent()
	return d.Devnum
}

// GetIfindex returns the network interface index, reading through if
// necessary.
func (d *Device) GetIfindex() int {
	d.ensureUevent()
	return d.Ifindex
}

// GetIsInitialized reports whether udev has finished processing this
// device, inferred from the presence of a persisted database record.
func (d *Device) GetIsInitialized() bool {
	if !d.DbLoaded {
		d.loadDb()
	}
	return d.IsInitialized
}

// GetDriver returns the bound driver name, read through from the
// "driver" symlink if not already loaded.
func (d *Device) GetDriver() string {
	d.ensureUevent()
	if d.Driver == "" && d.Syspath != "" {
		if name, err := d.readSymlinkBasename("driver"); err == nil {
			d.Driver = name
		}
	}
	return d.Driver
}

// GetSubsystem returns the device's subsystem, reading through the
// "subsystem" symlink first and falling back to a devpath-based
// classification when no such symlink exists.
func (d *Device) GetSubsystem() string {
	if d.Subsystem != "" {
		return d.Subsystem
	}
	if d.Syspath == "" {
		return ""
	}
	if name, err := d.readSymlinkBasename("subsystem"); err == nil {
		d.Subsystem = name
		return d.Subsystem
	}

	switch {
	case strings.HasPrefix(d.Devpath, "/module/") || strings.Contains(d.Devpath, "/drivers/"):
		d.Subsystem = "module"
	case strings.HasPrefix(d.Devpath, "/subsystem/"),
		strings.HasPrefix(d.Devpath, "/class/"),
		strings.HasPrefix(d.Devpath, "/bus/"):
		d.Subsystem = "subsystem"
	}
	return d.Subsystem
}

// readSymlinkBasename reads the symlink at syspath/name and returns
// the basename of its target.
func (d *Device) readSymlinkBasename(name string) (string, error) {
	target, err := os.Readlink(filepath.Join(d.Syspath, name))
	if err != nil {
		return "", err
	}
	return filepath.Base(target), nil
}

// GetSysattrValue returns the value of a sysfs attribute file, caching
// both positive and negative results. Three sub-policies apply to
// syspath/attr:
//
//   - a symlink named "driver", "subsystem", or "module" resolves to
//     its target's basename;
//   - a regular, non-empty, user-readable file is read (up to 4 KiB)
//     and cached verbatim, trailing newline included;
//   - a directory, an empty file, or one lacking user-read permission
//     is negatively cached as "".
func (d *Device) GetSysattrValue(attr string) string {
	if e := d.SysattrValue.ByName(attr); e != nil {
		return e.Value
	}

	value := d.readSysattr(attr)
	d.SysattrValue.Add(attr, value)
	return value
}

func (d *Device) readSysattr(attr string) string {
	if d.Syspath == "" {
		return ""
	}
	path := filepath.Join(d.Syspath, attr)

	fi, err := os.Lstat(path)
	if err != nil {
		return ""
	}

	if fi.Mode()&os.ModeSymlink != 0 {
		switch attr {
		case "driver", "subsystem", "module":
			if name, err := d.readSymlinkBasename(attr); err == nil {
				return name
			}
		}
		return ""
	}

	if fi.IsDir() || fi.Size() == 0 || fi.Mode().Perm()&0o400 == 0 {
		return ""
	}

	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	buf, err := io.ReadAll(io.LimitReader(f, sysattrReadLimit))
	if err != nil {
		return ""
	}
	return string(buf)
}

// GetDevlinksListEntry returns the devlinks list, reading through the
// uevent file first if it has not been loaded.
func (d *Device) GetDevlinksListEntry() *List {
	d.ensureUevent()
	return d.Devlinks
}

// GetTagsListEntry returns the tags list, reading through the uevent
// file first if it has not been loaded.
func (d *Device) GetTagsListEntry() *List {
	d.ensureUevent()
	return d.Tags
}

// GetSysattrListEntry enumerates syspath once, populating Sysattr with
// every directory entry that is a regular file or symlink whose mode
// permits user-read. The result is cached; subsequent calls return the
// same list without rereading the directory.
func (d *Device) GetSysattrListEntry() *List {
	if d.SysattrListRead {
		return d.Sysattr
	}
	d.SysattrListRead = true

	if d.Syspath == "" {
		return d.Sysattr
	}
	entries, err := os.ReadDir(d.Syspath)
	if err != nil {
		d.logger().Debug("sysattr directory read failed", "syspath", d.Syspath, "error", err)
		return d.Sysattr
	}

	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		mode := info.Mode()
		isSymlink := mode&os.ModeSymlink != 0
		if !isSymlink && !mode.IsRegular() {
			continue
		}
		if mode.Perm()&0o400 == 0 {
			continue
		}
		d.Sysattr.Add(entry.Name(), entry.Name())
	}
	return d.Sysattr
}

// ensureUevent reads syspath/uevent exactly once, folding its
// contents into the receiver.
func (d *Device) ensureUevent() {
	if d.UeventLoaded || d.Syspath == "" {
		return
	}
	d.UeventLoaded = true

	f, err := os.Open(filepath.Join(d.Syspath, "uevent"))
	if err != nil {
		return
	}
	defer f.Close()
	_ = d.loadUeventFile(f)
}

// loadDb reads the persisted device-record database, populating
// IsInitialized from its mere presence.
func (d *Device) loadDb() {
	d.DbLoaded = true
	id := d.IDFilename
	if id == "" {
		id = d.computeIDFilename()
	}
	if id == "" {
		return
	}
	if err := d.readDbFile(filepath.Join(d.ctx.RunRoot, "udev", "data", id)); err == nil {
		d.IsInitialized = true
	}
}

// readDbFile parses one persisted device-record file, line by line.
// See the S:/L:/E:/G:/W:/I: line-prefix format.
func (d *Device) readDbFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) < 2 || line[1] != ':' {
			continue
		}
		prefix, rest := line[0], line[2:]
		switch prefix {
		case 'S':
			d.AddDevlink(filepath.Join(d.ctx.DevNodeRoot, rest))
		case 'L':
			// ordinal priority of the primary devnode symlink; not tracked further
		case 'E':
			if idx := strings.IndexByte(rest, '='); idx >= 0 {
				e := d.Properties.Add(rest[:idx], rest[idx+1:])
				e.Ordinal = 1
			}
		case 'G':
			d.AddTag(rest)
		case 'W':
			// watch handle; informational only in this client
		case 'I':
			v, err := strconv.ParseUint(rest, 10, 64)
			if err == nil {
				d.UsecInitialized = v
			}
		}
	}
	return scanner.Err()
}
