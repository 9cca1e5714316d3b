package control

import "path/filepath"

// DefaultSysfsRoot is the canonical sysfs mount point.
const DefaultSysfsRoot = "/sys"

// DefaultRunRoot is the canonical runtime-state directory.
const DefaultRunRoot = "/run"

// DefaultDevNodeRoot is the canonical device-node directory.
const DefaultDevNodeRoot = "/dev"

// RunUdevControl returns the path probed to decide whether the device
// manager daemon is active.
func RunUdevControl(runRoot string) string {
	return filepath.Join(runRoot, "udev", "control")
}

// RunUdevQueue returns the path whose presence indicates a non-empty
// event queue.
func RunUdevQueue(runRoot string) string {
	return filepath.Join(runRoot, "udev", "queue")
}

// RunUdevTagDir returns the tag reverse-index directory for tag.
func RunUdevTagDir(runRoot, tag string) string {
	return filepath.Join(runRoot, "udev", "tags", tag)
}

// RunUdevDataFile returns the persisted device-record path for a
// stable device ID, e.g. "b8:0" or "+usb:1-1".
func RunUdevDataFile(runRoot, id string) string {
	return filepath.Join(runRoot, "udev", "data", id)
}

// SysPath joins a sysfs root and a devpath (which always begins with
// a leading slash) into an absolute syspath.
func SysPath(sysfsRoot, devpath string) string {
	return filepath.Join(sysfsRoot, devpath)
}

// DevPath strips the sysfs root prefix from an absolute syspath.
func DevPath(sysfsRoot, syspath string) string {
	rel := trimPrefix(syspath, sysfsRoot)
	if rel == "" {
		return "/"
	}
	return rel
}

func trimPrefix(s, prefix string) string {
	if len(s) >= len(prefix) && s[:len(prefix)] == prefix {
		return s[len(prefix):]
	}
	return s
}
