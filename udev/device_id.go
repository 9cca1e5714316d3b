package udev

import (
	"fmt"
	"path"
	"strconv"
)

// computeIDFilename derives the persisted-database stable ID for d,
// following the first rule below that applies:
//
//  1. empty subsystem -> empty ID
//  2. major(devnum) > 0 -> "b<maj>:<min>" for subsystem "block", else
//     "c<maj>:<min>"
//  3. ifindex > 0 -> "n<ifindex>"
//  4. a basename can be derived from devpath -> "+<subsystem>:<basename>"
//     (the basename comes from devpath)
//  5. otherwise empty
func (d *Device) computeIDFilename() string {
	if d.Subsystem == "" {
		return ""
	}
	if d.Devnum.Major > 0 {
		if d.Subsystem == "block" {
			return fmt.Sprintf("b%d:%d", d.Devnum.Major, d.Devnum.Minor)
		}
		return fmt.Sprintf("c%d:%d", d.Devnum.Major, d.Devnum.Minor)
	}
	if d.Ifindex > 0 {
		return fmt.Sprintf("n%d", d.Ifindex)
	}
	if base := path.Base(d.Devpath); base != "" && base != "." && base != "/" {
		return fmt.Sprintf("+%s:%s", d.Subsystem, base)
	}
	return ""
}

// NewFromDeviceID resolves a stable ID of the form produced by
// computeIDFilename back into a Device by locating its syspath, then
// reading through sysfs. id must begin with 'b', 'c', 'n', or '+'.
func NewFromDeviceID(ctx *Context, id string) (*Device, error) {
	if id == "" {
		return nil, New(KindInvalidLength, "device id must not be empty")
	}

	switch id[0] {
	case 'b', 'c':
		maj, min, err := parseMajMin(id[1:])
		if err != nil {
			return nil, Wrap(KindDevice, err, "parsing device id %q", id)
		}
		return NewFromDevnum(ctx, id[0], Devnum{Major: maj, Minor: min})
	case 'n':
		ifindex, err := strconv.Atoi(id[1:])
		if err != nil {
			return nil, Wrap(KindDevice, err, "parsing device id %q", id)
		}
		return newFromIfindex(ctx, ifindex)
	case '+':
		subsys, basename, ok := splitSubsystemBasename(id[1:])
		if !ok {
			return nil, New(KindDevice, "malformed device id %q", id)
		}
		return NewFromSubsystemSysname(ctx, subsys, basename)
	default:
		return nil, New(KindDevice, "unrecognized device id prefix in %q", id)
	}
}

func parseMajMin(s string) (maj, min uint32, err error) {
	for i := 0; i < len(s); i++ {
		if s[i] == ':' {
			majV, err := strconv.ParseUint(s[:i], 10, 32)
			if err != nil {
				return 0, 0, err
			}
			minV, err := strconv.ParseUint(s[i+1:], 10, 32)
			if err != nil {
				return 0, 0, err
			}
			return uint32(majV), uint32(minV), nil
		}
	}
	return 0, 0, fmt.Errorf("missing ':' separator")
}

func splitSubsystemBasename(s string) (subsystem, basename string, ok bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == ':' {
			return s[:i], s[i+1:], true
		}
	}
	return "", "", false
}
