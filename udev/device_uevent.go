package udev

import (
	"bufio"
	"bytes"
	"io"
	"path"
	"strconv"
	"strings"
)

// UeventFileLimit bounds how much of a uevent file this parser reads,
// matching the kernel's own default filesystem block size for such
// pseudo-files.
const UeventFileLimit = 0x1000

// NewFromNulBuf parses a NUL-separated KEY=VALUE buffer (as carried by
// a netlink frame's property block) into a new Device.
func NewFromNulBuf(ctx *Context, buf []byte) (*Device, error) {
	d := New(ctx)
	d.InfoLoaded = true

	for _, rec := range bytes.Split(buf, []byte{0}) {
		if len(rec) == 0 {
			continue
		}
		d.applyProperty(string(rec), false)
	}
	d.finishParse()
	return d, nil
}

// ReadUeventFile reads and parses a line-oriented uevent pseudo-file
// (as found at "<syspath>/uevent"), bounded at UeventFileLimit bytes.
// A uevent body missing both DEVPATH and SUBSYSTEM is logged at debug
// level rather than treated as an error, so partial kernel frames
// still round-trip.
func ReadUeventFile(ctx *Context, r io.Reader) (*Device, error) {
	d := New(ctx)
	d.InfoLoaded = true
	if err := d.loadUeventFile(r); err != nil {
		return nil, err
	}
	return d, nil
}

// loadUeventFile parses a uevent pseudo-file into the receiver.
func (d *Device) loadUeventFile(r io.Reader) error {
	limited := io.LimitReader(r, UeventFileLimit)
	scanner := bufio.NewScanner(limited)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		d.applyProperty(line, true)
	}
	if err := scanner.Err(); err != nil {
		return Wrap(KindDevice, err, "reading uevent file")
	}
	d.finishParse()

	if d.Devpath == "" && d.Subsystem == "" {
		d.logger().Debug("uevent file had empty devpath and subsystem", "component", "device")
	}
	return nil
}

// applyProperty handles one "KEY=VALUE" record from a uevent buffer
// or file. fromFile selects octal DEVMODE parsing (uevent files)
// versus decimal (environment/buffer).
func (d *Device) applyProperty(rec string, fromFile bool) {
	idx := strings.IndexByte(rec, '=')
	if idx < 0 {
		return
	}
	key, value := rec[:idx], rec[idx+1:]

	switch key {
	case "DEVPATH":
		d.setSyspathFromDevpath(value)
	case "SUBSYSTEM":
		d.Subsystem = value
	case "DEVTYPE":
		d.Devtype = value
	case "DEVNAME":
		d.Devnode = value
	case "DEVLINKS":
		for _, link := range strings.Split(value, " ") {
			if link != "" {
				d.AddDevlink(link)
			}
		}
	case "TAGS":
		for _, tag := range strings.Split(value, ":") {
			if tag != "" {
				d.AddTag(tag)
			}
		}
	case "USEC_INITIALIZED":
		v, _ := strconv.ParseUint(value, 10, 64)
		d.UsecInitialized = v
	case "DRIVER":
		d.Driver = value
	case "ACTION":
		d.Action = ParseAction(value)
	case "MAJOR":
		v, _ := strconv.ParseInt(value, 10, 64)
		d.majTmp = v
		d.majSeen = true
	case "MINOR":
		v, _ := strconv.ParseInt(value, 10, 64)
		d.minTmp = v
	case "DEVPATH_OLD":
		d.DevpathOld = value
	case "SEQNUM":
		v, _ := strconv.ParseUint(value, 10, 64)
		d.Seqnum = v
	case "IFINDEX":
		v, _ := strconv.Atoi(value)
		d.Ifindex = v
	case "DEVMODE":
		base := 10
		if fromFile {
			base = 8
		}
		v, _ := strconv.ParseUint(value, base, 32)
		d.DevnodeMode = uint32(v)
	case "DEVUID":
		v, _ := strconv.ParseUint(value, 10, 32)
		d.DevnodeUID = uint32(v)
	case "DEVGID":
		v, _ := strconv.ParseUint(value, 10, 32)
		d.DevnodeGID = uint32(v)
	default:
		d.setProperty(key, value)
	}
}

// setSyspathFromDevpath resolves an absolute syspath from a devpath
// value and derives Sysname/Sysnum.
func (d *Device) setSyspathFromDevpath(devpath string) {
	d.Syspath = d.ctx.SysPath(devpath)
	d.Devpath = devpath
	d.Sysname = path.Base(devpath)
	d.Sysnum = trailingDigits(d.Sysname)
}

// trailingDigits returns the maximal numeric suffix of s, or "".
func trailingDigits(s string) string {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	return s[i:]
}

// setProperty adds or removes a plain K=V property: an empty value
// removes any existing entry with that name. Setting any property
// invalidates the envp/monitor-buffer cache.
func (d *Device) setProperty(key, value string) {
	d.invalidateCaches()
	if value == "" {
		d.Properties.Remove(key)
		return
	}
	d.Properties.Add(key, value)
}

// AddDevlink appends link to the devlinks list if not already present.
func (d *Device) AddDevlink(link string) {
	if d.Devlinks.ByName(link) != nil {
		return
	}
	d.Devlinks.Add(link, link)
	d.DevlinksUptodate = false
}

// AddTag validates (no ':' or ' ') and appends tag to the tags list.
func (d *Device) AddTag(tag string) {
	if strings.ContainsAny(tag, ": ") {
		return
	}
	if d.Tags.ByName(tag) != nil {
		return
	}
	d.Tags.Add(tag, tag)
	d.TagsUptodate = false
}

// finishParse combines any MAJOR/MINOR seen during parsing into Devnum
// and clears the transient fields, then derives the stable ID.
func (d *Device) finishParse() {
	if d.majSeen && d.majTmp > 0 {
		d.Devnum = Devnum{Major: uint32(d.majTmp), Minor: uint32(d.minTmp)}
	}
	d.majTmp, d.minTmp = 0, 0
	d.majSeen = false
	d.IDFilename = d.computeIDFilename()
}
