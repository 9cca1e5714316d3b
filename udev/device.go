package udev

import (
	"log/slog"

	"golang.org/x/sys/unix"
)

// Action is the lifecycle transition a uevent or monitor frame
// reports for a device.
type Action int

const (
	ActionUnknown Action = iota
	ActionAdd
	ActionRemove
	ActionChange
	ActionOnline
	ActionOffline
)

func (a Action) String() string {
	switch a {
	case ActionAdd:
		return "add"
	case ActionRemove:
		return "remove"
	case ActionChange:
		return "change"
	case ActionOnline:
		return "online"
	case ActionOffline:
		return "offline"
	default:
		return ""
	}
}

// ParseAction maps a uevent ACTION value to an Action. An unrecognized
// value returns ActionUnknown.
func ParseAction(s string) Action {
	switch s {
	case "add":
		return ActionAdd
	case "remove":
		return ActionRemove
	case "change":
		return ActionChange
	case "online":
		return ActionOnline
	case "offline":
		return ActionOffline
	default:
		return ActionUnknown
	}
}

// Devnum is a packed major/minor device number.
type Devnum struct {
	Major uint32
	Minor uint32
}

// Packed returns the kernel dev_t encoding of d.
func (d Devnum) Packed() uint64 { return unix.Mkdev(d.Major, d.Minor) }

// DevnumFromPacked decodes a kernel dev_t into a Devnum.
func DevnumFromPacked(dev uint64) Devnum {
	return Devnum{Major: unix.Major(dev), Minor: unix.Minor(dev)}
}

// IsZero reports whether d is the zero device number.
func (d Devnum) IsZero() bool { return d.Major == 0 && d.Minor == 0 }

// Device is the in-memory view of one kernel device, lazily
// populated from sysfs and the persisted device-record database on
// top of whatever a uevent payload or buffer supplied eagerly.
type Device struct {
	ctx *Context

	// Identity
	Syspath   string
	Devpath   string
	Sysname   string
	Sysnum    string
	Subsystem string
	Devtype   string
	Driver    string

	// Node
	Devnode     string
	DevnodeMode uint32 // 12-bit POSIX perms + setuid/setgid/sticky
	DevnodeUID  uint32
	DevnodeGID  uint32
	Devnum      Devnum
	Ifindex     int

	// History
	Action          Action
	Seqnum          uint64
	DevpathOld      string
	UsecInitialized uint64

	// Derived
	IDFilename string
	MonitorBuf []byte

	// Collections
	Devlinks     *List
	Properties   *List
	SysattrValue *List
	Sysattr      *List
	Tags         *List

	// Parent
	parent         *Device
	parentResolved bool

	// Load flags
	InfoLoaded      bool
	DbLoaded        bool
	UeventLoaded    bool
	IsInitialized   bool
	SysattrListRead bool
	DbPersist       bool

	// Freshness bits
	DevlinksUptodate bool
	EnvpUptodate     bool
	TagsUptodate     bool

	// Transient major/minor accumulated during parsing, combined into
	// Devnum by finishParse.
	majTmp, minTmp int64
	majSeen        bool
}

// New returns an empty Device bound to ctx.
func New(ctx *Context) *Device {
	return &Device{
		ctx:          ctx,
		Devlinks:     NewList(false),
		Properties:   NewList(true),
		SysattrValue: NewList(true),
		Sysattr:      NewList(true),
		Tags:         NewList(true),
	}
}

func (d *Device) logger() *slog.Logger { return d.ctx.logger() }

// Context returns the Context this device was constructed with.
func (d *Device) Context() *Context { return d.ctx }

// invalidateCaches clears the freshness bits a property mutation poisons.
func (d *Device) invalidateCaches() {
	d.EnvpUptodate = false
	d.MonitorBuf = nil
}
