package monitor

import (
	"os"
	"sync"

	"github.com/udevgo/udevgo/internal/control"
	"github.com/udevgo/udevgo/udev"
	"github.com/udevgo/udevgo/udev/netlink"
)

// Group selects which multicast group a Monitor binds to.
type Group int

const (
	// GroupNone binds to no multicast group (a caller-supplied fd or a
	// send-only monitor).
	GroupNone Group = iota
	// GroupKernel is the kernel's own uevent broadcast group.
	GroupKernel
	// GroupUdev is the device-manager daemon's republished group.
	GroupUdev
)

// String returns the group's metrics-label name.
func (g Group) String() string {
	switch g {
	case GroupKernel:
		return "kernel"
	case GroupUdev:
		return "udev"
	default:
		return "none"
	}
}

// netlinkGroupBit returns the kernel multicast group bit Group binds
// to; GroupNone binds to none.
func (g Group) netlinkGroupBit() uint32 {
	switch g {
	case GroupKernel:
		return 1 << 0
	case GroupUdev:
		return 1 << 1
	default:
		return 0
	}
}

// Monitor owns a raw netlink socket (or a caller-supplied file
// descriptor standing in for one) used to receive and send uevent
// frames. Not safe for concurrent use by multiple goroutines; callers
// needing concurrent access should use one Monitor per goroutine.
type Monitor struct {
	ctx   *udev.Context
	group Group
	fd    int
	bound bool

	// disarmed is set at construction when GroupUdev was requested but
	// <run>/udev/control was absent: the daemon isn't active, so the
	// monitor is built but will never bind or receive.
	disarmed bool

	ownPID           uint32
	trustedSenderPID uint32
	hasTrustedSender bool

	mu         sync.Mutex
	tags       []string
	subsystems []netlink.SubsystemFilter
}

// New constructs a Monitor bound to group once Bind is called. When
// group is GroupUdev, construction probes <run>/udev/control; if
// absent the returned Monitor is disarmed (Bind becomes a no-op and
// Receive always returns ErrUnsupported).
func New(ctx *udev.Context, group Group) *Monitor {
	m := &Monitor{ctx: ctx, group: group, fd: -1}
	if group == GroupUdev {
		if _, err := os.Stat(control.RunUdevControl(ctx.RunRoot)); err != nil {
			m.disarmed = true
		}
	}
	return m
}

// NewFromFD adopts an already-open, already-bound file descriptor
// instead of creating a new socket. The caller retains ownership of
// fd's lifecycle decisions made before this call (e.g. whether
// SO_PASSCRED is already set); Close still closes it.
func NewFromFD(ctx *udev.Context, fd int, group Group) *Monitor {
	return &Monitor{ctx: ctx, group: group, fd: fd, bound: true}
}

// Disarmed reports whether this Monitor was constructed for GroupUdev
// with no active daemon detected, and so will never receive.
func (m *Monitor) Disarmed() bool { return m.disarmed }

// FD returns the underlying file descriptor, or -1 if none is open.
func (m *Monitor) FD() int { return m.fd }

// SetTrustedSender configures the netlink PID Receive accepts unicast
// frames from. Frames are always accepted when this is unset.
func (m *Monitor) SetTrustedSender(pid uint32) {
	m.trustedSenderPID = pid
	m.hasTrustedSender = true
}

// AddSubsystemFilter subscribes to every device in subsystem,
// regardless of devtype.
func (m *Monitor) AddSubsystemFilter(subsystem string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subsystems = append(m.subsystems, netlink.SubsystemFilter{Subsystem: subsystem})
}

// AddSubsystemDevtypeFilter subscribes to devices in subsystem whose
// devtype matches devtype exactly.
func (m *Monitor) AddSubsystemDevtypeFilter(subsystem, devtype string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subsystems = append(m.subsystems, netlink.SubsystemFilter{Subsystem: subsystem, Devtype: devtype})
}

// AddTagFilter subscribes to devices carrying tag.
func (m *Monitor) AddTagFilter(tag string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tags = append(m.tags, tag)
}

// filterSnapshot returns a defensive copy of the current filter lists
// for building or matching against, without holding the lock across
// syscalls.
func (m *Monitor) filterSnapshot() ([]string, []netlink.SubsystemFilter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tags := append([]string(nil), m.tags...)
	subsystems := append([]netlink.SubsystemFilter(nil), m.subsystems...)
	return tags, subsystems
}

// matches reports whether d passes the current subscriber-side
// subsystem/devtype/tag filters. An empty filter set matches
// everything.
func (m *Monitor) matches(d *udev.Device) bool {
	tags, subsystems := m.filterSnapshot()
	return Matches(d, subsystems, tags)
}

// Matches implements the subscriber-side filter predicate applied to
// every device a Monitor receives after the kernel's own BPF filter:
// a device matches an empty filter set unconditionally; otherwise it
// must satisfy at least one subsystem(+devtype) entry (when any are
// configured) and carry at least one configured tag, mirroring the
// kernel-side BPF program's own at-least-one tag match.
func Matches(d *udev.Device, subsystems []netlink.SubsystemFilter, tags []string) bool {
	if len(subsystems) > 0 {
		ok := false
		for _, f := range subsystems {
			if d.Subsystem != f.Subsystem {
				continue
			}
			if f.Devtype == "" || f.Devtype == d.Devtype {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if len(tags) > 0 {
		ok := false
		for _, t := range tags {
			if d.Tags.ByName(t) != nil {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}
