//go:build !linux

package monitor

import (
	"golang.org/x/net/bpf"

	"github.com/udevgo/udevgo/udev"
)

// Bind always fails: raw AF_NETLINK/NETLINK_KOBJECT_UEVENT sockets
// only exist on Linux. This stub exists so the package builds
// cross-platform, matching the rest of this module's _linux/_other
// split; it is not meant to be exercised in production.
func (m *Monitor) Bind() error {
	if m.disarmed {
		m.bound = true
		return nil
	}
	return ErrUnsupported
}

// Close releases a caller-supplied file descriptor, if any; a Monitor
// built by New on this platform never has one.
func (m *Monitor) Close() error {
	m.fd = -1
	m.bound = false
	return nil
}

func (m *Monitor) attachFilter(raw []bpf.RawInstruction) error {
	if m.disarmed {
		return nil
	}
	return ErrUnsupported
}

// Receive always fails on this platform.
func (m *Monitor) Receive() (*udev.Device, error) {
	return nil, ErrUnsupported
}

// Send always fails on this platform.
func (m *Monitor) Send(d *udev.Device) (int, error) {
	return 0, ErrUnsupported
}

// SendTo always fails on this platform.
func (m *Monitor) SendTo(d *udev.Device, peerPID uint32) (int, error) {
	return 0, ErrUnsupported
}
