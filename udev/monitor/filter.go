package monitor

import (
	"github.com/udevgo/udevgo/udev"
	"github.com/udevgo/udevgo/udev/netlink"
)

// FilterUpdate rebuilds the kernel-side BPF filter from the current
// subscriber tag and subsystem lists and attaches it to the socket.
// Filters added after the socket was bound take effect only once this
// is called again (a subscriber contract, not enforced by this type).
func (m *Monitor) FilterUpdate() error {
	tags, subsystems := m.filterSnapshot()
	prog := netlink.BuildFilter(tags, subsystems)
	raw, err := netlink.Assemble(prog)
	if err != nil {
		return udev.Wrap(udev.KindMonitor, err, "building filter program")
	}
	return m.attachFilter(raw)
}

// FilterRemove attaches an empty (zero-length) filter program,
// disabling kernel-side filtering.
func (m *Monitor) FilterRemove() error {
	return m.attachFilter(nil)
}
