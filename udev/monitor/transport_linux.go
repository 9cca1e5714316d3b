//go:build linux

package monitor

import (
	"golang.org/x/net/bpf"
	"golang.org/x/sys/unix"

	"github.com/udevgo/udevgo/internal/control"
	"github.com/udevgo/udevgo/internal/metrics"
	"github.com/udevgo/udevgo/udev"
	"github.com/udevgo/udevgo/udev/netlink"
)

// netlinkKobjectUEvent is the netlink protocol number for kernel
// object uevent messages (NETLINK_KOBJECT_UEVENT).
const netlinkKobjectUEvent = 15

// recvBufSize is the payload buffer size for one recvmsg call.
const recvBufSize = 8192

// Bind creates (or, for a disarmed or adopted Monitor, reuses) the
// underlying socket: a raw AF_NETLINK socket of type
// SOCK_RAW|SOCK_CLOEXEC|SOCK_NONBLOCK and protocol
// NETLINK_KOBJECT_UEVENT, bound to the configured group, with
// SO_PASSCRED enabled once the kernel has assigned a netlink PID.
func (m *Monitor) Bind() error {
	if m.disarmed {
		m.bound = true
		return nil
	}
	if m.bound {
		return nil
	}

	fd, err := unix.Socket(unix.AF_NETLINK, unix.SOCK_RAW|unix.SOCK_CLOEXEC|unix.SOCK_NONBLOCK, netlinkKobjectUEvent)
	if err != nil {
		return udev.Wrap(udev.KindMonitor, err, "creating netlink socket")
	}

	sa := &unix.SockaddrNetlink{Family: unix.AF_NETLINK, Groups: m.group.netlinkGroupBit()}
	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return udev.Wrap(udev.KindMonitor, err, "binding netlink socket to group %d", m.group)
	}

	name, err := unix.Getsockname(fd)
	if err != nil {
		unix.Close(fd)
		return udev.Wrap(udev.KindMonitor, err, "getsockname")
	}
	if nl, ok := name.(*unix.SockaddrNetlink); ok {
		m.ownPID = nl.Pid
	}

	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_PASSCRED, 1); err != nil {
		unix.Close(fd)
		return udev.Wrap(udev.KindMonitor, err, "enabling SO_PASSCRED")
	}

	m.fd = fd
	m.bound = true
	return nil
}

// Close releases the underlying socket, if any.
func (m *Monitor) Close() error {
	if m.fd < 0 {
		return nil
	}
	err := unix.Close(m.fd)
	m.fd = -1
	m.bound = false
	if err != nil {
		return udev.Wrap(udev.KindMonitor, err, "closing netlink socket")
	}
	return nil
}

func (m *Monitor) attachFilter(raw []bpf.RawInstruction) error {
	if m.fd < 0 {
		if m.disarmed {
			return nil
		}
		return udev.New(udev.KindMonitor, "monitor has no open socket")
	}

	filters := make([]unix.SockFilter, len(raw))
	for i, r := range raw {
		filters[i] = unix.SockFilter{Code: r.Op, Jt: r.Jt, Jf: r.Jf, K: r.K}
	}
	prog := &unix.SockFprog{Len: uint16(len(filters))}
	if len(filters) > 0 {
		prog.Filter = &filters[0]
	}
	if err := unix.SetsockoptSockFprog(m.fd, unix.SOL_SOCKET, unix.SO_ATTACH_FILTER, prog); err != nil {
		return udev.Wrap(udev.KindMonitor, err, "attaching filter program of %d instructions", len(filters))
	}
	return nil
}

// Receive implements the eight-step receive loop, bounded at
// ReceiveLoopMax iterations.
func (m *Monitor) Receive() (*udev.Device, error) {
	if m.disarmed || m.fd < 0 {
		return nil, ErrUnsupported
	}

	for i := 0; i < ReceiveLoopMax; i++ {
		buf := make([]byte, recvBufSize)
		oob := make([]byte, unix.CmsgSpace(unix.SizeofUcred))

		n, oobn, recvflags, from, err := unix.Recvmsg(m.fd, buf, oob, 0)
		if err != nil {
			return nil, udev.Wrap(udev.KindMonitor, err, "recvmsg")
		}
		if n < 32 || recvflags&unix.MSG_TRUNC != 0 {
			metrics.ObserveFrameDropped("short-or-truncated")
			continue
		}

		var fromPID, fromGroups uint32
		if nl, ok := from.(*unix.SockaddrNetlink); ok {
			fromPID, fromGroups = nl.Pid, nl.Groups
		}
		if fromGroups == 0 {
			if !m.hasTrustedSender || fromPID != m.trustedSenderPID {
				metrics.ObserveFrameDropped("untrusted-unicast")
				continue
			}
		} else if m.group == GroupKernel && fromPID != 0 {
			metrics.ObserveFrameDropped("spoofed-kernel-multicast")
			continue
		}

		if !hasRootCredentials(oob[:oobn]) {
			metrics.ObserveFrameDropped("missing-root-credentials")
			continue
		}

		payload := buf[:n]
		var properties []byte
		var initialized bool
		if netlink.HasLibudevPrefix(payload) {
			_, block, err := netlink.DecodeFrame(payload)
			if err != nil {
				metrics.ObserveFrameDropped("bad-udev-frame")
				continue
			}
			properties, initialized = block, true
		} else {
			block, err := netlink.DecodeKernelFrame(payload)
			if err != nil {
				metrics.ObserveFrameDropped("bad-kernel-frame")
				continue
			}
			properties, initialized = block, false
		}

		d, err := udev.NewFromNulBuf(m.ctx, properties)
		if err != nil {
			metrics.ObserveFrameDropped("bad-property-block")
			continue
		}
		d.IsInitialized = initialized
		metrics.ObserveFrameReceived(m.group.String())

		if m.matches(d) {
			return d, nil
		}
		metrics.ObserveFrameFiltered(m.group.String())

		if morePending(m.fd) {
			continue
		}
		return nil, udev.ErrFiltered
	}
	return nil, udev.ErrReceiveLoopExceeded
}

// hasRootCredentials reports whether oob carries an SCM_CREDENTIALS
// message asserting uid 0.
func hasRootCredentials(oob []byte) bool {
	cmsgs, err := unix.ParseSocketControlMessage(oob)
	if err != nil {
		return false
	}
	for i := range cmsgs {
		cred, err := unix.ParseUnixCredentials(&cmsgs[i])
		if err == nil && cred.Uid == 0 {
			return true
		}
	}
	return false
}

// morePending polls fd with a zero timeout to see whether another
// frame is already queued.
func morePending(fd int) bool {
	pfds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
	n, err := unix.Poll(pfds, 0)
	return err == nil && n > 0
}

// Send serializes d's property block into a udev-group frame and
// sends it to this Monitor's configured group. A refused multicast
// send (no subscribers) is reported as zero bytes, not an error.
func (m *Monitor) Send(d *udev.Device) (int, error) {
	return m.sendTo(d, 0, m.group.netlinkGroupBit())
}

// SendTo sends d directly to peerPID instead of a multicast group.
func (m *Monitor) SendTo(d *udev.Device, peerPID uint32) (int, error) {
	return m.sendTo(d, peerPID, 0)
}

func (m *Monitor) sendTo(d *udev.Device, peerPID uint32, destGroup uint32) (int, error) {
	if m.fd < 0 {
		return 0, udev.New(udev.KindMonitor, "monitor has no open socket")
	}

	subsysHash := control.Murmur2([]byte(d.Subsystem), 0)
	var devtypeHash uint32
	if d.Devtype != "" {
		devtypeHash = control.Murmur2([]byte(d.Devtype), 0)
	}
	hi, lo := control.TagBloomHiLo(control.TagListBloom(tagNames(d)))

	frame := netlink.EncodeFrame(subsysHash, devtypeHash, hi, lo, d.MonitorBuffer())

	sa := &unix.SockaddrNetlink{Family: unix.AF_NETLINK, Pid: peerPID, Groups: destGroup}
	if err := unix.Sendmsg(m.fd, frame, nil, sa, 0); err != nil {
		if err == unix.ECONNREFUSED {
			return 0, nil
		}
		return 0, udev.Wrap(udev.KindMonitor, err, "sendmsg")
	}
	return len(frame), nil
}

func tagNames(d *udev.Device) []string {
	entries := d.Tags.Iter()
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}
