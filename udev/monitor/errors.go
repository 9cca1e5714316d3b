// Package monitor opens a raw netlink socket bound to the kernel
// uevent group or the device-manager daemon's group, authenticates
// peer credentials, applies a subscriber-side BPF filter, and decodes
// received frames into Device records.
package monitor

import "github.com/udevgo/udevgo/udev"

// ErrUnsupported is returned by every blocking operation on a platform
// without raw AF_NETLINK sockets.
var ErrUnsupported = udev.New(udev.KindMonitor, "netlink monitor is not supported on this platform")

// ReceiveLoopMax bounds Receive's internal retry loop as a livelock
// guard against a sender that never stops producing filtered frames.
const ReceiveLoopMax = 1024
