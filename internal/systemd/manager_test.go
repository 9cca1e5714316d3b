package systemd

import "github.com/udevgo/udevgo/udev/queue"

// Manager must keep satisfying queue.SystemdChecker; a live D-Bus
// connection isn't available in a test environment, so this is
// checked at compile time rather than exercised end to end.
var _ queue.SystemdChecker = (*Manager)(nil)
