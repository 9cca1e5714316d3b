// Package udev is a client library for the Linux device-management
// subsystem exposed via sysfs, the uevent netlink protocol, and the
// hwdb property database. It mirrors the shape of libudev without
// acting as the device-manager daemon: it never writes rules, creates
// device nodes, or applies permissions.
package udev

import "fmt"

// Kind classifies the failure modes callers need to branch on. It
// intentionally does not assign stable numeric values to each kind —
// a stable numeric error taxonomy is an external concern this library
// does not own.
type Kind int

const (
	// KindInvalidLength marks a binary frame or record shorter than
	// its declared minimum.
	KindInvalidLength Kind = iota
	// KindContext marks a Context construction or mutation failure.
	KindContext
	// KindDevice marks a device construction, parse, or lookup failure.
	KindDevice
	// KindHwdb marks an hwdb open, header, parse, or overflow failure.
	KindHwdb
	// KindMonitor marks a socket, bind, send, receive, or filter failure.
	KindMonitor
	// KindEnumerate marks an invalid filter or sysfs walk failure.
	KindEnumerate
	// KindQueue marks a run-directory probe or watch failure.
	KindQueue
	// KindIO wraps an OS error not otherwise classified.
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindInvalidLength:
		return "invalid-length"
	case KindContext:
		return "context"
	case KindDevice:
		return "device"
	case KindHwdb:
		return "hwdb"
	case KindMonitor:
		return "monitor"
	case KindEnumerate:
		return "enumerate"
	case KindQueue:
		return "queue"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

// Error is the typed error every package in this module returns.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("udev: %s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("udev: %s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New constructs an *Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap constructs an *Error of the given kind around an existing error.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// ErrFiltered is returned by Monitor.Receive when a frame was read but
// didn't pass subscriber filters and no further frames are queued.
var ErrFiltered = New(KindMonitor, "received device filtered out, no more queued frames")

// ErrReceiveLoopExceeded is returned when the receive loop's iteration
// bound (1024 per call) is reached without producing a device.
var ErrReceiveLoopExceeded = New(KindMonitor, "receive loop exceeded maximum iterations")
