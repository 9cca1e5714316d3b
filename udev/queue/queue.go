// Package queue reports whether the device manager daemon has work
// queued, via a run-directory filesystem probe. It never reads or
// drains the queue itself — this library is a client, not the daemon.
package queue

import (
	"context"
	"os"

	"github.com/udevgo/udevgo/internal/control"
	"github.com/udevgo/udevgo/udev"
)

// IsEmpty reports whether <run>/udev/queue is absent, meaning the
// daemon has no pending events. Any stat error other than
// "not exist" is surfaced rather than silently treated as empty.
func IsEmpty(ctx *udev.Context) (bool, error) {
	_, err := os.Stat(control.RunUdevQueue(ctx.RunRoot))
	if err == nil {
		return false, nil
	}
	if os.IsNotExist(err) {
		return true, nil
	}
	return false, udev.Wrap(udev.KindQueue, err, "probing run-directory queue marker")
}

// SystemdChecker reports the ActiveState of a systemd unit, satisfied
// by *internal/systemd.Manager's ActiveState method. It is a seam so
// this package's tests don't need a live D-Bus connection.
type SystemdChecker interface {
	ActiveState(ctx context.Context, unit string) (string, error)
}

// DaemonUnit is the systemd unit name the auxiliary liveness check
// looks up.
const DaemonUnit = "systemd-udevd.service"

// IsActive layers an optional systemd D-Bus check on top of the
// required filesystem probe: the daemon is considered active if
// <run>/udev/control exists, OR DaemonUnit's ActiveState is "active".
// checker may be nil, in which case only the filesystem probe runs.
func IsActive(ctx context.Context, udevCtx *udev.Context, checker SystemdChecker) (bool, error) {
	if _, err := os.Stat(control.RunUdevControl(udevCtx.RunRoot)); err == nil {
		return true, nil
	} else if !os.IsNotExist(err) {
		return false, udev.Wrap(udev.KindQueue, err, "probing run-directory control marker")
	}

	if checker == nil {
		return false, nil
	}
	state, err := checker.ActiveState(ctx, DaemonUnit)
	if err != nil {
		return false, udev.Wrap(udev.KindQueue, err, "querying %s ActiveState", DaemonUnit)
	}
	return state == "active", nil
}
