// Package systemd provides a thin, read-only D-Bus lookup used as an
// optional auxiliary signal alongside the filesystem-based queue
// probe: this library never starts, stops, or restarts units, since it
// is a client of the device-management subsystem, not its manager.
package systemd

import (
	"context"

	"github.com/coreos/go-systemd/v22/dbus"
)

// Manager holds a system-bus D-Bus connection.
type Manager struct {
	conn *dbus.Conn
}

// NewManager creates a systemd manager connected to the system bus,
// where systemd-udevd.service is registered.
func NewManager(ctx context.Context) (*Manager, error) {
	conn, err := dbus.NewSystemConnectionContext(ctx)
	if err != nil {
		return nil, err
	}
	return &Manager{conn: conn}, nil
}

// ActiveState retrieves the ActiveState property of a systemd unit
// (e.g. "active", "inactive", "failed").
func (m *Manager) ActiveState(ctx context.Context, unit string) (string, error) {
	prop, err := m.conn.GetUnitPropertyContext(ctx, unit, "ActiveState")
	if err != nil {
		return "", err
	}
	return prop.Value.String(), nil
}

// Close cleanly closes the D-Bus connection.
func (m *Manager) Close() {
	if m.conn != nil {
		m.conn.Close()
	}
}
