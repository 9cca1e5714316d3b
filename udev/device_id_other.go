//go:build !linux

package udev

import "net"

// newFromIfindex is a portable fallback for non-Linux builds, where
// there is no sysfs to read through anyway; it exists so the package
// builds, not to be exercised in production.
func newFromIfindex(ctx *Context, ifindex int) (*Device, error) {
	iface, err := net.InterfaceByIndex(ifindex)
	if err != nil {
		return nil, Wrap(KindDevice, err, "resolving ifindex %d", ifindex)
	}
	return NewFromSubsystemSysname(ctx, "net", iface.Name)
}
