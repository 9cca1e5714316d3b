//go:build linux

package udev

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// newFromIfindex resolves an "n<ifindex>" device ID. It opens a
// datagram socket, issues SIOCGIFNAME to translate the index into the
// interface's current name, then looks the device up by
// subsystem/sysname and verifies the resolved device's ifindex still
// matches (the index can be recycled between the two steps).
func newFromIfindex(ctx *Context, ifindex int) (*Device, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM, 0)
	if err != nil {
		return nil, Wrap(KindDevice, err, "opening socket to resolve ifindex %d", ifindex)
	}
	defer unix.Close(fd)

	var ifr ifreqIndex
	ifr.index = int32(ifindex)

	if err := ioctl(fd, unix.SIOCGIFNAME, unsafe.Pointer(&ifr)); err != nil {
		return nil, Wrap(KindDevice, err, "resolving ifindex %d via SIOCGIFNAME", ifindex)
	}

	name := cstring(ifr.name[:])
	d, err := NewFromSubsystemSysname(ctx, "net", name)
	if err != nil {
		return nil, err
	}
	if d.Ifindex != 0 && d.Ifindex != ifindex {
		return nil, New(KindDevice, "ifindex %d was reused by %q before lookup completed", ifindex, name)
	}
	return d, nil
}

// ifreqIndex mirrors struct ifreq's name/ifindex union member as used
// by SIOCGIFNAME: the caller fills index and the kernel fills name.
type ifreqIndex struct {
	name  [unix.IFNAMSIZ]byte
	index int32
}

func cstring(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

func ioctl(fd int, req uint, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(req), uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}
