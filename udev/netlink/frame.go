package netlink

import (
	"bytes"
	"encoding/binary"
)

// Magic is the fixed magic value stamped into every udev-group frame,
// big-endian on the wire regardless of host byte order.
const Magic uint32 = 0xfeedcafe

// HeaderSize is the fixed size of the udev-group frame header.
const HeaderSize = 40

// Prefix is the 8-byte literal every udev-group frame begins with.
var Prefix = [8]byte{'l', 'i', 'b', 'u', 'd', 'e', 'v', 0}

// Header is the udev-group frame's fixed 40-byte header.
type Header struct {
	Magic         uint32
	HeaderSize    uint32
	PropertiesOff uint32
	PropertiesLen uint32
	SubsystemHash uint32
	DevtypeHash   uint32
	TagBloomHi    uint32
	TagBloomLo    uint32
}

// EncodeHeader renders h into a HeaderSize-byte frame header. Every
// field is little-endian except Magic, which goes out big-endian per
// the wire format.
func EncodeHeader(h Header) []byte {
	buf := make([]byte, HeaderSize)
	copy(buf[0:8], Prefix[:])
	binary.BigEndian.PutUint32(buf[8:12], h.Magic)
	binary.LittleEndian.PutUint32(buf[12:16], h.HeaderSize)
	binary.LittleEndian.PutUint32(buf[16:20], h.PropertiesOff)
	binary.LittleEndian.PutUint32(buf[20:24], h.PropertiesLen)
	binary.LittleEndian.PutUint32(buf[24:28], h.SubsystemHash)
	binary.LittleEndian.PutUint32(buf[28:32], h.DevtypeHash)
	binary.LittleEndian.PutUint32(buf[32:36], h.TagBloomHi)
	binary.LittleEndian.PutUint32(buf[36:40], h.TagBloomLo)
	return buf
}

// DecodeHeader parses a udev-group frame header from the start of buf.
// It does not check the Prefix literal or Magic value — callers that
// need to distinguish a udev-group frame from a legacy kernel frame
// should do that first with HasLibudevPrefix.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, newErr(KindInvalidLength, "frame of %d bytes is shorter than the %d-byte header", len(buf), HeaderSize)
	}
	return Header{
		Magic:         binary.BigEndian.Uint32(buf[8:12]),
		HeaderSize:    binary.LittleEndian.Uint32(buf[12:16]),
		PropertiesOff: binary.LittleEndian.Uint32(buf[16:20]),
		PropertiesLen: binary.LittleEndian.Uint32(buf[20:24]),
		SubsystemHash: binary.LittleEndian.Uint32(buf[24:28]),
		DevtypeHash:   binary.LittleEndian.Uint32(buf[28:32]),
		TagBloomHi:    binary.LittleEndian.Uint32(buf[32:36]),
		TagBloomLo:    binary.LittleEndian.Uint32(buf[36:40]),
	}, nil
}

// HasLibudevPrefix reports whether buf begins with the 8-byte
// "libudev\0" literal that marks a udev-group frame, as opposed to a
// legacy kernel-group frame.
func HasLibudevPrefix(buf []byte) bool {
	return len(buf) >= 8 && bytes.Equal(buf[:8], Prefix[:])
}

// EncodeFrame builds a complete udev-group frame: the 40-byte header
// (with PropertiesOff/PropertiesLen filled in automatically) followed
// by the NUL-separated property block.
func EncodeFrame(subsystemHash, devtypeHash uint32, tagBloomHi, tagBloomLo uint32, properties []byte) []byte {
	h := Header{
		Magic:         Magic,
		HeaderSize:    HeaderSize,
		PropertiesOff: HeaderSize,
		PropertiesLen: uint32(len(properties)),
		SubsystemHash: subsystemHash,
		DevtypeHash:   devtypeHash,
		TagBloomHi:    tagBloomHi,
		TagBloomLo:    tagBloomLo,
	}
	buf := EncodeHeader(h)
	return append(buf, properties...)
}

// DecodeFrame validates and splits a udev-group frame into its header
// and property block.
func DecodeFrame(buf []byte) (Header, []byte, error) {
	if !HasLibudevPrefix(buf) {
		return Header{}, nil, newErr(KindMagic, "frame does not begin with the libudev prefix")
	}
	h, err := DecodeHeader(buf)
	if err != nil {
		return Header{}, nil, err
	}
	if h.Magic != Magic {
		return Header{}, nil, newErr(KindMagic, "frame magic %#x does not match %#x", h.Magic, Magic)
	}
	end := uint64(h.PropertiesOff) + uint64(h.PropertiesLen)
	if end > uint64(len(buf)) {
		return Header{}, nil, newErr(KindInvalidLength, "properties block [%d:%d] exceeds frame of %d bytes", h.PropertiesOff, end, len(buf))
	}
	return h, buf[h.PropertiesOff:end], nil
}

// kernelFramePrefix is the literal two bytes every legacy kernel-group
// frame must begin with.
var kernelFramePrefix = [2]byte{'@', '/'}

// DecodeKernelFrame splits a legacy kernel-group frame into its
// NUL-separated property block. The frame must begin with the literal
// "@/" marker; everything from the first NUL onward is the property
// block, and ACTION/DEVPATH are recovered from the ACTION= and
// DEVPATH= properties within it rather than from the leading bytes.
func DecodeKernelFrame(buf []byte) (properties []byte, err error) {
	if len(buf) < 2 || buf[0] != kernelFramePrefix[0] || buf[1] != kernelFramePrefix[1] {
		return nil, newErr(KindMagic, "kernel frame does not begin with the '@/' marker")
	}
	nul := bytes.IndexByte(buf, 0)
	if nul < 0 {
		return nil, newErr(KindInvalidLength, "kernel frame has no NUL terminator before the property block")
	}
	return buf[nul+1:], nil
}

// SplitProperties splits a NUL-separated property block into
// "KEY=VALUE" lines, dropping any trailing empty segment produced by a
// final terminating NUL.
func SplitProperties(block []byte) []string {
	parts := bytes.Split(block, []byte{0})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if len(p) == 0 {
			continue
		}
		out = append(out, string(p))
	}
	return out
}

// JoinProperties renders KEY=VALUE lines into a NUL-separated property
// block suitable for EncodeFrame.
func JoinProperties(lines []string) []byte {
	var buf bytes.Buffer
	for _, l := range lines {
		buf.WriteString(l)
		buf.WriteByte(0)
	}
	return buf.Bytes()
}
