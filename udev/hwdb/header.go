// Package hwdb reads the compiled binary hardware database (hwdb.bin):
// a modalias-keyed trie mapping glob patterns to property key/value
// pairs. It only reads the on-disk image; building or recompiling one
// is out of scope.
package hwdb

import (
	"encoding/binary"
	"fmt"
)

// Signature is the 8-byte magic every hwdb.bin file begins with.
const Signature = "KSLPHHRH"

// HeaderSize is the fixed on-disk size of Header: an 8-byte signature
// followed by nine little-endian u64 fields.
const HeaderSize = 8 + 9*8

// minNodeSize, minChildEntrySize, and minValueEntrySize are the
// smallest declared sizes this reader can decode from; a header
// declaring anything smaller cannot carry the fields this reader
// knows how to find.
const (
	minNodeSize       = 24 // prefix_off:u64 + children_count:u8 + 7 pad + values_count:u64
	minChildEntrySize = 16 // c:u8 + 7 pad + child_off:u64
	minValueEntrySize = 16 // key_off:u64 + value_off:u64
	maxValuesPerNode  = 64
)

// Header is the first HeaderSize bytes of an hwdb.bin file.
type Header struct {
	ToolVersion    uint64
	FileSize       uint64
	HeaderSize     uint64
	NodeSize       uint64
	ChildEntrySize uint64
	ValueEntrySize uint64
	NodesRootOff   uint64
	NodesLen       uint64
	StringsLen     uint64
}

// ParseHeader decodes and validates the header at the start of buf.
func ParseHeader(buf []byte) (*Header, error) {
	if len(buf) < HeaderSize {
		return nil, &Error{Kind: KindInvalidLength, Msg: fmt.Sprintf("buffer of %d bytes is shorter than the %d-byte header", len(buf), HeaderSize)}
	}
	if string(buf[:8]) != Signature {
		return nil, &Error{Kind: KindHeader, Msg: fmt.Sprintf("bad signature %q, want %q", buf[:8], Signature)}
	}

	u64 := func(off int) uint64 { return binary.LittleEndian.Uint64(buf[off : off+8]) }

	h := &Header{
		ToolVersion:    u64(8),
		FileSize:       u64(16),
		HeaderSize:     u64(24),
		NodeSize:       u64(32),
		ChildEntrySize: u64(40),
		ValueEntrySize: u64(48),
		NodesRootOff:   u64(56),
		NodesLen:       u64(64),
		StringsLen:     u64(72),
	}

	if h.NodeSize < minNodeSize {
		return nil, &Error{Kind: KindHeader, Msg: fmt.Sprintf("declared node size %d is smaller than the minimum %d", h.NodeSize, minNodeSize)}
	}
	if h.ChildEntrySize < minChildEntrySize {
		return nil, &Error{Kind: KindHeader, Msg: fmt.Sprintf("declared child entry size %d is smaller than the minimum %d", h.ChildEntrySize, minChildEntrySize)}
	}
	if h.ValueEntrySize < minValueEntrySize {
		return nil, &Error{Kind: KindHeader, Msg: fmt.Sprintf("declared value entry size %d is smaller than the minimum %d", h.ValueEntrySize, minValueEntrySize)}
	}
	if uint64(len(buf)) < h.FileSize {
		return nil, &Error{Kind: KindHeader, Msg: fmt.Sprintf("buffer of %d bytes is shorter than the declared file size %d", len(buf), h.FileSize)}
	}
	return h, nil
}
