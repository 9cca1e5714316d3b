// Package hwdbtest builds small, valid in-memory hwdb.bin images for
// testing code that reads them. It emits a "degenerate" trie — one
// byte of pattern per node — which is a valid specialization of the
// on-disk format and far simpler to construct than a
// prefix-compressed one; it exercises the same header/node/child/
// value decoding and glob-matching logic as a real hwdb.bin.
package hwdbtest

import (
	"encoding/binary"
	"sort"
)

// Property is one key/value pair to attach to a pattern.
type Property struct {
	Key   string
	Value string
}

// trieNode is the builder's in-memory representation of one node,
// before it is laid out into the binary image.
type trieNode struct {
	children map[byte]*trieNode
	values   []Property
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[byte]*trieNode)}
}

// Builder accumulates (pattern, properties) entries and renders them
// into a binary hwdb image with Bytes.
type Builder struct {
	root *trieNode
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{root: newTrieNode()}
}

// Add inserts pattern (a literal string, or one containing '*', '?',
// or '[...]' glob metacharacters matched at query time) with the
// given properties. Each property key is stored with the leading
// space Query requires.
func (b *Builder) Add(pattern string, props ...Property) *Builder {
	n := b.root
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		child, ok := n.children[c]
		if !ok {
			child = newTrieNode()
			n.children[c] = child
		}
		n = child
	}
	n.values = append(n.values, props...)
	return b
}

// stringTable interns strings (each terminated with NUL in the
// backing buffer) and returns their absolute file offset.
type stringTable struct {
	buf    []byte
	offset map[string]uint64
}

func newStringTable() *stringTable {
	// The table is placed after the nodes section (a nonzero file
	// offset), so no intern()'d string ever lands at absolute offset
	// 0 — the sentinel Query's trieString reserves for "no prefix".
	return &stringTable{buf: nil, offset: make(map[string]uint64)}
}

func (s *stringTable) intern(str string) uint64 {
	if off, ok := s.offset[str]; ok {
		return off
	}
	off := uint64(len(s.buf))
	s.buf = append(s.buf, []byte(str)...)
	s.buf = append(s.buf, 0)
	s.offset[str] = off
	return off
}

const (
	nodeSize       = 24
	childEntrySize = 16
	valueEntrySize = 16
	headerSize     = 80
)

// Bytes renders the accumulated entries into a complete hwdb.bin image.
func (b *Builder) Bytes() []byte {
	// Strings live after the nodes section; their offsets are only
	// known once every node's size is fixed, so node layout happens
	// first (children lists are fixed up with absolute offsets in a
	// second pass) and only the prefix/key/value *text* is deferred to
	// the strings table.
	type plannedNode struct {
		node     *trieNode
		edgeByte byte // the byte labeling the edge INTO this node from its parent; 0 for root
		offset   uint64
		children []*plannedNode
	}

	var planned []*plannedNode
	var order func(n *trieNode, edge byte) *plannedNode
	order = func(n *trieNode, edge byte) *plannedNode {
		p := &plannedNode{node: n, edgeByte: edge}
		planned = append(planned, p)
		keys := make([]byte, 0, len(n.children))
		for c := range n.children {
			keys = append(keys, c)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
		for _, c := range keys {
			p.children = append(p.children, order(n.children[c], c))
		}
		return p
	}
	root := order(b.root, 0)

	offset := uint64(headerSize)
	for _, p := range planned {
		p.offset = offset
		offset += nodeSize
		offset += uint64(len(p.children)) * childEntrySize
		offset += uint64(len(p.node.values)) * valueEntrySize
	}
	nodesLen := offset - headerSize

	strs := newStringTable()
	nodesBuf := make([]byte, nodesLen)
	putU64 := func(off uint64, v uint64) { binary.LittleEndian.PutUint64(nodesBuf[off-headerSize:], v) }

	for _, p := range planned {
		rel := p.offset - headerSize
		prefixOff := uint64(0)
		// Degenerate trie: the node itself carries no prefix text of
		// its own beyond the single edge byte its parent already
		// recorded as a child label, so prefix_off stays 0 ("no
		// prefix") for every node; the edge byte IS the one-character
		// prefix conceptually, represented via the child entry's `c`
		// field instead.
		putU64(p.offset, prefixOff)
		nodesBuf[rel+8] = byte(len(p.children))
		putU64(p.offset+16, uint64(len(p.node.values)))

		childCursor := p.offset + nodeSize
		for _, child := range p.children {
			crel := childCursor - headerSize
			nodesBuf[crel] = child.edgeByte
			binary.LittleEndian.PutUint64(nodesBuf[crel+8:], child.offset)
			childCursor += childEntrySize
		}

		valueCursor := childCursor
		for _, v := range p.node.values {
			vrel := valueCursor - headerSize
			keyOff := strs.intern(" " + v.Key)
			valOff := strs.intern(v.Value)
			binary.LittleEndian.PutUint64(nodesBuf[vrel:], keyOff)
			binary.LittleEndian.PutUint64(nodesBuf[vrel+8:], valOff)
			valueCursor += valueEntrySize
		}
	}

	stringsBase := headerSize + nodesLen
	// String offsets were computed relative to the strings table's own
	// start (0-based); translate them to absolute file offsets now.
	for _, p := range planned {
		valueCursor := p.offset + nodeSize + uint64(len(p.children))*childEntrySize
		for range p.node.values {
			vrel := valueCursor - headerSize
			keyOff := binary.LittleEndian.Uint64(nodesBuf[vrel:])
			valOff := binary.LittleEndian.Uint64(nodesBuf[vrel+8:])
			binary.LittleEndian.PutUint64(nodesBuf[vrel:], keyOff+stringsBase)
			binary.LittleEndian.PutUint64(nodesBuf[vrel+8:], valOff+stringsBase)
			valueCursor += valueEntrySize
		}
	}

	fileSize := stringsBase + uint64(len(strs.buf))
	out := make([]byte, fileSize)
	copy(out[0:8], "KSLPHHRH")
	putHeaderU64 := func(off int, v uint64) { binary.LittleEndian.PutUint64(out[off:], v) }
	putHeaderU64(8, 1)                       // tool version
	putHeaderU64(16, fileSize)               // file size
	putHeaderU64(24, headerSize)             // header size
	putHeaderU64(32, nodeSize)               // node size
	putHeaderU64(40, childEntrySize)         // child entry size
	putHeaderU64(48, valueEntrySize)         // value entry size
	putHeaderU64(56, root.offset)            // nodes root offset
	putHeaderU64(64, nodesLen)               // nodes length
	putHeaderU64(72, uint64(len(strs.buf))) // strings length

	copy(out[headerSize:], nodesBuf)
	copy(out[stringsBase:], strs.buf)
	return out
}
