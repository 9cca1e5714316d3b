package netlink

import (
	"math/bits"

	"golang.org/x/net/bpf"

	"github.com/udevgo/udevgo/internal/control"
)

// Offsets of the fields a compiled filter program loads, all absolute
// 32-bit word offsets into a udev-group frame (see frame.go). Classic
// BPF loads words big-endian, while every header field except the
// magic is little-endian on the wire, so the hash and bloom constants
// the program compares against are byte-swapped to match.
const (
	magicOff       = 8
	subsysHashOff  = 24
	devtypeHashOff = 28
	tagBloomHiOff  = 32
	tagBloomLoOff  = 36
)

// acceptSnaplen and dropSnaplen are the classic BPF return values: the
// number of bytes of the packet the kernel keeps. ACCEPT keeps the
// whole packet; DROP keeps none.
const (
	acceptSnaplen = 0xffffffff
	dropSnaplen   = 0
)

// SubsystemFilter is one subscriber subsystem(+devtype) filter entry.
// An empty Devtype matches any devtype.
type SubsystemFilter struct {
	Subsystem string
	Devtype   string
}

// BuildFilter compiles a subscriber's tag and subsystem filter lists
// into a classic BPF program: frames that don't carry the udev-group
// magic pass through unfiltered (they are not this monitor's
// concern); an empty tags list skips the tag block entirely; an empty
// subsystems list skips the subsystem block entirely; a program with
// no filters at all accepts everything.
func BuildFilter(tags []string, subsystems []SubsystemFilter) []bpf.Instruction {
	var prog []bpf.Instruction

	prog = append(prog,
		bpf.LoadAbsolute{Off: magicOff, Size: 4},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: Magic, SkipTrue: 1},
		bpf.RetConstant{Val: acceptSnaplen},
	)

	if len(tags) > 0 {
		prog = append(prog, tagBlock(tags)...)
	}
	if len(subsystems) > 0 {
		prog = append(prog, subsystemBlock(subsystems)...)
	}

	prog = append(prog, bpf.RetConstant{Val: acceptSnaplen})
	return prog
}

// tagBlock builds the "at least one tag filter matches" check. Each
// tag costs six instructions; a match jumps past the trailing DROP
// into whatever follows (the subsystem block, or the final accept).
// No match at all falls through to the trailing DROP.
func tagBlock(tags []string) []bpf.Instruction {
	var prog []bpf.Instruction
	for i, t := range tags {
		hi, lo := control.TagBloomHiLo(control.TagBloom(t))
		hi, lo = bits.ReverseBytes32(hi), bits.ReverseBytes32(lo)
		remaining := len(tags) - 1 - i

		prog = append(prog,
			bpf.LoadAbsolute{Off: tagBloomHiOff, Size: 4},
			bpf.ALUOpConstant{Op: bpf.ALUOpAnd, Val: hi},
			bpf.JumpIf{Cond: bpf.JumpNotEqual, Val: hi, SkipTrue: 3},
			bpf.LoadAbsolute{Off: tagBloomLoOff, Size: 4},
			bpf.ALUOpConstant{Op: bpf.ALUOpAnd, Val: lo},
			bpf.JumpIf{Cond: bpf.JumpEqual, Val: lo, SkipTrue: uint8(remaining*6 + 1)},
		)
	}
	prog = append(prog, bpf.RetConstant{Val: dropSnaplen})
	return prog
}

// subsystemBlock builds the subsystem(+devtype) match list. A
// subsystem-only entry costs three instructions; one with a devtype
// requirement costs five. Any match returns ACCEPT immediately; a
// subsystem hash mismatch or devtype hash mismatch falls through to
// the next entry. Exhausting every entry without a match returns DROP.
func subsystemBlock(filters []SubsystemFilter) []bpf.Instruction {
	var prog []bpf.Instruction
	for _, f := range filters {
		subsysHash := bits.ReverseBytes32(control.Murmur2([]byte(f.Subsystem), 0))

		if f.Devtype == "" {
			prog = append(prog,
				bpf.LoadAbsolute{Off: subsysHashOff, Size: 4},
				bpf.JumpIf{Cond: bpf.JumpNotEqual, Val: subsysHash, SkipTrue: 1},
				bpf.RetConstant{Val: acceptSnaplen},
			)
			continue
		}

		devtypeHash := bits.ReverseBytes32(control.Murmur2([]byte(f.Devtype), 0))
		prog = append(prog,
			bpf.LoadAbsolute{Off: subsysHashOff, Size: 4},
			bpf.JumpIf{Cond: bpf.JumpNotEqual, Val: subsysHash, SkipTrue: 3},
			bpf.LoadAbsolute{Off: devtypeHashOff, Size: 4},
			bpf.JumpIf{Cond: bpf.JumpEqual, Val: devtypeHash, SkipFalse: 1},
			bpf.RetConstant{Val: acceptSnaplen},
		)
	}
	prog = append(prog, bpf.RetConstant{Val: dropSnaplen})
	return prog
}

// Assemble compiles prog into raw classic BPF instructions suitable
// for SO_ATTACH_FILTER. An empty prog (filter_remove) assembles to an
// empty RawInstruction slice, which callers attach as a zero-length
// filter program.
func Assemble(prog []bpf.Instruction) ([]bpf.RawInstruction, error) {
	if len(prog) == 0 {
		return nil, nil
	}
	raw, err := bpf.Assemble(prog)
	if err != nil {
		return nil, newErr(KindFilter, "assembling %d-instruction program: %v", len(prog), err)
	}
	return raw, nil
}
