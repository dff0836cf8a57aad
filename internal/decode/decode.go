// internal/decode/decode.go
package decode

import (
	"fmt"
	"math"
	"strings"
)

// Type identifies how a block of 16-bit registers is reassembled into
// one scalar. The set is closed: adding a representation means adding
// a variant here and a case in Decode, checked at compile time.
type Type int

const (
	Uint16 Type = iota
	Int16
	Uint32
	Int32
	Uint64
	Float32
	Bitfield
)

var typeNames = [...]string{
	Uint16:   "uint16",
	Int16:    "int16",
	Uint32:   "uint32",
	Int32:    "int32",
	Uint64:   "uint64",
	Float32:  "float32",
	Bitfield: "bitfield",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// ParseType maps a config string to a Type. The short vendor spellings
// (U16, S32, ...) are accepted as aliases.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "uint16", "u16":
		return Uint16, nil
	case "int16", "s16":
		return Int16, nil
	case "uint32", "u32":
		return Uint32, nil
	case "int32", "s32":
		return Int32, nil
	case "uint64", "u64":
		return Uint64, nil
	case "float32", "f32":
		return Float32, nil
	case "bitfield":
		return Bitfield, nil
	}
	return 0, fmt.Errorf("decode: unknown data type %q", s)
}

// RegisterCount is the exact number of 16-bit registers a value of
// this type occupies on the wire.
func (t Type) RegisterCount() int {
	switch t {
	case Uint16, Int16, Bitfield:
		return 1
	case Uint32, Int32, Float32:
		return 2
	case Uint64:
		return 4
	}
	return 0
}

// Error reports a register block whose length does not match what the
// declared type requires. It marks a configuration defect, not a
// transient fault: the same point will fail the same way every cycle
// until the config is fixed.
type Error struct {
	Type Type
	Want int
	Got  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("decode: %s requires %d register(s), got %d", e.Type, e.Want, e.Got)
}

// Decode reassembles regs into a scalar of type t and applies scale.
//
// Word order is fixed: the most significant register comes first.
// Byte order inside each register is the Modbus big-endian standard;
// by the time values arrive here as uint16 words that conversion has
// already happened at the transport.
//
// Bitfield values are returned as the raw register with no scaling.
func Decode(regs []uint16, t Type, scale float64) (float64, error) {
	if want := t.RegisterCount(); len(regs) != want {
		return 0, &Error{Type: t, Want: want, Got: len(regs)}
	}

	switch t {
	case Uint16:
		return float64(regs[0]) * scale, nil
	case Int16:
		return float64(int16(regs[0])) * scale, nil
	case Uint32:
		return float64(u32(regs)) * scale, nil
	case Int32:
		return float64(int32(u32(regs))) * scale, nil
	case Uint64:
		// Values beyond 2^53 lose precision in a float64. Raw registers
		// stay attached to the observation for exact replay.
		return float64(u64(regs)) * scale, nil
	case Float32:
		return float64(math.Float32frombits(u32(regs))) * scale, nil
	case Bitfield:
		return float64(regs[0]), nil
	}
	return 0, fmt.Errorf("decode: unhandled data type %v", t)
}

// Sentinel reports whether regs carry the device's "no data available"
// pattern for type t: the minimum for signed types, all ones for
// unsigned types. Inverters and meters answer reads with these instead
// of failing when a channel has nothing to report.
func Sentinel(regs []uint16, t Type) bool {
	if len(regs) != t.RegisterCount() {
		return false
	}
	switch t {
	case Uint16:
		return regs[0] == 0xFFFF
	case Int16:
		return regs[0] == 0x8000
	case Uint32:
		return u32(regs) == 0xFFFFFFFF
	case Int32:
		return u32(regs) == 0x80000000
	case Uint64:
		return u64(regs) == 0xFFFFFFFFFFFFFFFF
	}
	// Float32 and Bitfield have no integer sentinel convention.
	return false
}

func u32(regs []uint16) uint32 {
	return uint32(regs[0])<<16 | uint32(regs[1])
}

func u64(regs []uint16) uint64 {
	return uint64(regs[0])<<48 | uint64(regs[1])<<32 | uint64(regs[2])<<16 | uint64(regs[3])
}
