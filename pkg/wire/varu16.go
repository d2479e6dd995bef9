package wire

// VarU16 is a 15-bit unsigned integer encoded as one or two bytes. Values
// that fit in 7 bits encode as a single byte `0xxxxxxx`; larger values set
// the top bit of the first byte and encode big-endian across both bytes:
// `1aaaaaaa bbbbbbbb` -> (aaaaaaa<<8)|bbbbbbbb. Values above 0x7FFF cannot
// be represented and are rejected at construction.
type VarU16 struct {
	value uint16
}

// MaxVarU16 is the largest value representable by VarU16 (0x7FFF).
const MaxVarU16 = 0x7FFF

// NewVarU16 constructs a VarU16, rejecting values greater than MaxVarU16.
func NewVarU16(value uint16) (VarU16, error) {
	if value > MaxVarU16 {
		return VarU16{}, NewUnexpectedByte("VarU16", int64(value), MaxVarU16)
	}
	return VarU16{value: value}, nil
}

// Value returns the underlying integer.
func (v VarU16) Value() uint16 { return v.value }

// Wide reports whether this value encodes to two bytes on the wire.
func (v VarU16) Wide() bool { return v.value > 0x7F }

// EncodedLen returns 1 or 2, the number of bytes Encode will produce.
func (v VarU16) EncodedLen() int {
	if v.Wide() {
		return 2
	}
	return 1
}

// Encode appends the wire representation of v to dst and returns the result.
func (v VarU16) Encode(dst []byte) []byte {
	if v.Wide() {
		first := byte(v.value>>8) | 0x80
		last := byte(v.value)
		return append(dst, first, last)
	}
	return append(dst, byte(v.value))
}

// CheckWide reports whether the first byte of an encoded VarU16 signals a
// two-byte (wide) encoding, without consuming anything.
func CheckWide(first byte) bool { return first&0x80 != 0 }

// DecodeVarU16 reads a VarU16 from the front of data, returning the value
// and the number of bytes consumed.
func DecodeVarU16(data []byte) (VarU16, int, error) {
	if len(data) < 1 {
		return VarU16{}, 0, NewUnexpectedEnd()
	}
	first := data[0]
	if !CheckWide(first) {
		return VarU16{value: uint16(first)}, 1, nil
	}
	if len(data) < 2 {
		return VarU16{}, 0, NewUnexpectedEnd()
	}
	value := uint16(first&0x7F)<<8 | uint16(data[1])
	return VarU16{value: value}, 2, nil
}
