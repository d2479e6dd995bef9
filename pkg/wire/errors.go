// Package wire implements the codec primitives shared by every packet in
// the catalog: little-endian integers, the VarU16 variable-width length
// field, fixed-capacity NUL-terminated strings, the two CRC algorithms, the
// four-field firmware version tuple, and J2000 timestamps.
package wire

import "fmt"

// DecodeError is returned by every Decode function in this module and in
// pkg/frame and pkg/packets. It distinguishes the ways a byte stream can
// fail to parse from transport errors and protocol NACKs.
type DecodeError struct {
	Kind     DecodeErrorKind
	Name     string
	Value    int64
	Expected int64
}

// DecodeErrorKind enumerates the taxonomy from spec.md §7.2.
type DecodeErrorKind int

const (
	ErrUnexpectedEnd DecodeErrorKind = iota
	ErrInvalidHeader
	ErrUnexpectedByte
	ErrChecksum
	ErrUnterminatedString
	ErrUTF8
)

func (e *DecodeError) Error() string {
	switch e.Kind {
	case ErrUnexpectedEnd:
		return "wire: unexpected end of data"
	case ErrInvalidHeader:
		return "wire: invalid header"
	case ErrUnexpectedByte:
		return fmt.Sprintf("wire: unexpected value for %s: got %#x, expected %#x", e.Name, e.Value, e.Expected)
	case ErrChecksum:
		return fmt.Sprintf("wire: checksum mismatch: got %#x, expected %#x", e.Value, e.Expected)
	case ErrUnterminatedString:
		return "wire: string is not NUL-terminated"
	case ErrUTF8:
		return "wire: invalid UTF-8"
	default:
		return "wire: decode error"
	}
}

// NewUnexpectedEnd reports that the byte stream was exhausted mid-decode.
func NewUnexpectedEnd() error { return &DecodeError{Kind: ErrUnexpectedEnd} }

// NewInvalidHeader reports a frame whose magic/opcode fingerprint didn't match.
func NewInvalidHeader() error { return &DecodeError{Kind: ErrInvalidHeader} }

// NewUnexpectedByte reports a field whose decoded value is outside its closed set.
func NewUnexpectedByte(name string, value, expected int64) error {
	return &DecodeError{Kind: ErrUnexpectedByte, Name: name, Value: value, Expected: expected}
}

// NewChecksum reports a CRC mismatch.
func NewChecksum(value, expected int64) error {
	return &DecodeError{Kind: ErrChecksum, Value: value, Expected: expected}
}

// NewUnterminatedString reports a FixedString with no NUL before the buffer exhausts.
func NewUnterminatedString() error { return &DecodeError{Kind: ErrUnterminatedString} }

// NewUTF8Error reports a FixedString whose bytes aren't valid UTF-8.
func NewUTF8Error() error { return &DecodeError{Kind: ErrUTF8} }

// IsDecodeError reports whether err is a *DecodeError of the given kind.
func IsDecodeError(err error, kind DecodeErrorKind) bool {
	de, ok := err.(*DecodeError)
	return ok && de.Kind == kind
}
