package wire

import "unicode/utf8"

// NewFixedString builds a FixedString with capacity n. The content fills at
// most n bytes; Encode appends a NUL terminator after it, so byte_length(s)
// must be no greater than n.
func NewFixedString(n int, s string) (fixedString, error) {
	if len(s) > n {
		return fixedString{}, NewUnexpectedByte("FixedString.len", int64(len(s)), int64(n))
	}
	return fixedString{s: s, n: n}, nil
}

// fixedString is the concrete, runtime-sized representation backing every
// FixedString<N> in the packet catalog (Go generics can't parameterize on a
// runtime capacity from wire bytes the way Rust const generics can, so the
// capacity travels alongside the value instead of in the type).
type fixedString struct {
	s string
	n int
}

// String returns the decoded value.
func (f fixedString) String() string { return f.s }

// Cap returns N, the fixed buffer capacity (excluding the NUL terminator).
func (f fixedString) Cap() int { return f.n }

// EncodedLen returns N+1, the number of bytes Encode produces: N content/pad
// bytes followed by one trailing NUL terminator.
func (f fixedString) EncodedLen() int { return f.n + 1 }

// Encode appends the zero-padded content followed by a trailing NUL to dst.
func (f fixedString) Encode(dst []byte) []byte {
	start := len(dst)
	dst = append(dst, make([]byte, f.n+1)...)
	copy(dst[start:start+len(f.s)], f.s)
	return dst
}

// DecodeFixedString reads an (n+1)-byte buffer from the front of data and
// returns the NUL-terminated string it contains, validating that any bytes
// after the first NUL are themselves NUL and that the string is valid UTF-8.
func DecodeFixedString(data []byte, n int) (fixedString, int, error) {
	total := n + 1
	if len(data) < total {
		return fixedString{}, 0, NewUnexpectedEnd()
	}
	buf := data[:total]
	nul := -1
	for i, b := range buf {
		if b == 0 {
			nul = i
			break
		}
	}
	if nul < 0 {
		return fixedString{}, 0, NewUnterminatedString()
	}
	for _, b := range buf[nul:] {
		if b != 0 {
			return fixedString{}, 0, NewUnterminatedString()
		}
	}
	if !utf8.Valid(buf[:nul]) {
		return fixedString{}, 0, NewUTF8Error()
	}
	return fixedString{s: string(buf[:nul]), n: n}, total, nil
}

// FixedStringCap is the public constructor alias used by the packet catalog
// so callers don't need to reach into the unexported fixedString type name.
func FixedStringCap(n int, s string) (fixedString, error) { return NewFixedString(n, s) }

// EncodeRawFixedBytes appends s to dst as exactly n raw bytes, zero-padded,
// with no NUL terminator. This is the FileMetadata extension field's own
// encoding, distinct from the generic FixedString<N> (N+1 bytes, NUL
// terminated) used everywhere else in the catalog.
func EncodeRawFixedBytes(dst []byte, n int, s string) ([]byte, error) {
	if len(s) > n {
		return nil, NewUnexpectedByte("FixedBytes.len", int64(len(s)), int64(n))
	}
	start := len(dst)
	dst = append(dst, make([]byte, n)...)
	copy(dst[start:start+len(s)], s)
	return dst, nil
}

// DecodeRawFixedBytes reads n raw bytes from the front of data, trimming
// trailing zero padding, with no NUL-terminator validation.
func DecodeRawFixedBytes(data []byte, n int) (string, int, error) {
	if len(data) < n {
		return "", 0, NewUnexpectedEnd()
	}
	buf := data[:n]
	end := n
	for end > 0 && buf[end-1] == 0 {
		end--
	}
	return string(buf[:end]), n, nil
}
