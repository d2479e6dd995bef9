package wire

import "encoding/binary"

// All multi-byte integer fields in the V5 protocol are little-endian,
// except CRC trailers (big-endian, see crc.go) and the touch-version field
// inside SystemStatus (byte-reversed, see packets.DecodeGetSystemStatusReply).

// PutUint16 encodes v little-endian and appends it to dst.
func PutUint16(dst []byte, v uint16) []byte {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	return append(dst, buf[:]...)
}

// PutUint32 encodes v little-endian and appends it to dst.
func PutUint32(dst []byte, v uint32) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return append(dst, buf[:]...)
}

// PutInt32 encodes v little-endian and appends it to dst.
func PutInt32(dst []byte, v int32) []byte {
	return PutUint32(dst, uint32(v))
}

// DecodeUint16 reads a little-endian uint16 from the front of data.
func DecodeUint16(data []byte) (uint16, int, error) {
	if len(data) < 2 {
		return 0, 0, NewUnexpectedEnd()
	}
	return binary.LittleEndian.Uint16(data), 2, nil
}

// DecodeUint32 reads a little-endian uint32 from the front of data.
func DecodeUint32(data []byte) (uint32, int, error) {
	if len(data) < 4 {
		return 0, 0, NewUnexpectedEnd()
	}
	return binary.LittleEndian.Uint32(data), 4, nil
}

// DecodeInt32 reads a little-endian int32 from the front of data.
func DecodeInt32(data []byte) (int32, int, error) {
	v, n, err := DecodeUint32(data)
	return int32(v), n, err
}

// DecodeUint8 reads a single byte from the front of data.
func DecodeUint8(data []byte) (uint8, int, error) {
	if len(data) < 1 {
		return 0, 0, NewUnexpectedEnd()
	}
	return data[0], 1, nil
}

// DecodeInt8 reads a signed byte from the front of data.
func DecodeInt8(data []byte) (int8, int, error) {
	v, n, err := DecodeUint8(data)
	return int8(v), n, err
}

// DecodeInt16 reads a little-endian int16 from the front of data.
func DecodeInt16(data []byte) (int16, int, error) {
	v, n, err := DecodeUint16(data)
	return int16(v), n, err
}

// DecodeUint16BE reads a big-endian uint16 from the front of data. CRC
// trailers are the only big-endian 16-bit field in the protocol.
func DecodeUint16BE(data []byte) (uint16, int, error) {
	if len(data) < 2 {
		return 0, 0, NewUnexpectedEnd()
	}
	return binary.BigEndian.Uint16(data), 2, nil
}

// PutUint16BE appends v big-endian to dst.
func PutUint16BE(dst []byte, v uint16) []byte {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	return append(dst, buf[:]...)
}

// DecodeUint32BE reads a big-endian uint32 from the front of data.
// FileTransferInitReply's file_crc field is the only place this protocol
// carries a big-endian 32-bit value outside a CRC trailer.
func DecodeUint32BE(data []byte) (uint32, int, error) {
	if len(data) < 4 {
		return 0, 0, NewUnexpectedEnd()
	}
	return binary.BigEndian.Uint32(data), 4, nil
}

// PutUint32BE appends v big-endian to dst.
func PutUint32BE(dst []byte, v uint32) []byte {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	return append(dst, buf[:]...)
}
