package frame

import "github.com/v5kit/v5serial/pkg/wire"

// FileReadReply is the decoded shape of the one packet spec.md §4.3 singles
// out for nonstandard framing: FileDataRead's reply reuses the Simple-reply
// header order (extended opcode placed where a Simple payload would start,
// rather than before the length field the way commands place it) and omits
// the Ack byte when it returns file data. A body of exactly one byte that
// matches isAckCode is read as an ack instead of data: a NACK, or 0x76 for
// a success that returned no bytes. Every other Extended reply shares
// DecodeExtendedReply's shape.
type FileReadReply struct {
	Primary  byte
	Extended byte
	// Ack is non-nil only when the body is a single byte matching
	// isAckCode; Payload is then empty.
	Ack     *byte
	Payload []byte
	CRC     uint16
}

// RecognizeFileReadReply is the cheap, non-consuming recognizer for this
// reply shape: Simple-reply header with the given primary opcode, whose
// payload begins with the given extended opcode.
func RecognizeFileReadReply(data []byte, primary, extended byte) bool {
	if !HasHostBoundHeader(data) || len(data) < 3 {
		return false
	}
	if data[2] != primary {
		return false
	}
	off := 3
	if off >= len(data) {
		return false
	}
	if wire.CheckWide(data[off]) {
		off++
	}
	off++
	if off >= len(data) {
		return false
	}
	return data[off] == extended
}

// DecodeFileReadReply decodes the hybrid FileDataRead reply framing and
// validates its trailing big-endian CRC-16, returning bytes consumed.
func DecodeFileReadReply(data []byte) (FileReadReply, int, error) {
	if len(data) < 2 || !HasHostBoundHeader(data) {
		if len(data) < 2 {
			return FileReadReply{}, 0, wire.NewUnexpectedEnd()
		}
		return FileReadReply{}, 0, NewInvalidHeaderErr()
	}
	off := 2

	primary, n, err := wire.DecodeUint8(data[off:])
	if err != nil {
		return FileReadReply{}, 0, err
	}
	off += n

	size, n, err := wire.DecodeVarU16(data[off:])
	if err != nil {
		return FileReadReply{}, 0, err
	}
	off += n

	extended, n, err := wire.DecodeUint8(data[off:])
	if err != nil {
		return FileReadReply{}, 0, err
	}
	off += n

	// N counts the extended opcode, the body, and the two CRC bytes.
	remaining := int(size.Value()) - 1 - 2
	if remaining < 0 {
		return FileReadReply{}, 0, wire.NewUnexpectedEnd()
	}
	if len(data[off:]) < remaining+2 {
		return FileReadReply{}, 0, wire.NewUnexpectedEnd()
	}

	var ack *byte
	var payload []byte
	if remaining == 1 && isAckCode(data[off]) {
		v := data[off]
		ack = &v
		off += 1
	} else {
		payload = data[off : off+remaining]
		off += remaining
	}

	crcStart := off
	crc, n, err := wire.DecodeUint16BE(data[off:])
	if err != nil {
		return FileReadReply{}, 0, err
	}
	off += n

	computed := wire.CRC16(data[:crcStart])
	if computed != crc {
		return FileReadReply{}, 0, wire.NewChecksum(int64(crc), int64(computed))
	}

	return FileReadReply{Primary: primary, Extended: extended, Ack: ack, Payload: payload, CRC: crc}, off, nil
}

// isAckCode reports whether b is one of the closed Ack/NACK codes from
// spec.md §3. Success (0x76) is included: a single trailing ack byte with
// no payload can also mean "success, zero bytes returned" at the final
// over-read boundary, which the file-transfer layer treats the same as any
// other zero-length chunk.
func isAckCode(b byte) bool {
	switch b {
	case 0x76, 0xA7, 0xFF, 0xCE, 0xD0, 0xD1, 0xD2, 0xD3, 0xD4, 0xD5, 0xD6, 0xD7, 0xD8, 0xD9, 0xDA, 0xDB, 0xDC, 0x00, 0x01:
		return true
	}
	return false
}
