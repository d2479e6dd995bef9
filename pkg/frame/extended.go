package frame

import "github.com/v5kit/v5serial/pkg/wire"

// EncodeExtendedCommand builds an Extended (CDC2) command frame:
// magic(4) | primary(1) | extended(1) | varu16 N | payload(N-2) | crc16_be.
// N counts the payload plus the trailing CRC. The CRC covers every byte
// from the first magic byte through the end of the payload.
func EncodeExtendedCommand(primary, extended byte, payload []byte) ([]byte, error) {
	n, err := wire.NewVarU16(uint16(len(payload) + 2))
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 0, 4+1+1+n.EncodedLen()+len(payload)+2)
	buf = append(buf, DeviceBoundHeader[:]...)
	buf = append(buf, primary, extended)
	buf = n.Encode(buf)
	buf = append(buf, payload...)
	crc := wire.CRC16(buf)
	buf = append(buf, byte(crc>>8), byte(crc))
	return buf, nil
}

// RecognizeExtendedReply reports whether data begins with a standard
// Extended reply header for the given primary/extended opcode pair.
func RecognizeExtendedReply(data []byte, primary, extended byte) bool {
	if !HasHostBoundHeader(data) || len(data) < 3 {
		return false
	}
	if data[2] != primary {
		return false
	}
	// skip the varu16 length field to reach the extended opcode byte.
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

// ExtendedReply is the decoded shape of a standard Extended reply frame:
// magic(2) | primary(1) | varu16 N | extended(1) | ack(1) | payload(N-4) | crc16_be.
type ExtendedReply struct {
	Primary  byte
	Extended byte
	Ack      byte
	Payload  []byte
	CRC      uint16
}

// DecodeExtendedReply decodes a standard Extended reply from the front of
// data, validating the trailing CRC, and returns the number of bytes
// consumed. The CRC is recomputed over every byte of the frame except the
// trailing two CRC bytes themselves.
func DecodeExtendedReply(data []byte) (ExtendedReply, int, error) {
	if len(data) < 2 || !HasHostBoundHeader(data) {
		if len(data) < 2 {
			return ExtendedReply{}, 0, wire.NewUnexpectedEnd()
		}
		return ExtendedReply{}, 0, NewInvalidHeaderErr()
	}
	off := 2

	primary, n, err := wire.DecodeUint8(data[off:])
	if err != nil {
		return ExtendedReply{}, 0, err
	}
	off += n

	size, n, err := wire.DecodeVarU16(data[off:])
	if err != nil {
		return ExtendedReply{}, 0, err
	}
	off += n

	extended, n, err := wire.DecodeUint8(data[off:])
	if err != nil {
		return ExtendedReply{}, 0, err
	}
	off += n

	ack, n, err := wire.DecodeUint8(data[off:])
	if err != nil {
		return ExtendedReply{}, 0, err
	}
	off += n

	payloadLen := int(size.Value()) - 4
	if payloadLen < 0 {
		return ExtendedReply{}, 0, wire.NewUnexpectedEnd()
	}
	if len(data[off:]) < payloadLen+2 {
		return ExtendedReply{}, 0, wire.NewUnexpectedEnd()
	}
	payload := data[off : off+payloadLen]
	off += payloadLen

	crcStart := off
	crc, n, err := wire.DecodeUint16BE(data[off:])
	if err != nil {
		return ExtendedReply{}, 0, err
	}
	off += n

	computed := wire.CRC16(data[:crcStart])
	if computed != crc {
		return ExtendedReply{}, 0, wire.NewChecksum(int64(crc), int64(computed))
	}

	return ExtendedReply{Primary: primary, Extended: extended, Ack: ack, Payload: payload, CRC: crc}, off, nil
}
