package frame

import "github.com/v5kit/v5serial/pkg/wire"

// EncodeSimpleCommand builds a Simple (CDC) command frame: magic(4) |
// opcode(1) | [varu16 payload_size | payload...]. The size field and
// payload are present only when payload is non-empty.
func EncodeSimpleCommand(opcode byte, payload []byte) ([]byte, error) {
	size := 4 + 1
	var varlen wire.VarU16
	if len(payload) > 0 {
		var err error
		varlen, err = wire.NewVarU16(uint16(len(payload)))
		if err != nil {
			return nil, err
		}
		size += varlen.EncodedLen() + len(payload)
	}
	buf := make([]byte, 0, size)
	buf = append(buf, DeviceBoundHeader[:]...)
	buf = append(buf, opcode)
	if len(payload) > 0 {
		buf = varlen.Encode(buf)
		buf = append(buf, payload...)
	}
	return buf, nil
}

// RecognizeSimpleReply reports whether data begins with a Simple reply
// header carrying the given primary opcode. It is cheap and non-consuming,
// matching the recognize() contract in spec.md §4.4/§9.
func RecognizeSimpleReply(data []byte, opcode byte) bool {
	if !HasHostBoundHeader(data) {
		return false
	}
	if len(data) < 3 {
		return false
	}
	return data[2] == opcode
}

// SimpleReply is the decoded shape of a Simple (CDC) reply frame: magic(2)
// | opcode(1) | varu16 payload_size | payload.
type SimpleReply struct {
	Opcode  byte
	Payload []byte
}

// DecodeSimpleReply decodes a Simple reply from the front of data, returning
// the number of bytes consumed.
func DecodeSimpleReply(data []byte) (SimpleReply, int, error) {
	if len(data) < 2 {
		return SimpleReply{}, 0, wire.NewUnexpectedEnd()
	}
	if !HasHostBoundHeader(data) {
		return SimpleReply{}, 0, NewInvalidHeaderErr()
	}
	off := 2
	opcode, n, err := wire.DecodeUint8(data[off:])
	if err != nil {
		return SimpleReply{}, 0, err
	}
	off += n

	size, n, err := wire.DecodeVarU16(data[off:])
	if err != nil {
		return SimpleReply{}, 0, err
	}
	off += n

	payloadLen := int(size.Value())
	if len(data[off:]) < payloadLen {
		return SimpleReply{}, 0, wire.NewUnexpectedEnd()
	}
	payload := data[off : off+payloadLen]
	off += payloadLen

	return SimpleReply{Opcode: opcode, Payload: payload}, off, nil
}

// NewInvalidHeaderErr is exported so pkg/packets can construct the same
// error the frame layer returns on header mismatch.
func NewInvalidHeaderErr() error { return wire.NewInvalidHeader() }
