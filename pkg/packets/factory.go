package packets

import (
	"github.com/v5kit/v5serial/pkg/frame"
	"github.com/v5kit/v5serial/pkg/wire"
)

// Factory extended opcodes. The device ignores all of these unless the
// command's payload is prefixed with frame.FactoryEnableMagic.
const (
	ExtFactoryStatus  byte = 0xF1
	ExtFactoryEnable  byte = 0xF2
	ExtFactoryControl byte = 0xFF
)

// FactoryStatusCommand queries factory-mode diagnostic state. It is
// rejected with AckUninitializedTransfer unless FactoryEnableMagic
// prefixes the payload.
type FactoryStatusCommand struct{}

func (FactoryStatusCommand) Encode() ([]byte, error) {
	payload := append([]byte{}, frame.FactoryEnableMagic[:]...)
	return frame.EncodeExtendedCommand(PrimaryUserCDC, ExtFactoryStatus, payload)
}

func RecognizeFactoryStatusReply(data []byte) bool {
	return frame.RecognizeExtendedReply(data, PrimaryUserCDC, ExtFactoryStatus)
}

type FactoryStatusReply struct {
	Ack    Ack
	Status uint32
}

func DecodeFactoryStatusReply(data []byte) (FactoryStatusReply, int, error) {
	r, n, err := frame.DecodeExtendedReply(data)
	if err != nil {
		return FactoryStatusReply{}, 0, err
	}
	ack := Ack(r.Ack)
	if !ack.OK() || len(r.Payload) < 4 {
		return FactoryStatusReply{Ack: ack}, n, nil
	}
	status, _, err := wire.DecodeUint32(r.Payload)
	if err != nil {
		return FactoryStatusReply{}, 0, err
	}
	return FactoryStatusReply{Ack: ack, Status: status}, n, nil
}

// FactoryControlCommand issues a raw factory-mode subcommand. opcode and
// args are opaque to this layer; spec.md §9 notes the original source
// documents only the forms exercised by its own tests, so the remaining
// factory surface is modeled as an escape hatch rather than individually
// typed commands.
type FactoryControlCommand struct {
	Opcode byte
	Args   []byte
}

func (c FactoryControlCommand) Encode() ([]byte, error) {
	payload := append([]byte{}, frame.FactoryEnableMagic[:]...)
	payload = append(payload, c.Opcode)
	payload = append(payload, c.Args...)
	return frame.EncodeExtendedCommand(PrimaryUserCDC, ExtFactoryControl, payload)
}

func RecognizeFactoryControlReply(data []byte) bool {
	return frame.RecognizeExtendedReply(data, PrimaryUserCDC, ExtFactoryControl)
}

func DecodeFactoryControlReply(data []byte) (Ack, int, error) {
	r, n, err := frame.DecodeExtendedReply(data)
	if err != nil {
		return 0, 0, err
	}
	return Ack(r.Ack), n, nil
}
