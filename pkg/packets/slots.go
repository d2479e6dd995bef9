package packets

import (
	"github.com/v5kit/v5serial/pkg/frame"
	"github.com/v5kit/v5serial/pkg/wire"
)

// Slot is one program slot entry returned by CatalogSlotInfo.
type Slot struct {
	Occupied bool
	Type     uint8
	Icon     uint8
	NameLen  uint8
	Name     string
}

const slotEntryLen = 1 + 1 + 1 + 1 + 24

func decodeSlot(data []byte) (Slot, int, error) {
	if len(data) < slotEntryLen {
		return Slot{}, 0, wire.NewUnexpectedEnd()
	}
	occupied := data[0] != 0
	typ := data[1]
	icon := data[2]
	nameLen := data[3]
	fs, n, err := wire.DecodeFixedString(data[4:], 23)
	if err != nil {
		return Slot{}, 0, err
	}
	return Slot{Occupied: occupied, Type: typ, Icon: icon, NameLen: nameLen, Name: fs.String()}, 4 + n, nil
}

// GetSlot1To4InfoCommand fetches the first four program-catalog slots.
type GetSlot1To4InfoCommand struct{}

func (GetSlot1To4InfoCommand) Encode() ([]byte, error) {
	return frame.EncodeExtendedCommand(PrimaryUserCDC, ExtCatalogSlot1To4, nil)
}

func RecognizeGetSlot1To4InfoReply(data []byte) bool {
	return frame.RecognizeExtendedReply(data, PrimaryUserCDC, ExtCatalogSlot1To4)
}

// GetSlot5To8InfoCommand fetches program-catalog slots five through eight.
type GetSlot5To8InfoCommand struct{}

func (GetSlot5To8InfoCommand) Encode() ([]byte, error) {
	return frame.EncodeExtendedCommand(PrimaryUserCDC, ExtCatalogSlot5To8, nil)
}

func RecognizeGetSlot5To8InfoReply(data []byte) bool {
	return frame.RecognizeExtendedReply(data, PrimaryUserCDC, ExtCatalogSlot5To8)
}

// SlotInfoReply is the shared decode shape for both slot-range commands:
// an ack followed by up to four fixed-width Slot entries.
type SlotInfoReply struct {
	Ack   Ack
	Slots []Slot
}

func decodeSlotInfoReply(data []byte) (SlotInfoReply, int, error) {
	r, n, err := frame.DecodeExtendedReply(data)
	if err != nil {
		return SlotInfoReply{}, 0, err
	}
	ack := Ack(r.Ack)
	if !ack.OK() {
		return SlotInfoReply{Ack: ack}, n, nil
	}
	var slots []Slot
	off := 0
	for off+slotEntryLen <= len(r.Payload) && len(slots) < 4 {
		s, m, err := decodeSlot(r.Payload[off:])
		if err != nil {
			return SlotInfoReply{}, 0, err
		}
		slots = append(slots, s)
		off += m
	}
	return SlotInfoReply{Ack: ack, Slots: slots}, n, nil
}

func DecodeGetSlot1To4InfoReply(data []byte) (SlotInfoReply, int, error) { return decodeSlotInfoReply(data) }
func DecodeGetSlot5To8InfoReply(data []byte) (SlotInfoReply, int, error) { return decodeSlotInfoReply(data) }
