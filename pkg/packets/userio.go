package packets

import (
	"github.com/v5kit/v5serial/pkg/frame"
	"github.com/v5kit/v5serial/pkg/wire"
)

// UserDataChannel selects the direction multiplexed through UserDataPacket
// when a transport has no dedicated second byte stream (spec.md §4.4).
type UserDataChannel uint8

const (
	UserDataChannelRead  UserDataChannel = 1
	UserDataChannelWrite UserDataChannel = 2
)

// maxUserDataChunk is the write-chunking boundary spec.md §4.4 names for
// multiplexed user I/O.
const maxUserDataChunk = 224

// UserDataPacketCommand carries up to maxUserDataChunk bytes of
// application traffic over the given channel.
type UserDataPacketCommand struct {
	Channel UserDataChannel
	Data    []byte
}

func (c UserDataPacketCommand) Encode() ([]byte, error) {
	payload := make([]byte, 0, 1+len(c.Data))
	payload = append(payload, byte(c.Channel))
	payload = append(payload, c.Data...)
	return frame.EncodeExtendedCommand(PrimaryUserCDC, ExtUserDataPacket, payload)
}

func RecognizeUserDataPacketReply(data []byte) bool {
	return frame.RecognizeExtendedReply(data, PrimaryUserCDC, ExtUserDataPacket)
}

type UserDataPacketReply struct {
	Ack     Ack
	Channel UserDataChannel
	Data    []byte
}

func DecodeUserDataPacketReply(data []byte) (UserDataPacketReply, int, error) {
	r, n, err := frame.DecodeExtendedReply(data)
	if err != nil {
		return UserDataPacketReply{}, 0, err
	}
	ack := Ack(r.Ack)
	if !ack.OK() || len(r.Payload) < 1 {
		return UserDataPacketReply{Ack: ack}, n, nil
	}
	return UserDataPacketReply{Ack: ack, Channel: UserDataChannel(r.Payload[0]), Data: r.Payload[1:]}, n, nil
}

// ScreenCaptureCommand requests the brain dump its current framebuffer to
// the Sys/Cbuf target so it can be downloaded as a file (spec.md §4.6).
type ScreenCaptureCommand struct{}

func (ScreenCaptureCommand) Encode() ([]byte, error) {
	return frame.EncodeExtendedCommand(PrimaryUserCDC, ExtScreenCapture, nil)
}

func RecognizeScreenCaptureReply(data []byte) bool {
	return frame.RecognizeExtendedReply(data, PrimaryUserCDC, ExtScreenCapture)
}

func DecodeScreenCaptureReply(data []byte) (Ack, int, error) {
	r, n, err := frame.DecodeExtendedReply(data)
	if err != nil {
		return 0, 0, err
	}
	return Ack(r.Ack), n, nil
}

// DashTouchCommand simulates a touch event on the brain's home screen.
type DashTouchCommand struct {
	X, Y  uint16
	Press uint8
}

func (c DashTouchCommand) Encode() ([]byte, error) {
	payload := make([]byte, 0, 5)
	payload = wire.PutUint16(payload, c.X)
	payload = wire.PutUint16(payload, c.Y)
	payload = append(payload, c.Press)
	return frame.EncodeExtendedCommand(PrimaryUserCDC, ExtDashTouch, payload)
}

func RecognizeDashTouchReply(data []byte) bool {
	return frame.RecognizeExtendedReply(data, PrimaryUserCDC, ExtDashTouch)
}

func DecodeDashTouchReply(data []byte) (Ack, int, error) {
	r, n, err := frame.DecodeExtendedReply(data)
	if err != nil {
		return 0, 0, err
	}
	return Ack(r.Ack), n, nil
}

// DashSelectCommand switches the home screen to a given slot/page.
type DashSelectCommand struct {
	Slot uint8
	Page uint8
}

func (c DashSelectCommand) Encode() ([]byte, error) {
	return frame.EncodeExtendedCommand(PrimaryUserCDC, ExtDashSelect, []byte{c.Slot, c.Page})
}

func RecognizeDashSelectReply(data []byte) bool {
	return frame.RecognizeExtendedReply(data, PrimaryUserCDC, ExtDashSelect)
}

func DecodeDashSelectReply(data []byte) (Ack, int, error) {
	r, n, err := frame.DecodeExtendedReply(data)
	if err != nil {
		return 0, 0, err
	}
	return Ack(r.Ack), n, nil
}

// KvLoadCommand reads a named key from the brain's persistent key-value store.
type KvLoadCommand struct {
	Key string
}

func (c KvLoadCommand) Encode() ([]byte, error) {
	name, err := wire.FixedStringCap(31, c.Key)
	if err != nil {
		return nil, err
	}
	return frame.EncodeExtendedCommand(PrimaryUserCDC, ExtKvLoad, name.Encode(nil))
}

func RecognizeKvLoadReply(data []byte) bool {
	return frame.RecognizeExtendedReply(data, PrimaryUserCDC, ExtKvLoad)
}

type KvLoadReply struct {
	Ack   Ack
	Value string
}

func DecodeKvLoadReply(data []byte) (KvLoadReply, int, error) {
	r, n, err := frame.DecodeExtendedReply(data)
	if err != nil {
		return KvLoadReply{}, 0, err
	}
	ack := Ack(r.Ack)
	if !ack.OK() || len(r.Payload) == 0 {
		return KvLoadReply{Ack: ack}, n, nil
	}
	fs, _, err := wire.DecodeFixedString(r.Payload, len(r.Payload)-1)
	if err != nil {
		return KvLoadReply{}, 0, err
	}
	return KvLoadReply{Ack: ack, Value: fs.String()}, n, nil
}

// KvSaveCommand writes a key/value pair to the brain's persistent store.
type KvSaveCommand struct {
	Key   string
	Value string
}

func (c KvSaveCommand) Encode() ([]byte, error) {
	key, err := wire.FixedStringCap(31, c.Key)
	if err != nil {
		return nil, err
	}
	value, err := wire.FixedStringCap(255, c.Value)
	if err != nil {
		return nil, err
	}
	payload := key.Encode(nil)
	payload = value.Encode(payload)
	return frame.EncodeExtendedCommand(PrimaryUserCDC, ExtKvSave, payload)
}

func RecognizeKvSaveReply(data []byte) bool {
	return frame.RecognizeExtendedReply(data, PrimaryUserCDC, ExtKvSave)
}

func DecodeKvSaveReply(data []byte) (Ack, int, error) {
	r, n, err := frame.DecodeExtendedReply(data)
	if err != nil {
		return 0, 0, err
	}
	return Ack(r.Ack), n, nil
}
