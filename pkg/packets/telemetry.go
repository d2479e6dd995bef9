package packets

import (
	"github.com/v5kit/v5serial/pkg/frame"
	"github.com/v5kit/v5serial/pkg/wire"
)

// SystemVersionCommand is the lone Simple-family packet in the catalog.
type SystemVersionCommand struct{}

func (SystemVersionCommand) Encode() ([]byte, error) {
	return frame.EncodeSimpleCommand(PrimarySystemVer, nil)
}

func RecognizeSystemVersionReply(data []byte) bool {
	return frame.RecognizeSimpleReply(data, PrimarySystemVer)
}

// ProductType distinguishes Brain from Controller in SystemVersion replies.
type ProductType byte

const (
	ProductBrain      ProductType = 0x10
	ProductController ProductType = 0x11
)

// SystemVersionReply is the decoded end-to-end scenario from spec.md §8.1:
// `AA 55 A4 08 01 00 16 00 10 10 01` decodes to version 1.0.22.0, Brain,
// CONNECTED_CABLE.
type SystemVersionReply struct {
	Version     wire.Version
	ProductType ProductType
	Flags       uint8
}

func DecodeSystemVersionReply(data []byte) (SystemVersionReply, int, error) {
	r, n, err := frame.DecodeSimpleReply(data)
	if err != nil {
		return SystemVersionReply{}, 0, err
	}
	if len(r.Payload) < 7 {
		return SystemVersionReply{}, 0, wire.NewUnexpectedEnd()
	}
	ver, m, err := wire.DecodeVersion(r.Payload)
	if err != nil {
		return SystemVersionReply{}, 0, err
	}
	off := m
	// The product type occupies two bytes; the second one names the product.
	product := r.Payload[off+1]
	off += 2
	flags, _, err := wire.DecodeUint8(r.Payload[off:])
	if err != nil {
		return SystemVersionReply{}, 0, err
	}
	return SystemVersionReply{Version: ver, ProductType: ProductType(product), Flags: flags}, n, nil
}

// GetSystemFlagsCommand requests the brain's current status flag word.
type GetSystemFlagsCommand struct{}

func (GetSystemFlagsCommand) Encode() ([]byte, error) {
	return frame.EncodeExtendedCommand(PrimaryUserCDC, ExtGetSystemFlags, nil)
}

func RecognizeGetSystemFlagsReply(data []byte) bool {
	return frame.RecognizeExtendedReply(data, PrimaryUserCDC, ExtGetSystemFlags)
}

type GetSystemFlagsReply struct {
	Ack   Ack
	Flags uint32
}

func DecodeGetSystemFlagsReply(data []byte) (GetSystemFlagsReply, int, error) {
	r, n, err := frame.DecodeExtendedReply(data)
	if err != nil {
		return GetSystemFlagsReply{}, 0, err
	}
	ack := Ack(r.Ack)
	if !ack.OK() || len(r.Payload) < 4 {
		return GetSystemFlagsReply{Ack: ack}, n, nil
	}
	flags, _, err := wire.DecodeUint32(r.Payload)
	if err != nil {
		return GetSystemFlagsReply{}, 0, err
	}
	return GetSystemFlagsReply{Ack: ack, Flags: flags}, n, nil
}

// GetDeviceStatusCommand lists the smart devices currently plugged into
// the brain's ports.
type GetDeviceStatusCommand struct{}

func (GetDeviceStatusCommand) Encode() ([]byte, error) {
	return frame.EncodeExtendedCommand(PrimaryUserCDC, ExtGetDeviceStatus, nil)
}

func RecognizeGetDeviceStatusReply(data []byte) bool {
	return frame.RecognizeExtendedReply(data, PrimaryUserCDC, ExtGetDeviceStatus)
}

// SmartDevice is one entry in a GetDeviceStatus reply.
type SmartDevice struct {
	Port    uint8
	Type    uint8
	Version uint8
	Status  uint8
}

type GetDeviceStatusReply struct {
	Ack     Ack
	Devices []SmartDevice
}

func DecodeGetDeviceStatusReply(data []byte) (GetDeviceStatusReply, int, error) {
	r, n, err := frame.DecodeExtendedReply(data)
	if err != nil {
		return GetDeviceStatusReply{}, 0, err
	}
	ack := Ack(r.Ack)
	if !ack.OK() || len(r.Payload) < 1 {
		return GetDeviceStatusReply{Ack: ack}, n, nil
	}
	count := int(r.Payload[0])
	devices := make([]SmartDevice, 0, count)
	off := 1
	for i := 0; i < count && off+4 <= len(r.Payload); i++ {
		devices = append(devices, SmartDevice{
			Port:    r.Payload[off],
			Type:    r.Payload[off+1],
			Version: r.Payload[off+2],
			Status:  r.Payload[off+3],
		})
		off += 4
	}
	return GetDeviceStatusReply{Ack: ack, Devices: devices}, n, nil
}

// GetFdtStatusCommand requests the factory diagnostic-test status word.
type GetFdtStatusCommand struct{}

func (GetFdtStatusCommand) Encode() ([]byte, error) {
	return frame.EncodeExtendedCommand(PrimaryUserCDC, ExtGetFdtStatus, nil)
}

func RecognizeGetFdtStatusReply(data []byte) bool {
	return frame.RecognizeExtendedReply(data, PrimaryUserCDC, ExtGetFdtStatus)
}

type GetFdtStatusReply struct {
	Ack    Ack
	Status uint32
}

func DecodeGetFdtStatusReply(data []byte) (GetFdtStatusReply, int, error) {
	r, n, err := frame.DecodeExtendedReply(data)
	if err != nil {
		return GetFdtStatusReply{}, 0, err
	}
	ack := Ack(r.Ack)
	if !ack.OK() || len(r.Payload) < 4 {
		return GetFdtStatusReply{Ack: ack}, n, nil
	}
	status, _, err := wire.DecodeUint32(r.Payload)
	if err != nil {
		return GetFdtStatusReply{}, 0, err
	}
	return GetFdtStatusReply{Ack: ack, Status: status}, n, nil
}

// GetRadioStatusCommand requests the radio/Bluetooth link's signal state.
type GetRadioStatusCommand struct{}

func (GetRadioStatusCommand) Encode() ([]byte, error) {
	return frame.EncodeExtendedCommand(PrimaryUserCDC, ExtGetRadioStatus, nil)
}

func RecognizeGetRadioStatusReply(data []byte) bool {
	return frame.RecognizeExtendedReply(data, PrimaryUserCDC, ExtGetRadioStatus)
}

type GetRadioStatusReply struct {
	Ack       Ack
	Quality   int16
	Strength  int16
	Channel   uint8
	TimeSlot  uint8
}

func DecodeGetRadioStatusReply(data []byte) (GetRadioStatusReply, int, error) {
	r, n, err := frame.DecodeExtendedReply(data)
	if err != nil {
		return GetRadioStatusReply{}, 0, err
	}
	ack := Ack(r.Ack)
	if !ack.OK() || len(r.Payload) < 6 {
		return GetRadioStatusReply{Ack: ack}, n, nil
	}
	quality, m, err := wire.DecodeInt16(r.Payload)
	if err != nil {
		return GetRadioStatusReply{}, 0, err
	}
	off := m
	strength, m, err := wire.DecodeInt16(r.Payload[off:])
	if err != nil {
		return GetRadioStatusReply{}, 0, err
	}
	off += m
	channel, m, err := wire.DecodeUint8(r.Payload[off:])
	if err != nil {
		return GetRadioStatusReply{}, 0, err
	}
	off += m
	slot, _, err := wire.DecodeUint8(r.Payload[off:])
	if err != nil {
		return GetRadioStatusReply{}, 0, err
	}
	return GetRadioStatusReply{Ack: ack, Quality: quality, Strength: strength, Channel: channel, TimeSlot: slot}, n, nil
}

// GetLogCountCommand asks how many entries a log category holds.
type GetLogCountCommand struct {
	LogType uint8
}

func (c GetLogCountCommand) Encode() ([]byte, error) {
	return frame.EncodeExtendedCommand(PrimaryUserCDC, ExtGetLogCount, []byte{c.LogType})
}

func RecognizeGetLogCountReply(data []byte) bool {
	return frame.RecognizeExtendedReply(data, PrimaryUserCDC, ExtGetLogCount)
}

type GetLogCountReply struct {
	Ack   Ack
	Count uint32
}

func DecodeGetLogCountReply(data []byte) (GetLogCountReply, int, error) {
	r, n, err := frame.DecodeExtendedReply(data)
	if err != nil {
		return GetLogCountReply{}, 0, err
	}
	ack := Ack(r.Ack)
	if !ack.OK() || len(r.Payload) < 4 {
		return GetLogCountReply{Ack: ack}, n, nil
	}
	count, _, err := wire.DecodeUint32(r.Payload)
	if err != nil {
		return GetLogCountReply{}, 0, err
	}
	return GetLogCountReply{Ack: ack, Count: count}, n, nil
}

// ReadLogPageCommand reads one page of log entries starting at offset.
type ReadLogPageCommand struct {
	LogType uint8
	Offset  uint32
	Count   uint16
}

func (c ReadLogPageCommand) Encode() ([]byte, error) {
	payload := make([]byte, 0, 7)
	payload = append(payload, c.LogType)
	payload = wire.PutUint32(payload, c.Offset)
	payload = wire.PutUint16(payload, c.Count)
	return frame.EncodeExtendedCommand(PrimaryUserCDC, ExtReadLogPage, payload)
}

func RecognizeReadLogPageReply(data []byte) bool {
	return frame.RecognizeExtendedReply(data, PrimaryUserCDC, ExtReadLogPage)
}

type ReadLogPageReply struct {
	Ack  Ack
	Data []byte
}

func DecodeReadLogPageReply(data []byte) (ReadLogPageReply, int, error) {
	r, n, err := frame.DecodeExtendedReply(data)
	if err != nil {
		return ReadLogPageReply{}, 0, err
	}
	return ReadLogPageReply{Ack: Ack(r.Ack), Data: r.Payload}, n, nil
}

// SystemDetails holds the optional unique-ID tail of the GetSystemStatus
// reply plus the touch controller's version, which is the one
// place in the protocol where a Version's byte order is reversed
// (beta, build, minor, major) rather than the usual major-first layout.
type SystemDetails struct {
	UniqueID     uint32
	TouchVersion wire.Version
}

// GetSystemStatusCommand requests the brain's full system-status block.
type GetSystemStatusCommand struct{}

func (GetSystemStatusCommand) Encode() ([]byte, error) {
	return frame.EncodeExtendedCommand(PrimaryUserCDC, ExtGetSystemStatus, nil)
}

func RecognizeGetSystemStatusReply(data []byte) bool {
	return frame.RecognizeExtendedReply(data, PrimaryUserCDC, ExtGetSystemStatus)
}

type GetSystemStatusReply struct {
	Ack             Ack
	SystemVersion   wire.Version
	CPU0Version     wire.Version
	CPU1Version     wire.Version
	TouchVersion    wire.Version
	SystemID        uint32
	Details         SystemDetails
}

func DecodeGetSystemStatusReply(data []byte) (GetSystemStatusReply, int, error) {
	r, n, err := frame.DecodeExtendedReply(data)
	if err != nil {
		return GetSystemStatusReply{}, 0, err
	}
	ack := Ack(r.Ack)
	if !ack.OK() || len(r.Payload) < 21 {
		return GetSystemStatusReply{Ack: ack}, n, nil
	}
	p := r.Payload
	sysVer, m, err := wire.DecodeVersion(p)
	if err != nil {
		return GetSystemStatusReply{}, 0, err
	}
	off := m
	cpu0, m, err := wire.DecodeVersion(p[off:])
	if err != nil {
		return GetSystemStatusReply{}, 0, err
	}
	off += m
	cpu1, m, err := wire.DecodeVersion(p[off:])
	if err != nil {
		return GetSystemStatusReply{}, 0, err
	}
	off += m
	// touch version is reversed on the wire: beta, build, minor, major.
	touch, m, err := wire.DecodeVersionReversed(p[off:])
	if err != nil {
		return GetSystemStatusReply{}, 0, err
	}
	off += m
	sysID, m, err := wire.DecodeUint32(p[off:])
	if err != nil {
		return GetSystemStatusReply{}, 0, err
	}
	off += m
	details := SystemDetails{TouchVersion: touch}
	if off+4 <= len(p) {
		uid, _, err := wire.DecodeUint32(p[off:])
		if err == nil {
			details.UniqueID = uid
		}
	}
	return GetSystemStatusReply{
		Ack: ack, SystemVersion: sysVer, CPU0Version: cpu0, CPU1Version: cpu1,
		TouchVersion: touch, SystemID: sysID, Details: details,
	}, n, nil
}
