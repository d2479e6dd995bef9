// Package frame implements the two-tier V5 packet framing (Simple and
// Extended/CRC-protected) described in spec.md §4.2: magic-prefixed
// headers, opcode placement, VarU16 length fields, and the CRC-16 trailer
// Extended frames carry.
package frame

import "github.com/v5kit/v5serial/pkg/wire"

// DeviceBoundHeader is the 4-byte magic prefix on every host->device frame.
var DeviceBoundHeader = [4]byte{0xC9, 0x36, 0xB8, 0x47}

// HostBoundHeader is the 2-byte magic prefix on every device->host frame.
var HostBoundHeader = [2]byte{0xAA, 0x55}

// FactoryEnableMagic unlocks the factory command family (§4.3).
var FactoryEnableMagic = [4]byte{0x4D, 0x4C, 0x4B, 0x4A}

// FileFormatConfirmation is the confirmation code FileFormatPacket requires.
var FileFormatConfirmation = [4]byte{0x44, 0x43, 0x42, 0x41}

func hasPrefix(data []byte, prefix []byte) bool {
	if len(data) < len(prefix) {
		return false
	}
	for i, b := range prefix {
		if data[i] != b {
			return false
		}
	}
	return true
}

// HasDeviceBoundHeader reports whether data starts with the host->device magic.
func HasDeviceBoundHeader(data []byte) bool { return hasPrefix(data, DeviceBoundHeader[:]) }

// HasHostBoundHeader reports whether data starts with the device->host magic.
func HasHostBoundHeader(data []byte) bool { return hasPrefix(data, HostBoundHeader[:]) }

// expectByte decodes a single byte and checks it against an expected value,
// returning an UnexpectedByte error on mismatch.
func expectByte(data []byte, name string, expected byte) (int, error) {
	got, n, err := wire.DecodeUint8(data)
	if err != nil {
		return 0, err
	}
	if got != expected {
		return 0, wire.NewUnexpectedByte(name, int64(got), int64(expected))
	}
	return n, nil
}

// ExpectByte is the exported form of expectByte.
func ExpectByte(data []byte, name string, expected byte) (int, error) {
	return expectByte(data, name, expected)
}
