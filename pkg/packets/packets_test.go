package packets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/v5kit/v5serial/pkg/frame"
	"github.com/v5kit/v5serial/pkg/wire"
)

func TestSystemVersionScenario(t *testing.T) {
	cmd, err := SystemVersionCommand{}.Encode()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xC9, 0x36, 0xB8, 0x47, 0xA4, 0x00}, cmd)

	reply := []byte{0xAA, 0x55, 0xA4, 0x08, 0x01, 0x00, 0x16, 0x00, 0x10, 0x10, 0x01}
	got, n, err := DecodeSystemVersionReply(reply)
	require.NoError(t, err)
	assert.Equal(t, len(reply), n)
	assert.Equal(t, wire.Version{Major: 1, Minor: 0, Build: 22, Beta: 0}, got.Version)
	assert.Equal(t, ProductBrain, got.ProductType)
	assert.Equal(t, uint8(0x01), got.Flags)
}

func TestCompetitionControlScenario(t *testing.T) {
	cmd, err := CompetitionControlCommand{Mode: CompetitionModeAuto, Time: 0}.Encode()
	require.NoError(t, err)

	expectedPrefix := []byte{0xC9, 0x36, 0xB8, 0x47, 0x58, 0xC1, 0x07, 0x0A, 0x00, 0x00, 0x00, 0x00}
	assert.Equal(t, expectedPrefix, cmd[:len(expectedPrefix)])
	assert.Len(t, cmd, len(expectedPrefix)+2)

	crc := wire.CRC16(cmd[:len(cmd)-2])
	assert.Equal(t, byte(crc>>8), cmd[len(cmd)-2])
	assert.Equal(t, byte(crc), cmd[len(cmd)-1])

	reply := make([]byte, 0, 16)
	reply = append(reply, frame.HostBoundHeader[:]...)
	reply = append(reply, 0x58)
	size, err := wire.NewVarU16(2 + 2)
	require.NoError(t, err)
	reply = size.Encode(reply)
	reply = append(reply, 0xC1, byte(AckSuccess))
	replyCRC := wire.CRC16(reply)
	reply = wire.PutUint16BE(reply, replyCRC)

	got, n, err := DecodeCompetitionControlReply(reply)
	require.NoError(t, err)
	assert.Equal(t, len(reply), n)
	assert.Equal(t, AckSuccess, got.Ack)
}

func TestDirectoryEntryAbsentMetadataStillConsumes12Bytes(t *testing.T) {
	payload := make([]byte, 0, 8+12+4)
	payload = wire.PutUint32(payload, 1024)
	payload = wire.PutUint32(payload, 0x03800000)
	payload = append(payload, 0xFF)
	payload = append(payload, make([]byte, 11)...)
	name, err := wire.FixedStringCap(3, "abc")
	require.NoError(t, err)
	payload = name.Encode(payload)

	reply := make([]byte, 0, 64)
	reply = append(reply, frame.HostBoundHeader[:]...)
	reply = append(reply, PrimaryUserCDC)
	size, err := wire.NewVarU16(uint16(2 + len(payload) + 2))
	require.NoError(t, err)
	reply = size.Encode(reply)
	reply = append(reply, ExtGetDirectoryEntry, byte(AckSuccess))
	reply = append(reply, payload...)
	crc := wire.CRC16(reply)
	reply = wire.PutUint16BE(reply, crc)

	got, n, err := DecodeGetDirectoryEntryReply(reply)
	require.NoError(t, err)
	assert.Equal(t, len(reply), n)
	assert.False(t, got.MetadataPresent)
	assert.Equal(t, "abc", got.FileName)
}

func TestFileMetadataAbsentSentinel(t *testing.T) {
	reply := make([]byte, 0, 16)
	reply = append(reply, frame.HostBoundHeader[:]...)
	reply = append(reply, PrimaryUserCDC)
	size, err := wire.NewVarU16(2 + 1 + 2)
	require.NoError(t, err)
	reply = size.Encode(reply)
	reply = append(reply, ExtGetFileMetadata, byte(AckSuccess), 0xFF)
	crc := wire.CRC16(reply)
	reply = wire.PutUint16BE(reply, crc)

	got, n, err := DecodeGetFileMetadataReply(reply)
	require.NoError(t, err)
	assert.Equal(t, len(reply), n)
	assert.False(t, got.Present)
}

func TestFileTransferInitReplyByteSwapsCRC(t *testing.T) {
	payload := make([]byte, 0, 10)
	payload = wire.PutUint16(payload, 8)
	payload = wire.PutUint32(payload, 1000)
	payload = wire.PutUint32BE(payload, 0xDEADBEEF)

	reply := make([]byte, 0, 32)
	reply = append(reply, frame.HostBoundHeader[:]...)
	reply = append(reply, PrimaryUserCDC)
	size, err := wire.NewVarU16(uint16(2 + len(payload) + 2))
	require.NoError(t, err)
	reply = size.Encode(reply)
	reply = append(reply, ExtFileTransferInit, byte(AckSuccess))
	reply = append(reply, payload...)
	crc := wire.CRC16(reply)
	reply = wire.PutUint16BE(reply, crc)

	got, _, err := DecodeFileTransferInitReply(reply)
	require.NoError(t, err)
	assert.Equal(t, uint16(8), got.Handle.WindowSize)
	assert.Equal(t, uint32(1000), got.Handle.FileSize)
	assert.Equal(t, uint32(0xDEADBEEF), got.Handle.FileCRC)
}

func TestFileDataReadReplySuccessHasNoAck(t *testing.T) {
	reply := make([]byte, 0, 32)
	reply = append(reply, frame.HostBoundHeader[:]...)
	reply = append(reply, PrimaryUserCDC)
	data := []byte{0x01, 0x02, 0x03}
	size, err := wire.NewVarU16(uint16(1 + len(data) + 2))
	require.NoError(t, err)
	reply = size.Encode(reply)
	reply = append(reply, ExtFileDataRead)
	reply = append(reply, data...)
	crc := wire.CRC16(reply)
	reply = wire.PutUint16BE(reply, crc)

	got, n, err := DecodeFileDataReadReply(reply)
	require.NoError(t, err)
	assert.Equal(t, len(reply), n)
	assert.Equal(t, AckSuccess, got.Ack)
	assert.Equal(t, data, got.Data)
}
