package frame

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/v5kit/v5serial/pkg/wire"
)

func TestSimpleCommandEncodesHeaderAndOpcode(t *testing.T) {
	cmd, err := EncodeSimpleCommand(0x40, []byte{0x01, 0x02, 0x03})
	require.NoError(t, err)
	assert.True(t, HasDeviceBoundHeader(cmd))
	assert.Equal(t, byte(0x40), cmd[4])
}

func TestDecodeSimpleReplyMagicOnlyIsUnexpectedEnd(t *testing.T) {
	_, _, err := DecodeSimpleReply([]byte{0xAA, 0x55})
	var de *wire.DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, wire.ErrUnexpectedEnd, de.Kind)
}

func TestDecodeExtendedReplyBadCRCYieldsChecksumError(t *testing.T) {
	cmd, err := EncodeExtendedCommand(0x56, 0x14, []byte{0xAA})
	require.NoError(t, err)
	_ = cmd

	reply := make([]byte, 0, 16)
	reply = append(reply, HostBoundHeader[:]...)
	reply = append(reply, 0x56)
	size, err := wire.NewVarU16(uint16(2 + 1 + 2))
	require.NoError(t, err)
	reply = size.Encode(reply)
	reply = append(reply, 0x14, 0x76, 0xAB)
	reply = append(reply, 0x00, 0x00)

	_, _, err = DecodeExtendedReply(reply)
	var de *wire.DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, wire.ErrChecksum, de.Kind)
}

func TestDecodeExtendedReplyValidCRC(t *testing.T) {
	reply := make([]byte, 0, 16)
	reply = append(reply, HostBoundHeader[:]...)
	reply = append(reply, 0x56)
	size, err := wire.NewVarU16(uint16(2 + 1 + 2))
	require.NoError(t, err)
	reply = size.Encode(reply)
	reply = append(reply, 0x14, 0x76, 0xAB)
	crc := wire.CRC16(reply)
	reply = wire.PutUint16BE(reply, crc)

	got, n, err := DecodeExtendedReply(reply)
	require.NoError(t, err)
	assert.Equal(t, len(reply), n)
	assert.Equal(t, byte(0x56), got.Primary)
	assert.Equal(t, byte(0x14), got.Extended)
	assert.Equal(t, byte(0x76), got.Ack)
	assert.Equal(t, []byte{0xAB}, got.Payload)
}

func TestRingEvictsStaleUnusedFrames(t *testing.T) {
	real := timeNow
	defer func() { timeNow = real }()

	base := real()
	timeNow = func() time.Time { return base }

	ring := NewRing()
	ring.Push([]byte{0xAA, 0x55, 0x01})

	timeNow = func() time.Time { return base.Add(3 * time.Second) }
	_, ok := ring.Take(func(b []byte) bool { return len(b) > 0 })
	assert.False(t, ok)
}

func TestRingTakeMarksFrameUsed(t *testing.T) {
	ring := NewRing()
	ring.Push([]byte{0xAA, 0x55, 0x56})

	got, ok := ring.Take(func(b []byte) bool { return len(b) >= 3 && b[2] == 0x56 })
	require.True(t, ok)
	assert.Equal(t, byte(0x56), got[2])

	_, ok = ring.Take(func(b []byte) bool { return len(b) >= 3 && b[2] == 0x56 })
	assert.False(t, ok)
}

func TestFrameReaderParsesFrameFromStream(t *testing.T) {
	reply := make([]byte, 0, 16)
	reply = append(reply, HostBoundHeader[:]...)
	reply = append(reply, 0x56)
	size, err := wire.NewVarU16(2 + 2)
	require.NoError(t, err)
	reply = size.Encode(reply)
	reply = append(reply, 0x14, 0x76)
	crc := wire.CRC16(reply)
	reply = wire.PutUint16BE(reply, crc)

	noise := append([]byte{0xAA, 0x00, 0xFF}, reply...)
	fr := NewFrameReader(bytes.NewReader(noise), nil)
	ring := NewRing()
	stop := make(chan struct{})

	err = fr.Run(ring, stop)
	require.Error(t, err)

	got, ok := ring.Take(func(b []byte) bool { return RecognizeExtendedReply(b, 0x56, 0x14) })
	require.True(t, ok)
	assert.Equal(t, reply, got)
}
