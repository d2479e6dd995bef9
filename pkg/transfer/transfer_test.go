package transfer

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/v5kit/v5serial/pkg/connection"
	"github.com/v5kit/v5serial/pkg/frame"
	"github.com/v5kit/v5serial/pkg/packets"
	"github.com/v5kit/v5serial/pkg/wire"
)

type loopRW struct {
	mu  sync.Mutex
	in  bytes.Buffer
	out chan []byte
}

func newLoopRW() *loopRW {
	return &loopRW{out: make(chan []byte, 64)}
}

func (l *loopRW) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := make([]byte, len(p))
	copy(cp, p)
	l.out <- cp
	return len(p), nil
}

func (l *loopRW) Read(p []byte) (int, error) {
	for {
		l.mu.Lock()
		if l.in.Len() > 0 {
			n, _ := l.in.Read(p)
			l.mu.Unlock()
			return n, nil
		}
		l.mu.Unlock()
		time.Sleep(time.Millisecond)
	}
}

func (l *loopRW) injectReply(b []byte) {
	l.mu.Lock()
	l.in.Write(b)
	l.mu.Unlock()
}

func extendedReply(primary, extended, ack byte, payload []byte) []byte {
	reply := make([]byte, 0, 16+len(payload))
	reply = append(reply, frame.HostBoundHeader[:]...)
	reply = append(reply, primary)
	size, _ := wire.NewVarU16(uint16(2 + len(payload) + 2))
	reply = size.Encode(reply)
	reply = append(reply, extended, ack)
	reply = append(reply, payload...)
	crc := wire.CRC16(reply)
	return wire.PutUint16BE(reply, crc)
}

func fileReadReply(data []byte) []byte {
	reply := make([]byte, 0, 16+len(data))
	reply = append(reply, frame.HostBoundHeader[:]...)
	reply = append(reply, packets.PrimaryUserCDC)
	size, _ := wire.NewVarU16(uint16(1 + len(data) + 2))
	reply = size.Encode(reply)
	reply = append(reply, packets.ExtFileDataRead)
	reply = append(reply, data...)
	crc := wire.CRC16(reply)
	return wire.PutUint16BE(reply, crc)
}

func TestDownloadFileTrimsOverread(t *testing.T) {
	rw := newLoopRW()
	conn := connection.New(rw, connection.TransportWired, nil)
	defer conn.Close()

	go func() {
		<-rw.out // init
		initPayload := make([]byte, 0, 10)
		initPayload = wire.PutUint16(initPayload, 8)
		initPayload = wire.PutUint32(initPayload, 10)
		initPayload = wire.PutUint32(initPayload, 0)
		rw.injectReply(extendedReply(packets.PrimaryUserCDC, packets.ExtFileTransferInit, byte(packets.AckSuccess), initPayload))

		<-rw.out // first read
		rw.injectReply(fileReadReply(bytes.Repeat([]byte{0xAA}, 8)))

		<-rw.out // second read, device over-reads
		over := append(bytes.Repeat([]byte{0xBB}, 2), bytes.Repeat([]byte{0xBB}, 6)...)
		rw.injectReply(fileReadReply(over))
	}()

	var lastProgress float64
	got, err := DownloadFile(conn, connection.TransportWired, DownloadRequest{
		Name: "test.bin", FileSize: 10, Vendor: packets.VendorUser, Target: packets.TargetFlash, Addr: 0,
	}, func(p float64) { lastProgress = p })
	require.NoError(t, err)
	assert.Equal(t, 10, len(got))
	assert.Equal(t, bytes.Repeat([]byte{0xAA}, 8), got[:8])
	assert.Equal(t, []byte{0xBB, 0xBB}, got[8:10])
	assert.GreaterOrEqual(t, lastProgress, 100.0)
}

func TestUploadFilePadsFinalChunkToFourByteBoundary(t *testing.T) {
	rw := newLoopRW()
	conn := connection.New(rw, connection.TransportWired, nil)
	defer conn.Close()

	var capturedChunk []byte
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-rw.out // init
		initPayload := make([]byte, 0, 10)
		initPayload = wire.PutUint16(initPayload, 8)
		initPayload = wire.PutUint32(initPayload, 5)
		initPayload = wire.PutUint32(initPayload, 0)
		rw.injectReply(extendedReply(packets.PrimaryUserCDC, packets.ExtFileTransferInit, byte(packets.AckSuccess), initPayload))

		writeFrame := <-rw.out
		capturedChunk = writeFrame
		rw.injectReply(extendedReply(packets.PrimaryUserCDC, packets.ExtFileDataWrite, byte(packets.AckSuccess), nil))

		<-rw.out // exit
		rw.injectReply(extendedReply(packets.PrimaryUserCDC, packets.ExtFileTransferExit, byte(packets.AckSuccess), nil))
	}()

	err := UploadFile(conn, connection.TransportWired, UploadRequest{
		Name: "test.bin", Vendor: packets.VendorUser, Target: packets.TargetFlash, Addr: 0x1000,
		Data: []byte{0x01, 0x02, 0x03, 0x04, 0x05}, AfterUpload: packets.AfterUploadDoNothing,
	}, nil)
	require.NoError(t, err)
	<-done
	require.NotNil(t, capturedChunk)
	// command frame: magic(4) primary(1) extended(1) varu16(1) addr(4) chunk(8) crc(2)
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x00, 0x00, 0x00}, capturedChunk[len(capturedChunk)-2-8:len(capturedChunk)-2])
}
