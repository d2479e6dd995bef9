package connection

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/v5kit/v5serial/pkg/frame"
	"github.com/v5kit/v5serial/pkg/packets"
	"github.com/v5kit/v5serial/pkg/wire"
)

// loopRW is a minimal io.ReadWriter standing in for a serial link: writes
// land in a queue a fake device goroutine can inspect and reply to.
type loopRW struct {
	mu   sync.Mutex
	in   bytes.Buffer
	out  chan []byte
}

func newLoopRW() *loopRW {
	return &loopRW{out: make(chan []byte, 16)}
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

func competitionControlReplyBytes(t *testing.T) []byte {
	t.Helper()
	reply := make([]byte, 0, 16)
	reply = append(reply, frame.HostBoundHeader[:]...)
	reply = append(reply, packets.PrimaryControllerC)
	size, err := wire.NewVarU16(2 + 2)
	require.NoError(t, err)
	reply = size.Encode(reply)
	reply = append(reply, packets.ExtCompetitionControl, byte(packets.AckSuccess))
	crc := wire.CRC16(reply)
	reply = wire.PutUint16BE(reply, crc)
	return reply
}

func TestHandshakeSucceedsOnFirstReply(t *testing.T) {
	rw := newLoopRW()
	conn := New(rw, TransportWired, nil)
	defer conn.Close()

	go func() {
		<-rw.out
		rw.injectReply(competitionControlReplyBytes(t))
	}()

	dec := ReplyDecoder[packets.CompetitionControlReply]{
		Recognize: packets.RecognizeCompetitionControlReply,
		Decode:    packets.DecodeCompetitionControlReply,
	}
	cmd := packets.CompetitionControlCommand{Mode: packets.CompetitionModeAuto, Time: 0}
	got, err := Handshake(conn, cmd, dec, 200*time.Millisecond, 0)
	require.NoError(t, err)
	assert.Equal(t, packets.AckSuccess, got.Ack)
}

func TestHandshakeRetriesThenTimesOut(t *testing.T) {
	rw := newLoopRW()
	conn := New(rw, TransportWired, nil)
	defer conn.Close()

	sends := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 2; i++ {
			<-rw.out
			sends++
		}
	}()

	dec := ReplyDecoder[packets.CompetitionControlReply]{
		Recognize: packets.RecognizeCompetitionControlReply,
		Decode:    packets.DecodeCompetitionControlReply,
	}
	cmd := packets.CompetitionControlCommand{Mode: packets.CompetitionModeAuto, Time: 0}
	_, err := Handshake(conn, cmd, dec, 20*time.Millisecond, 1)
	require.Error(t, err)
	<-done
	assert.Equal(t, 2, sends)
}
