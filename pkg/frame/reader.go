package frame

import (
	"io"

	"github.com/v5kit/v5serial/pkg/wire"
	"github.com/v5kit/v5serial/pkg/wirelog"
)

// reader states, mirroring the byte-by-byte resync style used throughout
// this codebase for framed serial protocols: a mismatch at any sync byte
// drops back to hunting for the first magic byte rather than discarding
// the whole read loop.
const (
	stateMagic1 = iota
	stateMagic2
	statePrimary
	stateLen1
	stateLen2Maybe
	statePayload
)

// FrameReader pulls host-bound frames off a byte stream one byte at a time
// and pushes each complete frame into a Ring for the connection engine to
// scan. It never interprets opcode semantics; it only finds frame
// boundaries, the same division of labor as this package's Simple/Extended
// decoders which run after a frame has already been isolated.
type FrameReader struct {
	r   io.Reader
	log wirelog.Logger

	state   int
	buf     []byte
	lenByte byte
	wide    bool
	want    int
}

// NewFrameReader constructs a reader over r. logger may be nil, in which
// case resync events are discarded rather than logged.
func NewFrameReader(r io.Reader, logger wirelog.Logger) *FrameReader {
	return &FrameReader{r: r, log: wirelog.OrNop(logger), buf: make([]byte, 0, 256)}
}

// logf logs through fr.log.
func (fr *FrameReader) logf(format string, args ...interface{}) {
	fr.log.Printf(format, args...)
}

// Run reads frames until the stream errors or stop is closed, pushing each
// complete frame into ring. It returns the terminal read error (io.EOF on
// orderly stream close).
func (fr *FrameReader) Run(ring *Ring, stop <-chan struct{}) error {
	one := make([]byte, 1)
	for {
		select {
		case <-stop:
			return nil
		default:
		}
		n, err := fr.r.Read(one)
		if err != nil {
			return err
		}
		if n == 0 {
			continue
		}
		if frame, ok := fr.step(one[0]); ok {
			ring.Push(frame)
		}
	}
}

// step advances the state machine by one byte, returning a completed frame
// (and true) when the byte completes one.
func (fr *FrameReader) step(b byte) ([]byte, bool) {
	switch fr.state {
	case stateMagic1:
		if b == HostBoundHeader[0] {
			fr.buf = append(fr.buf[:0], b)
			fr.state = stateMagic2
		}
	case stateMagic2:
		if b == HostBoundHeader[1] {
			fr.buf = append(fr.buf, b)
			fr.state = statePrimary
		} else if b == HostBoundHeader[0] {
			fr.buf = fr.buf[:1]
		} else {
			fr.state = stateMagic1
		}
	case statePrimary:
		fr.buf = append(fr.buf, b)
		fr.state = stateLen1
	case stateLen1:
		fr.buf = append(fr.buf, b)
		fr.lenByte = b
		if wire.CheckWide(b) {
			fr.state = stateLen2Maybe
			break
		}
		fr.want = int(b)
		return fr.enterPayload()
	case stateLen2Maybe:
		fr.buf = append(fr.buf, b)
		v, _, err := wire.DecodeVarU16([]byte{fr.lenByte, b})
		if err != nil {
			fr.logf("frame: invalid length field, resyncing")
			fr.state = stateMagic1
			break
		}
		fr.want = int(v.Value())
		return fr.enterPayload()
	case statePayload:
		fr.buf = append(fr.buf, b)
		if len(fr.buf) >= fr.want {
			out := make([]byte, len(fr.buf))
			copy(out, fr.buf)
			fr.state = stateMagic1
			fr.buf = fr.buf[:0]
			return out, true
		}
	}
	return nil, false
}

// enterPayload transitions into statePayload, accounting for the bytes
// already consumed (magic, primary, length field) against the frame's
// total length. If the length field already accounts for every remaining
// byte (a zero-length payload), the frame is complete immediately.
func (fr *FrameReader) enterPayload() ([]byte, bool) {
	fr.want += len(fr.buf)
	fr.state = statePayload
	if len(fr.buf) >= fr.want {
		out := make([]byte, len(fr.buf))
		copy(out, fr.buf)
		fr.state = stateMagic1
		fr.buf = fr.buf[:0]
		return out, true
	}
	return nil, false
}
