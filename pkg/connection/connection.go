// Package connection implements the engine that owns a byte stream plus
// the raw-frame ring, and exposes send/receive/handshake on top of
// pkg/frame and pkg/packets the way spec.md §4.4 describes: fingerprinted
// reply dispatch rather than strict FIFO request/response pairing.
package connection

import (
	"errors"
	"io"
	"time"

	"github.com/v5kit/v5serial/pkg/frame"
	"github.com/v5kit/v5serial/pkg/packets"
	"github.com/v5kit/v5serial/pkg/wirelog"
)

// userHandshakeTimeout is the fixed deadline spec.md §4.4 names for each
// multiplexed user-I/O exchange.
const userHandshakeTimeout = 100 * time.Millisecond

var userDataDecoder = ReplyDecoder[packets.UserDataPacketReply]{
	Recognize: packets.RecognizeUserDataPacketReply,
	Decode:    packets.DecodeUserDataPacketReply,
}

// Transport identifies the physical link a Connection rides on. It governs
// chunk-size caps and write-ack policy for file transfer (spec.md §6).
type Transport int

const (
	TransportWired Transport = iota
	TransportController
	TransportBluetooth
)

// MaxChunk returns the hard per-chunk cap this transport imposes,
// independent of any window size the device reports (0 means unbounded).
func (t Transport) MaxChunk() int {
	if t == TransportBluetooth {
		return 244
	}
	return 0
}

// WaitsForWriteAck reports whether FileDataWrite replies must be consumed
// before the next chunk can be sent. Bluetooth fires writes without
// waiting; other transports handshake each one.
func (t Transport) WaitsForWriteAck() bool { return t != TransportBluetooth }

// ErrTimeout is returned by Receive/Handshake when the deadline elapses
// before a matching reply arrives.
var ErrTimeout = errors.New("connection: timeout waiting for reply")

// Encodable is any command this package can serialize and send.
type Encodable interface {
	Encode() ([]byte, error)
}

// ReplyDecoder is a decode function for a typed reply T, paired with its
// recognizer. Callers supply both as closures over pkg/packets' generated
// Recognize/Decode function pairs.
type ReplyDecoder[T any] struct {
	Recognize func([]byte) bool
	Decode    func([]byte) (T, int, error)
}

// Connection owns one bidirectional byte stream, its background frame
// reader, and the raw-frame ring the reader feeds. Per spec.md §5, a
// single Connection must not be shared between concurrent callers; running
// multiple connections concurrently in separate goroutines is fine.
type Connection struct {
	rw        io.ReadWriter
	transport Transport
	logger    wirelog.Logger

	ring   *frame.Ring
	reader *frame.FrameReader
	stop   chan struct{}
	done   chan struct{}
}

// New constructs a Connection over rw and starts its background frame
// reader. logger may be nil, in which case diagnostic output is dropped.
func New(rw io.ReadWriter, transport Transport, logger wirelog.Logger) *Connection {
	logger = wirelog.OrNop(logger)
	c := &Connection{
		rw:        rw,
		transport: transport,
		logger:    logger,
		ring:      frame.NewRing(),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	c.reader = frame.NewFrameReader(rw, logger)
	go func() {
		defer close(c.done)
		if err := c.reader.Run(c.ring, c.stop); err != nil {
			c.logger.Printf("connection: frame reader stopped: %v", err)
		}
	}()
	return c
}

// Close stops the background reader and waits for it to exit. The
// underlying stream is the caller's responsibility to close.
func (c *Connection) Close() {
	close(c.stop)
	<-c.done
}

func (c *Connection) logf(format string, args ...interface{}) {
	c.logger.Printf(format, args...)
}

// Send serializes cmd into a contiguous buffer and writes it in one call.
func (c *Connection) Send(cmd Encodable) error {
	buf, err := cmd.Encode()
	if err != nil {
		return err
	}
	_, err = c.rw.Write(buf)
	return err
}

// Receive waits up to timeout for a reply matching dec, scanning the
// raw-frame ring before pulling new bytes off the stream, per spec.md
// §4.4's receive<T> algorithm.
func Receive[T any](c *Connection, dec ReplyDecoder[T], timeout time.Duration) (T, error) {
	var zero T
	deadline := time.Now().Add(timeout)
	for {
		if raw, ok := c.ring.Take(dec.Recognize); ok {
			val, _, err := dec.Decode(raw)
			if err != nil {
				return zero, err
			}
			return val, nil
		}
		if time.Now().After(deadline) {
			return zero, ErrTimeout
		}
		select {
		case <-c.done:
			return zero, io.ErrClosedPipe
		case <-time.After(5 * time.Millisecond):
		}
	}
}

// Handshake sends cmd and waits for a reply matching dec, retrying up to
// retries additional times on any error (transport, decode, or timeout).
// NACKs are not retried here — a decoded reply with a failure Ack is a
// legitimate result the caller must interpret; only a failure to get any
// decodable reply at all triggers a retry.
func Handshake[T any](c *Connection, cmd Encodable, dec ReplyDecoder[T], timeout time.Duration, retries int) (T, error) {
	var zero T
	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if err := c.Send(cmd); err != nil {
			lastErr = err
			c.logf("connection: handshake send failed (attempt %d): %v", attempt+1, err)
			continue
		}
		val, err := Receive(c, dec, timeout)
		if err == nil {
			return val, nil
		}
		lastErr = err
		c.logf("connection: handshake retry %d/%d after error: %v", attempt+1, retries+1, err)
	}
	return zero, lastErr
}

// ErrWiredUserIO is returned by ReadUser/WriteUser on a wired Connection:
// wired brains expose user I/O as a second byte stream the caller owns
// directly (io.Copy against it), not as multiplexed UserDataPacket traffic.
var ErrWiredUserIO = errors.New("connection: wired transport exposes user I/O as a direct byte stream, not UserDataPacket")

// ReadUser requests up to len(buf) bytes of application traffic from the
// device over UserDataPacket channel 1, copying what arrives into buf.
// Over wired transports callers read the brain's dedicated byte stream
// directly instead.
func (c *Connection) ReadUser(buf []byte) (int, error) {
	if c.transport == TransportWired {
		return 0, ErrWiredUserIO
	}
	cmd := packets.UserDataPacketCommand{Channel: packets.UserDataChannelRead, Data: nil}
	reply, err := Handshake(c, cmd, userDataDecoder, userHandshakeTimeout, 0)
	if err != nil {
		return 0, err
	}
	n := copy(buf, reply.Data)
	return n, nil
}

// WriteUser writes data to the device over UserDataPacket channel 2,
// chunking at 224 bytes per spec.md §4.4 and handshaking each chunk with a
// 100ms deadline. Over wired transports callers write the brain's
// dedicated byte stream directly instead. Chunks are sent in order; the
// call returns nil once every chunk's handshake succeeds, or the error of
// the first chunk whose handshake fails, without sending the rest.
func (c *Connection) WriteUser(data []byte) error {
	if c.transport == TransportWired {
		return ErrWiredUserIO
	}
	for off := 0; off < len(data); off += maxUserDataChunkSize {
		end := off + maxUserDataChunkSize
		if end > len(data) {
			end = len(data)
		}
		cmd := packets.UserDataPacketCommand{Channel: packets.UserDataChannelWrite, Data: data[off:end]}
		if _, err := Handshake(c, cmd, userDataDecoder, userHandshakeTimeout, 0); err != nil {
			return err
		}
	}
	return nil
}

// maxUserDataChunkSize is the write-chunking boundary spec.md §4.4 names.
const maxUserDataChunkSize = 224
