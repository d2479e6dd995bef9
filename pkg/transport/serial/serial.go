// Package serial implements the wired USB CDC byte stream a
// connection.Connection rides on, the way the teacher's pkg/usock opens
// and owns a *serial.Port for the nRF52 UART link. This package talks to
// the V5 brain's CDC port instead, using go.bug.st/serial rather than the
// teacher's tarm/serial because the brain's read_exact/handshake contract
// (spec.md §6) needs a per-call read deadline, which go.bug.st/serial
// exposes and tarm/serial does not.
package serial

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

// DefaultBaud is the V5 brain's fixed CDC baud rate; the port negotiates
// framing over USB regardless of the value, but go.bug.st/serial still
// requires one to be set.
const DefaultBaud = 115200

// ReadTimeout bounds a single Read call so FrameReader's blocking read loop
// can be interrupted by Connection.Close without hanging on an idle port.
const ReadTimeout = 250 * time.Millisecond

// Port wraps a go.bug.st/serial.Port as the io.ReadWriter pkg/connection
// expects, applying a read deadline on every open so a closed or idle
// brain doesn't block the frame reader goroutine forever.
type Port struct {
	port serial.Port
}

// Open opens device at DefaultBaud, 8N1, the framing the V5 brain's CDC
// port presents.
func Open(device string) (*Port, error) {
	mode := &serial.Mode{
		BaudRate: DefaultBaud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("serial: open %s: %w", device, err)
	}
	if err := p.SetReadTimeout(ReadTimeout); err != nil {
		p.Close()
		return nil, fmt.Errorf("serial: set read timeout: %w", err)
	}
	return &Port{port: p}, nil
}

// Read implements io.Reader. go.bug.st/serial returns (0, nil) on a read
// timeout rather than an error, which FrameReader's loop already treats as
// a no-op iteration.
func (p *Port) Read(buf []byte) (int, error) {
	return p.port.Read(buf)
}

// Write implements io.Writer.
func (p *Port) Write(buf []byte) (int, error) {
	return p.port.Write(buf)
}

// Close releases the underlying port.
func (p *Port) Close() error {
	return p.port.Close()
}

// List returns the device paths of every serial port currently visible to
// the host, the way a caller would enumerate candidate V5 brain ports
// before calling Open. Device discovery beyond this raw listing (picking
// the VEX-specific port among several, pairing) is out of scope.
func List() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("serial: list ports: %w", err)
	}
	return ports, nil
}
