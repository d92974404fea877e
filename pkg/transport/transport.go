package transport

import (
	"errors"
	"time"

	"github.com/megatec-protocol/megatec-go/pkg/log"
)

// Transport errors.
var (
	// ErrTimeout indicates no complete frame arrived within the read timeout.
	ErrTimeout = errors.New("read timed out")

	// ErrClosed indicates the transport has been closed.
	ErrClosed = errors.New("transport is closed")

	// ErrDeviceNotFound indicates no device matched the requested identity.
	ErrDeviceNotFound = errors.New("device not found")

	// ErrFrameTooLarge indicates the device sent more bytes than a frame may hold.
	ErrFrameTooLarge = errors.New("frame too large")
)

// Transport is a byte-oriented channel to one UPS device. Implementations
// deliver complete protocol frames: Write sends one command frame, Read
// returns one reply frame (terminator included) or fails after timeout.
//
// A Transport is a single-owner resource; it is not safe for concurrent
// use. The session layer owns it exclusively.
type Transport interface {
	// Write sends one complete command frame to the device.
	Write(p []byte) error

	// Read returns the next reply frame, waiting at most timeout.
	Read(timeout time.Duration) ([]byte, error)

	// Close releases the device handle. Further calls fail with ErrClosed.
	Close() error
}

// LoggingTransport is implemented by transports that can emit protocol
// capture events for the frames they carry.
type LoggingTransport interface {
	// SetLogger configures frame capture. Pass nil to disable.
	SetLogger(logger log.Logger, sessionID string)
}

// Compile-time interface satisfaction checks.
var (
	_ Transport        = (*SerialTransport)(nil)
	_ Transport        = (*USBTransport)(nil)
	_ Transport        = (*Recorder)(nil)
	_ LoggingTransport = (*SerialTransport)(nil)
	_ LoggingTransport = (*USBTransport)(nil)
)
