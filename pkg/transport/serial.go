package transport

import (
	"fmt"
	"time"

	"go.bug.st/serial"

	"github.com/megatec-protocol/megatec-go/pkg/log"
)

// Serial defaults. The Megatec serial profile is 2400 baud, 8N1.
const (
	DefaultBaudRate = 2400

	// serialPollInterval bounds each port read so the frame loop can
	// check its deadline.
	serialPollInterval = 50 * time.Millisecond
)

// SerialConfig configures a serial transport.
type SerialConfig struct {
	// BaudRate is the line speed (default 2400).
	BaudRate int
}

// SerialTransport carries protocol frames over a serial line.
type SerialTransport struct {
	port   serial.Port
	path   string
	writer *FrameWriter
	buf    []byte
	closed bool

	// Capture support (optional)
	logger    log.Logger
	sessionID string
}

// OpenSerial opens the serial device at path with the Megatec 8N1 profile.
func OpenSerial(path string, cfg SerialConfig) (*SerialTransport, error) {
	if cfg.BaudRate == 0 {
		cfg.BaudRate = DefaultBaudRate
	}
	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", path, err)
	}
	return &SerialTransport{
		port:   port,
		path:   path,
		writer: NewFrameWriter(port),
	}, nil
}

// SetLogger configures frame capture. Pass nil to disable.
func (t *SerialTransport) SetLogger(logger log.Logger, sessionID string) {
	t.logger = logger
	t.sessionID = sessionID
	t.writer.SetLogger(logger, sessionID)
}

// Write sends one command frame. Stale input buffered from a previous
// exchange is discarded first so the next Read sees only this command's
// reply.
func (t *SerialTransport) Write(p []byte) error {
	if t.closed {
		return ErrClosed
	}
	t.buf = t.buf[:0]
	if err := t.port.ResetInputBuffer(); err != nil {
		return fmt.Errorf("reset input buffer: %w", err)
	}
	return t.writer.WriteFrame(p)
}

// Read returns the next complete reply frame, waiting at most timeout.
func (t *SerialTransport) Read(timeout time.Duration) ([]byte, error) {
	if t.closed {
		return nil, ErrClosed
	}
	deadline := time.Now().Add(timeout)
	if err := t.port.SetReadTimeout(serialPollInterval); err != nil {
		return nil, fmt.Errorf("set read timeout: %w", err)
	}

	chunk := make([]byte, 64)
	for {
		if frame, rest, ok := ExtractFrame(t.buf); ok {
			t.buf = append([]byte(nil), rest...)
			if t.logger != nil {
				t.logger.Log(frameEvent(t.sessionID, frame, log.DirectionIn))
			}
			return frame, nil
		}
		if len(t.buf) > MaxFrameSize {
			return nil, fmt.Errorf("%w: %d buffered bytes without terminator", ErrFrameTooLarge, len(t.buf))
		}
		if !time.Now().Before(deadline) {
			return nil, fmt.Errorf("%w after %v on %s", ErrTimeout, timeout, t.path)
		}

		n, err := t.port.Read(chunk)
		if err != nil {
			return nil, fmt.Errorf("read from %s: %w", t.path, err)
		}
		t.buf = append(t.buf, chunk[:n]...)
	}
}

// Close releases the port.
func (t *SerialTransport) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	return t.port.Close()
}
