package transport

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/megatec-protocol/megatec-go/pkg/log"
)

// Framing constants.
const (
	// FrameTerminator delimits frames on the wire.
	FrameTerminator = '\r'

	// MaxFrameSize is the largest frame a device may send. Status replies
	// are well under 64 bytes; anything bigger is a desynchronized stream.
	MaxFrameSize = 256
)

// Framing errors.
var (
	// ErrFrameEmpty indicates an attempt to write an empty frame.
	ErrFrameEmpty = errors.New("frame is empty")
)

// FrameWriter writes CR-terminated frames to an underlying writer.
type FrameWriter struct {
	w  io.Writer
	mu sync.Mutex

	// Capture support (optional)
	logger    log.Logger
	sessionID string
}

// NewFrameWriter creates a new frame writer.
func NewFrameWriter(w io.Writer) *FrameWriter {
	return &FrameWriter{w: w}
}

// SetLogger configures frame capture for this writer.
// Pass nil to disable capture.
func (fw *FrameWriter) SetLogger(logger log.Logger, sessionID string) {
	fw.logger = logger
	fw.sessionID = sessionID
}

// WriteFrame writes one complete frame. The frame must be non-empty,
// CR-terminated, and no larger than MaxFrameSize.
func (fw *FrameWriter) WriteFrame(data []byte) error {
	if len(data) == 0 {
		return ErrFrameEmpty
	}
	if len(data) > MaxFrameSize {
		return fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, len(data), MaxFrameSize)
	}
	if data[len(data)-1] != FrameTerminator {
		return fmt.Errorf("frame not terminated: %q", data)
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	if _, err := fw.w.Write(data); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}

	if fw.logger != nil {
		fw.logger.Log(frameEvent(fw.sessionID, data, log.DirectionOut))
	}
	return nil
}

// FrameReader reads CR-terminated frames from an underlying reader.
// Reads block until the underlying reader delivers bytes; timeout
// handling belongs to the transport that owns the reader.
type FrameReader struct {
	r   io.Reader
	buf []byte

	// Capture support (optional)
	logger    log.Logger
	sessionID string
}

// NewFrameReader creates a new frame reader.
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: r}
}

// SetLogger configures frame capture for this reader.
// Pass nil to disable capture.
func (fr *FrameReader) SetLogger(logger log.Logger, sessionID string) {
	fr.logger = logger
	fr.sessionID = sessionID
}

// ReadFrame reads bytes until a terminator arrives and returns the
// complete frame, terminator included.
func (fr *FrameReader) ReadFrame() ([]byte, error) {
	for {
		if frame, rest, ok := ExtractFrame(fr.buf); ok {
			fr.buf = rest
			if fr.logger != nil {
				fr.logger.Log(frameEvent(fr.sessionID, frame, log.DirectionIn))
			}
			return frame, nil
		}
		if len(fr.buf) > MaxFrameSize {
			return nil, fmt.Errorf("%w: %d buffered bytes without terminator", ErrFrameTooLarge, len(fr.buf))
		}

		chunk := make([]byte, 64)
		n, err := fr.r.Read(chunk)
		if n > 0 {
			fr.buf = append(fr.buf, chunk[:n]...)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read frame: %w", err)
		}
	}
}

// ExtractFrame splits buf at the first terminator. It returns the frame
// (terminator included), the remaining bytes, and whether a complete
// frame was present.
func ExtractFrame(buf []byte) (frame, rest []byte, ok bool) {
	for i, c := range buf {
		if c == FrameTerminator {
			return buf[:i+1], buf[i+1:], true
		}
	}
	return nil, buf, false
}

// frameEvent builds a transport-layer capture event for one frame.
func frameEvent(sessionID string, data []byte, direction log.Direction) log.Event {
	return log.Event{
		Timestamp: time.Now(),
		SessionID: sessionID,
		Direction: direction,
		Layer:     log.LayerTransport,
		Category:  log.CategoryFrame,
		Frame: &log.FrameEvent{
			Size: len(data),
			Data: data,
		},
	}
}
