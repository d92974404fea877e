package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/megatec-protocol/megatec-go/pkg/log"
	"github.com/megatec-protocol/megatec-go/pkg/transport"
	"github.com/megatec-protocol/megatec-go/pkg/wire"
)

const (
	// DefaultReadTimeout bounds how long a single read waits for a reply.
	DefaultReadTimeout = 3 * time.Second

	// DefaultAckDelay is the pause between the acknowledgment round and
	// the real status query. The device needs roughly a second to refresh
	// its readings after acknowledging.
	DefaultAckDelay = 1 * time.Second
)

// Config carries the tunable parameters of a Session. The zero value is
// usable; unset fields fall back to defaults.
type Config struct {
	// ReadTimeout bounds each reply read. Defaults to DefaultReadTimeout.
	ReadTimeout time.Duration

	// AckDelay is the wait between the status acknowledgment round and the
	// decoded query. Defaults to DefaultAckDelay.
	AckDelay time.Duration

	// Logger receives protocol capture events. Nil disables capture.
	Logger log.Logger

	// ID identifies this session in capture logs. A random UUID is
	// generated when empty.
	ID string
}

// Session owns one transport and issues commands over it one at a time.
// Not safe for concurrent use.
type Session struct {
	t       transport.Transport
	timeout time.Duration
	ackWait time.Duration
	logger  log.Logger
	id      string
	closed  bool
}

// New wraps an already-open transport in a Session. The Session takes
// ownership: Close closes the transport.
func New(t transport.Transport, cfg Config) *Session {
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if cfg.AckDelay <= 0 {
		cfg.AckDelay = DefaultAckDelay
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NoopLogger{}
	}
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	s := &Session{
		t:       t,
		timeout: cfg.ReadTimeout,
		ackWait: cfg.AckDelay,
		logger:  cfg.Logger,
		id:      cfg.ID,
	}
	if lt, ok := t.(transport.LoggingTransport); ok {
		lt.SetLogger(cfg.Logger, cfg.ID)
	}
	s.logState("", "open", "session created")
	return s
}

// Open opens the USB device with the given vendor/product IDs and starts
// a session on it.
func Open(vid, pid uint16, cfg Config) (*Session, error) {
	t, err := transport.OpenUSB(vid, pid)
	if err != nil {
		return nil, err
	}
	return New(t, cfg), nil
}

// OpenPort opens the serial port at path and starts a session on it.
func OpenPort(path string, cfg Config) (*Session, error) {
	t, err := transport.OpenSerial(path, transport.SerialConfig{})
	if err != nil {
		return nil, err
	}
	return New(t, cfg), nil
}

// ID returns the session identifier used in capture logs.
func (s *Session) ID() string { return s.id }

// Close releases the underlying transport. Further calls on the session
// fail with transport.ErrClosed.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.logState("open", "closed", "")
	return s.t.Close()
}

// Name queries the device's identifying string. Padding-only replies
// yield an empty name.
func (s *Session) Name() (string, error) {
	raw, err := s.exchange(wire.QueryName())
	if err != nil {
		return "", err
	}
	return wire.DecodeName(raw), nil
}

// Rating queries the nameplate rating information.
func (s *Session) Rating() (wire.Rating, error) {
	raw, err := s.exchange(wire.QueryRating())
	if err != nil {
		return wire.Rating{}, err
	}
	fields, err := s.parse(wire.QueryRating(), raw)
	if err != nil {
		return wire.Rating{}, err
	}
	rating, err := wire.DecodeRating(fields)
	if err != nil {
		s.logError(log.LayerWire, wire.QueryRating(), err, "decode rating reply")
		return wire.Rating{}, err
	}
	return rating, nil
}

// Status queries a live status snapshot using the full acknowledgment
// round: the first query's reply is read and discarded, the session waits
// AckDelay, then queries again and decodes that reply. The discard gives
// the device time to refresh stale readings.
func (s *Session) Status() (wire.Status, error) {
	if _, err := s.exchange(wire.QueryStatus()); err != nil {
		return wire.Status{}, err
	}
	time.Sleep(s.ackWait)
	return s.readStatus(wire.QueryStatus())
}

// StatusNoAck queries a live status snapshot in a single round, skipping
// the acknowledgment discipline. Faster, but the reading may be stale.
func (s *Session) StatusNoAck() (wire.Status, error) {
	return s.readStatus(wire.QueryStatusNoAck())
}

func (s *Session) readStatus(cmd wire.Command) (wire.Status, error) {
	raw, err := s.exchange(cmd)
	if err != nil {
		return wire.Status{}, err
	}
	fields, err := s.parse(cmd, raw)
	if err != nil {
		return wire.Status{}, err
	}
	status, err := wire.DecodeStatus(fields)
	if err != nil {
		s.logError(log.LayerWire, cmd, err, "decode status reply")
		return wire.Status{}, err
	}
	return status, nil
}

// Test starts the default 10-second battery test.
func (s *Session) Test() error {
	return s.control(wire.TestDefault())
}

// TestUntilBatteryLow starts a battery test that runs until the battery
// is low.
func (s *Session) TestUntilBatteryLow() error {
	return s.control(wire.TestUntilLow())
}

// TestWithTime starts a timed battery test of the given duration in
// minutes. Durations outside [1,99] fail with wire.ErrInvalidTime before
// anything is written to the device.
func (s *Session) TestWithTime(minutes int) error {
	return s.control(wire.TestMinutes(minutes))
}

// AbortTest cancels a running battery test.
func (s *Session) AbortTest() error {
	return s.control(wire.AbortTest())
}

// SwitchBeep toggles the UPS beeper. The protocol exposes only a toggle;
// the resulting beeper state is not reported back.
func (s *Session) SwitchBeep() error {
	return s.control(wire.ToggleBeep())
}

// Shutdown tells the UPS to cut output power after the protocol's fixed
// one-minute delay. There is no way to cancel it over the wire once sent.
func (s *Session) Shutdown() error {
	return s.control(wire.Shutdown())
}

// exchange performs one write/read round and returns the raw reply.
func (s *Session) exchange(cmd wire.Command) ([]byte, error) {
	if s.closed {
		return nil, transport.ErrClosed
	}
	frame, err := cmd.Encode()
	if err != nil {
		s.logError(log.LayerWire, cmd, err, "encode command")
		return nil, err
	}
	if err := s.t.Write(frame); err != nil {
		s.logError(log.LayerTransport, cmd, err, "write command")
		return nil, fmt.Errorf("write %v: %w", cmd.Kind, err)
	}
	raw, err := s.t.Read(s.timeout)
	if err != nil {
		s.logError(log.LayerTransport, cmd, err, "read reply")
		return nil, fmt.Errorf("read %v reply: %w", cmd.Kind, err)
	}
	return raw, nil
}

// parse runs lexical frame validation and splits the marked fields.
func (s *Session) parse(cmd wire.Command, raw []byte) ([]string, error) {
	fields, err := wire.ParseFrame(raw, wire.Marker)
	if err != nil {
		s.logError(log.LayerWire, cmd, err, "parse reply frame")
		return nil, fmt.Errorf("%v reply: %w", cmd.Kind, err)
	}
	return fields, nil
}

// control sends a command that expects no data reply. The command
// succeeds when the write lands and the device either stays silent
// (read timeout) or returns a minimal acknowledgment that passes frame
// validation.
func (s *Session) control(cmd wire.Command) error {
	if s.closed {
		return transport.ErrClosed
	}
	frame, err := cmd.Encode()
	if err != nil {
		s.logError(log.LayerWire, cmd, err, "encode command")
		return err
	}
	if err := s.t.Write(frame); err != nil {
		s.logError(log.LayerTransport, cmd, err, "write command")
		return fmt.Errorf("write %v: %w", cmd.Kind, err)
	}
	raw, err := s.t.Read(s.timeout)
	if err != nil {
		if errors.Is(err, transport.ErrTimeout) {
			// No reply expected; silence is success.
			return nil
		}
		s.logError(log.LayerTransport, cmd, err, "read acknowledgment")
		return fmt.Errorf("read %v acknowledgment: %w", cmd.Kind, err)
	}
	if err := wire.ValidateFrame(raw); err != nil {
		s.logError(log.LayerWire, cmd, err, "validate acknowledgment")
		return fmt.Errorf("%v acknowledgment: %w", cmd.Kind, err)
	}
	return nil
}

func (s *Session) logState(oldState, newState, reason string) {
	s.logger.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: s.id,
		Layer:     log.LayerSession,
		Category:  log.CategoryState,
		State: &log.StateChangeEvent{
			OldState: oldState,
			NewState: newState,
			Reason:   reason,
		},
	})
}

func (s *Session) logError(layer log.Layer, cmd wire.Command, err error, context string) {
	s.logger.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: s.id,
		Layer:     layer,
		Category:  log.CategoryError,
		Command:   cmd.Kind.String(),
		Error: &log.ErrorEventData{
			Layer:   layer,
			Message: err.Error(),
			Context: context,
		},
	})
}
