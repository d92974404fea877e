package log

import (
	"sync"
	"testing"
)

// captureLogger records events in memory for assertions.
type captureLogger struct {
	mu     sync.Mutex
	events []Event
}

func (c *captureLogger) Log(event Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *captureLogger) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func TestMultiLoggerFansOut(t *testing.T) {
	a := &captureLogger{}
	b := &captureLogger{}
	multi := NewMultiLogger(a, b)

	multi.Log(Event{SessionID: "1"})
	multi.Log(Event{SessionID: "2"})

	if a.count() != 2 || b.count() != 2 {
		t.Errorf("fan-out failed: a=%d b=%d, want 2/2", a.count(), b.count())
	}
}

func TestMultiLoggerEmpty(t *testing.T) {
	// Must not panic with no loggers.
	NewMultiLogger().Log(Event{})
}

func TestNoopLogger(t *testing.T) {
	// Usable as a zero value, discards everything.
	var l NoopLogger
	l.Log(Event{SessionID: "ignored"})
}
