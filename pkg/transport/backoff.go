package transport

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Backoff constants for device open retries. UPS devices can take
// several seconds to enumerate after plug-in or power-up.
const (
	// InitialBackoff is the initial retry delay.
	InitialBackoff = 1 * time.Second

	// MaxBackoff is the maximum retry delay.
	MaxBackoff = 30 * time.Second

	// BackoffMultiplier is the factor by which backoff increases.
	BackoffMultiplier = 2.0

	// JitterFactor is the maximum jitter as a fraction of base delay.
	JitterFactor = 0.25
)

// Backoff calculates exponential backoff delays with jitter.
type Backoff struct {
	mu sync.Mutex

	// Current backoff delay (before jitter)
	current time.Duration

	// Configuration
	initial    time.Duration
	max        time.Duration
	multiplier float64
	jitter     float64

	// Attempt counter
	attempts int

	// Random source for jitter
	rng *rand.Rand
}

// NewBackoff creates a new backoff calculator with default settings.
func NewBackoff() *Backoff {
	return &Backoff{
		current:    InitialBackoff,
		initial:    InitialBackoff,
		max:        MaxBackoff,
		multiplier: BackoffMultiplier,
		jitter:     JitterFactor,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Next returns the next backoff delay (with jitter) and advances the backoff.
func (b *Backoff) Next() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	delay := b.addJitter(b.current)

	b.attempts++
	next := time.Duration(float64(b.current) * b.multiplier)
	if next > b.max {
		next = b.max
	}
	b.current = next

	return delay
}

// Reset resets the backoff to initial values.
// Call this after a successful open.
func (b *Backoff) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = b.initial
	b.attempts = 0
}

// Attempts returns the number of backoff attempts since last reset.
func (b *Backoff) Attempts() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.attempts
}

// addJitter adds random jitter to a delay.
func (b *Backoff) addJitter(d time.Duration) time.Duration {
	if b.jitter <= 0 {
		return d
	}
	jitterAmount := time.Duration(float64(d) * b.jitter * b.rng.Float64())
	return d + jitterAmount
}

// OpenSerialWithRetry opens a serial transport, retrying with exponential
// backoff until the context is done.
func OpenSerialWithRetry(ctx context.Context, path string, cfg SerialConfig) (*SerialTransport, error) {
	var lastErr error
	b := NewBackoff()
	for {
		t, err := OpenSerial(path, cfg)
		if err == nil {
			return t, nil
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("open %s: %w (last error: %v)", path, ctx.Err(), lastErr)
		case <-time.After(b.Next()):
		}
	}
}

// OpenUSBWithRetry opens a USB transport, retrying with exponential
// backoff until the context is done.
func OpenUSBWithRetry(ctx context.Context, vid, pid uint16) (*USBTransport, error) {
	var lastErr error
	b := NewBackoff()
	for {
		t, err := OpenUSB(vid, pid)
		if err == nil {
			return t, nil
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("open %04x:%04x: %w (last error: %v)", vid, pid, ctx.Err(), lastErr)
		case <-time.After(b.Next()):
		}
	}
}
