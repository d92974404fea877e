package transport

import (
	"fmt"
	"sync"
	"time"
)

// Recorder is an in-memory Transport for tests. It records every frame
// written and serves scripted replies in order. When the reply script is
// exhausted, Read fails with ErrTimeout, which models a silent device.
type Recorder struct {
	mu       sync.Mutex
	writes   [][]byte
	replies  []scriptedReply
	writeErr error
	closed   bool
}

type scriptedReply struct {
	data []byte
	err  error
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// QueueReply schedules a reply frame for a future Read.
func (r *Recorder) QueueReply(data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replies = append(r.replies, scriptedReply{data: append([]byte(nil), data...)})
}

// QueueError schedules a Read failure.
func (r *Recorder) QueueError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replies = append(r.replies, scriptedReply{err: err})
}

// FailWrites makes every subsequent Write fail with err.
func (r *Recorder) FailWrites(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writeErr = err
}

// Write records the frame.
func (r *Recorder) Write(p []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	if r.writeErr != nil {
		return r.writeErr
	}
	r.writes = append(r.writes, append([]byte(nil), p...))
	return nil
}

// Read pops the next scripted reply.
func (r *Recorder) Read(timeout time.Duration) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrClosed
	}
	if len(r.replies) == 0 {
		return nil, fmt.Errorf("%w after %v", ErrTimeout, timeout)
	}
	next := r.replies[0]
	r.replies = r.replies[1:]
	if next.err != nil {
		return nil, next.err
	}
	return next.data, nil
}

// Close marks the recorder closed.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Writes returns copies of all recorded frames, in write order.
func (r *Recorder) Writes() [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]byte, len(r.writes))
	for i, w := range r.writes {
		out[i] = append([]byte(nil), w...)
	}
	return out
}

// WriteCount returns the number of frames written so far.
func (r *Recorder) WriteCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.writes)
}

// Closed reports whether Close has been called.
func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}
