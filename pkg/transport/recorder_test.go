package transport

import (
	"errors"
	"testing"
	"time"
)

func TestRecorderRecordsWrites(t *testing.T) {
	r := NewRecorder()
	if err := r.Write([]byte("Q1\r")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := r.Write([]byte("F\r")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	writes := r.Writes()
	if len(writes) != 2 || string(writes[0]) != "Q1\r" || string(writes[1]) != "F\r" {
		t.Errorf("unexpected writes: %q", writes)
	}
	if r.WriteCount() != 2 {
		t.Errorf("WriteCount: got %d, want 2", r.WriteCount())
	}
}

func TestRecorderServesScriptedReplies(t *testing.T) {
	r := NewRecorder()
	r.QueueReply([]byte("#1.0 2.0\r"))
	r.QueueError(errors.New("bus reset"))

	data, err := r.Read(time.Second)
	if err != nil || string(data) != "#1.0 2.0\r" {
		t.Errorf("first read: got %q/%v", data, err)
	}

	if _, err := r.Read(time.Second); err == nil {
		t.Error("scripted error not returned")
	}

	// Exhausted script models a silent device.
	if _, err := r.Read(time.Second); !errors.Is(err, ErrTimeout) {
		t.Errorf("exhausted read: got %v, want ErrTimeout", err)
	}
}

func TestRecorderClosed(t *testing.T) {
	r := NewRecorder()
	if err := r.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !r.Closed() {
		t.Error("Closed() = false after Close")
	}
	if err := r.Write([]byte("Q1\r")); !errors.Is(err, ErrClosed) {
		t.Errorf("write after close: got %v, want ErrClosed", err)
	}
	if _, err := r.Read(time.Second); !errors.Is(err, ErrClosed) {
		t.Errorf("read after close: got %v, want ErrClosed", err)
	}
}
