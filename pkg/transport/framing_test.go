package transport

import (
	"bytes"
	"errors"
	"testing"

	"github.com/megatec-protocol/megatec-go/pkg/log"
)

func TestFrameWriterWritesFrame(t *testing.T) {
	var buf bytes.Buffer
	fw := NewFrameWriter(&buf)

	if err := fw.WriteFrame([]byte("Q1\r")); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}
	if buf.String() != "Q1\r" {
		t.Errorf("wrote %q, want %q", buf.String(), "Q1\r")
	}
}

func TestFrameWriterRejectsBadFrames(t *testing.T) {
	fw := NewFrameWriter(&bytes.Buffer{})

	if err := fw.WriteFrame(nil); !errors.Is(err, ErrFrameEmpty) {
		t.Errorf("empty frame: got %v, want ErrFrameEmpty", err)
	}
	if err := fw.WriteFrame([]byte("Q1")); err == nil {
		t.Error("unterminated frame accepted")
	}
	big := make([]byte, MaxFrameSize+1)
	big[len(big)-1] = FrameTerminator
	if err := fw.WriteFrame(big); !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("oversized frame: got %v, want ErrFrameTooLarge", err)
	}
}

func TestFrameReaderSplitsFrames(t *testing.T) {
	buf := bytes.NewBufferString("#120.0 002.0\rOK\r")
	fr := NewFrameReader(buf)

	first, err := fr.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}
	if string(first) != "#120.0 002.0\r" {
		t.Errorf("first frame: got %q", first)
	}

	second, err := fr.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}
	if string(second) != "OK\r" {
		t.Errorf("second frame: got %q", second)
	}
}

func TestExtractFrame(t *testing.T) {
	frame, rest, ok := ExtractFrame([]byte("abc\rdef"))
	if !ok || string(frame) != "abc\r" || string(rest) != "def" {
		t.Errorf("got %q/%q/%v", frame, rest, ok)
	}

	if _, rest, ok := ExtractFrame([]byte("abc")); ok || string(rest) != "abc" {
		t.Error("incomplete frame reported complete")
	}

	if _, _, ok := ExtractFrame(nil); ok {
		t.Error("empty buffer reported complete")
	}
}

// eventSink collects capture events.
type eventSink struct {
	events []log.Event
}

func (s *eventSink) Log(e log.Event) { s.events = append(s.events, e) }

func TestFramingCapturesEvents(t *testing.T) {
	var buf bytes.Buffer
	sink := &eventSink{}

	fw := NewFrameWriter(&buf)
	fw.SetLogger(sink, "sess-1")
	if err := fw.WriteFrame([]byte("F\r")); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}

	fr := NewFrameReader(bytes.NewBufferString("#230.0 004.0 12.00 50.0\r"))
	fr.SetLogger(sink, "sess-1")
	if _, err := fr.ReadFrame(); err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}

	if len(sink.events) != 2 {
		t.Fatalf("got %d events, want 2", len(sink.events))
	}
	if sink.events[0].Direction != log.DirectionOut || sink.events[1].Direction != log.DirectionIn {
		t.Error("event directions wrong")
	}
	for _, e := range sink.events {
		if e.SessionID != "sess-1" || e.Layer != log.LayerTransport || e.Frame == nil {
			t.Errorf("malformed capture event: %+v", e)
		}
	}
}
