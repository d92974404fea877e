package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestSlogAdapterWritesAttributes(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	adapter := NewSlogAdapter(slog.New(handler))

	adapter.Log(Event{
		Timestamp: time.Now(),
		SessionID: "sess-42",
		Direction: DirectionOut,
		Layer:     LayerTransport,
		Category:  CategoryFrame,
		Command:   "STATUS",
		Frame:     &FrameEvent{Size: 3, Data: []byte("Q1\r")},
	})

	out := buf.String()
	for _, want := range []string{"sess-42", "direction=OUT", "layer=TRANSPORT", "category=FRAME", "command=STATUS", "frame_size=3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}
}

func TestSlogAdapterErrorEvent(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	adapter := NewSlogAdapter(slog.New(handler))

	adapter.Log(Event{
		Timestamp: time.Now(),
		SessionID: "sess-42",
		Direction: DirectionIn,
		Layer:     LayerWire,
		Category:  CategoryError,
		Error:     &ErrorEventData{Layer: LayerWire, Message: "invalid response", Context: "decode status"},
	})

	out := buf.String()
	for _, want := range []string{"error_layer=WIRE", "invalid response", "decode status"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}
}
