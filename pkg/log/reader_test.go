package log

import (
	"io"
	"path/filepath"
	"testing"
	"time"
)

// writeEvents writes a small capture file and returns its path.
func writeEvents(t *testing.T, events []Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reader.mlog")
	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	return path
}

func TestFilteredReader(t *testing.T) {
	now := time.Now()
	out := DirectionOut
	wireLayer := LayerWire

	events := []Event{
		{Timestamp: now, SessionID: "a", Direction: DirectionOut, Layer: LayerTransport, Category: CategoryFrame, Command: "STATUS"},
		{Timestamp: now, SessionID: "a", Direction: DirectionIn, Layer: LayerTransport, Category: CategoryFrame, Command: "STATUS"},
		{Timestamp: now, SessionID: "b", Direction: DirectionOut, Layer: LayerWire, Category: CategoryError, Command: "RATING"},
	}
	path := writeEvents(t, events)

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{name: "all", filter: Filter{}, want: 3},
		{name: "by session", filter: Filter{SessionID: "a"}, want: 2},
		{name: "by direction", filter: Filter{Direction: &out}, want: 2},
		{name: "by layer", filter: Filter{Layer: &wireLayer}, want: 1},
		{name: "by command", filter: Filter{Command: "RATING"}, want: 1},
		{name: "no match", filter: Filter{SessionID: "missing"}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader, err := NewFilteredReader(path, tt.filter)
			if err != nil {
				t.Fatalf("NewFilteredReader failed: %v", err)
			}
			defer reader.Close()

			count := 0
			for {
				_, err := reader.Next()
				if err == io.EOF {
					break
				}
				if err != nil {
					t.Fatalf("Next failed: %v", err)
				}
				count++
			}
			if count != tt.want {
				t.Errorf("got %d events, want %d", count, tt.want)
			}
		})
	}
}

func TestReaderMissingFile(t *testing.T) {
	if _, err := NewReader(filepath.Join(t.TempDir(), "missing.mlog")); err == nil {
		t.Error("expected error opening missing file")
	}
}
