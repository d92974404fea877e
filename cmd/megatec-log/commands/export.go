package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/megatec-protocol/megatec-go/pkg/log"
)

// exportedEvent is the JSONL shape of a capture event: enums become
// their string names and frame bytes become a quoted string, keeping the
// output greppable.
type exportedEvent struct {
	Timestamp time.Time       `json:"timestamp"`
	SessionID string          `json:"sessionId"`
	Direction string          `json:"direction,omitempty"`
	Layer     string          `json:"layer"`
	Category  string          `json:"category"`
	Command   string          `json:"command,omitempty"`
	Frame     *exportedFrame  `json:"frame,omitempty"`
	State     *exportedState  `json:"state,omitempty"`
	Error     *exportedError  `json:"error,omitempty"`
}

type exportedFrame struct {
	Size      int    `json:"size"`
	Data      string `json:"data,omitempty"`
	Truncated bool   `json:"truncated,omitempty"`
}

type exportedState struct {
	OldState string `json:"oldState,omitempty"`
	NewState string `json:"newState"`
	Reason   string `json:"reason,omitempty"`
}

type exportedError struct {
	Layer   string `json:"layer"`
	Message string `json:"message"`
	Context string `json:"context,omitempty"`
}

// RunExport writes the capture file as JSONL to output (stdout when
// output is empty).
func RunExport(path, output string) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open capture file: %w", err)
	}
	defer reader.Close()

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	return ExportJSONL(reader, w)
}

// ExportJSONL writes one JSON object per event.
func ExportJSONL(reader *log.Reader, w io.Writer) error {
	enc := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := enc.Encode(convertEvent(event)); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
}

func convertEvent(event log.Event) exportedEvent {
	out := exportedEvent{
		Timestamp: event.Timestamp,
		SessionID: event.SessionID,
		Layer:     event.Layer.String(),
		Category:  event.Category.String(),
		Command:   event.Command,
	}
	if event.Category == log.CategoryFrame {
		out.Direction = event.Direction.String()
	}
	if event.Frame != nil {
		out.Frame = &exportedFrame{
			Size:      event.Frame.Size,
			Data:      string(event.Frame.Data),
			Truncated: event.Frame.Truncated,
		}
	}
	if event.State != nil {
		out.State = &exportedState{
			OldState: event.State.OldState,
			NewState: event.State.NewState,
			Reason:   event.State.Reason,
		}
	}
	if event.Error != nil {
		out.Error = &exportedError{
			Layer:   event.Error.Layer.String(),
			Message: event.Error.Message,
			Context: event.Error.Context,
		}
	}
	return out
}
