// Package log provides structured protocol capture for UPS sessions.
//
// This package defines the Logger interface and Event types for recording
// protocol-level events at the transport, wire, and session layers. It is
// separate from operational logging (slog): protocol capture yields a
// complete machine-readable trace of every exchange with the device, for
// debugging and offline analysis.
//
// # Basic Usage
//
// Applications configure capture by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.Logger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to a binary capture file
//	cfg.Logger, _ = log.NewFileLogger("/var/log/megatec/ups.mlog")
//
//	// Both: use MultiLogger
//	cfg.Logger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Types
//
// Events are captured at multiple layers:
//   - Transport: raw frame bytes (FrameEvent)
//   - Wire: encode/decode failures (ErrorEventData)
//   - Session: exchange lifecycle (StateChangeEvent)
//
// # File Format
//
// Capture files are a CBOR event stream with the .mlog extension. The
// megatec-log CLI tool provides viewing, filtering, export, and statistics.
package log
