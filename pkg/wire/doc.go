// Package wire defines the ASCII wire format for the Mega(USB) UPS protocol.
//
// Commands are short ASCII strings terminated by a carriage return, e.g.
// "Q1\r" for a status query or "F\r" for the rating query. Solicited data
// replies are space-delimited ASCII lines, prefixed by a '#' marker byte and
// terminated by a carriage return:
//
//	#120.0 002.0 230.0 050 50.0 012.0 030.0\r
//
// This package is purely a codec: it encodes Command values to frame bytes
// and parses/validates reply frames into typed results (Status, Rating, or
// a name string). It performs no I/O; see pkg/transport and pkg/session.
//
// # Layers
//
// Frame parsing is strictly lexical (marker, terminator, character set,
// field splitting). Decoding is semantic (field count, numeric parsing,
// fixed column order). Both fail with ErrInvalidResponse; encoding a test
// duration outside [1,99] fails with ErrInvalidTime.
package wire
