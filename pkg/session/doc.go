// Package session implements the Mega(USB) command session.
//
// A Session owns one transport exclusively and sequences one
// request/response exchange per call: encode the command (pkg/wire),
// write it, read the reply within the configured timeout, then parse and
// decode it against the shape the command expects. Encoder failures abort
// before any I/O; transport failures and malformed replies surface to the
// caller unretried, since retrying a shutdown or beeper toggle could
// double-toggle device state. Retry policy belongs to the caller.
//
// A Session is not safe for concurrent use. The protocol has no request
// IDs to disambiguate interleaved replies; callers serialize their own
// calls. Cancellation mid-exchange is not supported: the read timeout is
// the only boundary, and a command whose reply was missed may still have
// been processed by the device.
package session
