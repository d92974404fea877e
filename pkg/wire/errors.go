package wire

import "errors"

// Codec errors.
var (
	// ErrInvalidResponse indicates a reply failed prefix, terminator,
	// character-set, field-count, or numeric validation.
	ErrInvalidResponse = errors.New("invalid response")

	// ErrInvalidTime indicates a test duration outside the encodable
	// [1,99] minute range. Raised before any I/O occurs.
	ErrInvalidTime = errors.New("invalid time value")
)
