package wire

import (
	"fmt"
	"strings"
)

// Framing constants.
const (
	// Terminator ends every command and reply frame.
	Terminator = '\r'

	// Marker prefixes every solicited data reply.
	Marker = '#'

	// StatusFieldCount is the number of fields in a status reply.
	StatusFieldCount = 7

	// RatingFieldCount is the number of fields in a rating reply.
	RatingFieldCount = 4
)

// Character-set bounds. Replies may only contain printable ASCII,
// excluding the quote, backtick, and open-paren bytes.
const (
	asciiMin     = 32
	asciiMax     = 126
	charQuote    = 34
	charParen    = 40
	charBacktick = 96
)

// ValidChar reports whether c is allowed inside a reply frame.
func ValidChar(c byte) bool {
	return c >= asciiMin && c <= asciiMax &&
		c != charQuote && c != charBacktick && c != charParen
}

// ValidateFrame checks that raw is a well-formed frame: non-empty,
// terminated by a carriage return, and containing only allowed bytes.
// It does not require a marker; use it for minimal acknowledgments.
func ValidateFrame(raw []byte) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: empty frame", ErrInvalidResponse)
	}
	if raw[len(raw)-1] != Terminator {
		return fmt.Errorf("%w: missing terminator", ErrInvalidResponse)
	}
	for i, c := range raw[:len(raw)-1] {
		if !ValidChar(c) {
			return fmt.Errorf("%w: illegal byte 0x%02x at offset %d", ErrInvalidResponse, c, i)
		}
	}
	return nil
}

// ParseFrame validates a raw reply frame and splits it into field tokens.
// The frame must begin with the marker byte, end with the terminator, and
// contain only allowed bytes; fields are separated by single spaces.
//
// ParseFrame is purely lexical. It does not check field counts or field
// contents; that is the decoder's concern.
func ParseFrame(raw []byte, marker byte) ([]string, error) {
	if err := ValidateFrame(raw); err != nil {
		return nil, err
	}
	if raw[0] != marker {
		return nil, fmt.Errorf("%w: want marker %q, got %q", ErrInvalidResponse, marker, raw[0])
	}

	body := string(raw[1 : len(raw)-1])
	if body == "" {
		return nil, nil
	}
	fields := strings.Split(body, " ")
	for _, f := range fields {
		if f == "" {
			return nil, fmt.Errorf("%w: empty field", ErrInvalidResponse)
		}
	}
	return fields, nil
}
