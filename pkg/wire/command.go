package wire

import (
	"fmt"
	"strconv"
)

// Kind identifies one of the fixed protocol operations.
type Kind uint8

const (
	// KindStatus queries a live status snapshot with acknowledgment.
	KindStatus Kind = iota
	// KindStatusNoAck queries a live status snapshot without the
	// acknowledgment round.
	KindStatusNoAck
	// KindRating queries the nameplate rating information.
	KindRating
	// KindName queries the device's identifying string.
	KindName
	// KindTestDefault runs the default 10-second battery test.
	KindTestDefault
	// KindTestUntilLow runs a battery test until the battery is low.
	KindTestUntilLow
	// KindTestMinutes runs a battery test for a fixed number of minutes.
	KindTestMinutes
	// KindAbortTest aborts a running battery test.
	KindAbortTest
	// KindToggleBeep toggles the UPS beeper.
	KindToggleBeep
	// KindShutdown shuts the UPS down after a fixed one-minute delay.
	KindShutdown
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindStatus:
		return "STATUS"
	case KindStatusNoAck:
		return "STATUS_NO_ACK"
	case KindRating:
		return "RATING"
	case KindName:
		return "NAME"
	case KindTestDefault:
		return "TEST_DEFAULT"
	case KindTestUntilLow:
		return "TEST_UNTIL_LOW"
	case KindTestMinutes:
		return "TEST_MINUTES"
	case KindAbortTest:
		return "ABORT_TEST"
	case KindToggleBeep:
		return "TOGGLE_BEEP"
	case KindShutdown:
		return "SHUTDOWN"
	default:
		return "UNKNOWN"
	}
}

// Reply describes the reply shape a command expects.
type Reply uint8

const (
	// ReplyNone means no reply is expected; a minimal acknowledgment
	// frame may still arrive and must pass lexical validation.
	ReplyNone Reply = iota
	// ReplyStatus is a '#'-marked line with the seven status fields.
	ReplyStatus
	// ReplyRating is a '#'-marked line with the four rating fields.
	ReplyRating
	// ReplyName is free text, stripped of padding.
	ReplyName
)

// String returns the reply shape name.
func (r Reply) String() string {
	switch r {
	case ReplyNone:
		return "NONE"
	case ReplyStatus:
		return "STATUS"
	case ReplyRating:
		return "RATING"
	case ReplyName:
		return "NAME"
	default:
		return "UNKNOWN"
	}
}

// Command is a transient value describing one protocol operation.
// Minutes is only meaningful for KindTestMinutes.
type Command struct {
	Kind    Kind
	Minutes int
}

// QueryStatus returns the status query command (with acknowledgment).
func QueryStatus() Command { return Command{Kind: KindStatus} }

// QueryStatusNoAck returns the status query command without acknowledgment.
func QueryStatusNoAck() Command { return Command{Kind: KindStatusNoAck} }

// QueryRating returns the rating query command.
func QueryRating() Command { return Command{Kind: KindRating} }

// QueryName returns the name query command.
func QueryName() Command { return Command{Kind: KindName} }

// TestDefault returns the 10-second battery test command.
func TestDefault() Command { return Command{Kind: KindTestDefault} }

// TestUntilLow returns the test-until-battery-low command.
func TestUntilLow() Command { return Command{Kind: KindTestUntilLow} }

// TestMinutes returns a timed battery test command. The duration is
// validated at encode time.
func TestMinutes(minutes int) Command {
	return Command{Kind: KindTestMinutes, Minutes: minutes}
}

// AbortTest returns the abort-test command.
func AbortTest() Command { return Command{Kind: KindAbortTest} }

// ToggleBeep returns the beeper toggle command.
func ToggleBeep() Command { return Command{Kind: KindToggleBeep} }

// Shutdown returns the shutdown command. The one-minute delay is fixed
// by the protocol; it is not caller-configurable.
func Shutdown() Command { return Command{Kind: KindShutdown} }

// Reply returns the reply shape this command expects.
func (c Command) Reply() Reply {
	switch c.Kind {
	case KindStatus, KindStatusNoAck:
		return ReplyStatus
	case KindRating:
		return ReplyRating
	case KindName:
		return ReplyName
	default:
		return ReplyNone
	}
}

// Encode builds the exact frame bytes for the command, including the
// carriage-return terminator. For KindTestMinutes a duration outside
// [1,99] fails with ErrInvalidTime and no bytes are produced.
func (c Command) Encode() ([]byte, error) {
	switch c.Kind {
	case KindStatus, KindStatusNoAck:
		return []byte("Q1\r"), nil
	case KindRating:
		return []byte("F\r"), nil
	case KindName:
		return []byte("I\r"), nil
	case KindTestDefault:
		return []byte("T\r"), nil
	case KindTestUntilLow:
		return []byte("TL\r"), nil
	case KindTestMinutes:
		code, err := DurationCode(c.Minutes)
		if err != nil {
			return nil, err
		}
		return []byte("T" + strconv.Itoa(code) + "\r"), nil
	case KindAbortTest:
		return []byte("CT\r"), nil
	case KindToggleBeep:
		return []byte("Q\r"), nil
	case KindShutdown:
		// Fixed one-minute delay.
		return []byte("S01\r"), nil
	default:
		return nil, fmt.Errorf("unknown command kind %d", c.Kind)
	}
}

// DurationCode maps a test duration in minutes onto the protocol's
// re-mapped duration code. The mapping is strictly increasing over the
// whole [1,99] range:
//
//	n in [1,9]   -> 100+n (101..109)
//	n in [10,99] -> 115+n (125..214)
//
// Durations outside [1,99] fail with ErrInvalidTime.
func DurationCode(minutes int) (int, error) {
	switch {
	case minutes >= 1 && minutes <= 9:
		return 100 + minutes, nil
	case minutes >= 10 && minutes <= 99:
		return 115 + minutes, nil
	default:
		return 0, fmt.Errorf("%w: %d minutes (want 1..99)", ErrInvalidTime, minutes)
	}
}
