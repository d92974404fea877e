package wire

import (
	"errors"
	"testing"
)

func TestCommandEncode(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
		want string
	}{
		{name: "status", cmd: QueryStatus(), want: "Q1\r"},
		{name: "status no ack", cmd: QueryStatusNoAck(), want: "Q1\r"},
		{name: "rating", cmd: QueryRating(), want: "F\r"},
		{name: "name", cmd: QueryName(), want: "I\r"},
		{name: "test default", cmd: TestDefault(), want: "T\r"},
		{name: "test until low", cmd: TestUntilLow(), want: "TL\r"},
		{name: "test 1 minute", cmd: TestMinutes(1), want: "T101\r"},
		{name: "test 9 minutes", cmd: TestMinutes(9), want: "T109\r"},
		{name: "test 10 minutes", cmd: TestMinutes(10), want: "T125\r"},
		{name: "test 19 minutes", cmd: TestMinutes(19), want: "T134\r"},
		{name: "test 20 minutes", cmd: TestMinutes(20), want: "T135\r"},
		{name: "test 99 minutes", cmd: TestMinutes(99), want: "T214\r"},
		{name: "abort test", cmd: AbortTest(), want: "CT\r"},
		{name: "toggle beep", cmd: ToggleBeep(), want: "Q\r"},
		{name: "shutdown", cmd: Shutdown(), want: "S01\r"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cmd.Encode()
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Encode: got %q, want %q", got, tt.want)
			}
			if got[len(got)-1] != Terminator {
				t.Errorf("frame not CR-terminated: %q", got)
			}
		})
	}
}

func TestCommandEncodeInvalidTime(t *testing.T) {
	for _, minutes := range []int{-1, 0, 100, 255, 1000} {
		data, err := TestMinutes(minutes).Encode()
		if !errors.Is(err, ErrInvalidTime) {
			t.Errorf("TestMinutes(%d): got err %v, want ErrInvalidTime", minutes, err)
		}
		if data != nil {
			t.Errorf("TestMinutes(%d): emitted bytes %q on failure", minutes, data)
		}
	}
}

func TestDurationCodeBands(t *testing.T) {
	// First band: 100+n.
	for n := 1; n <= 9; n++ {
		code, err := DurationCode(n)
		if err != nil {
			t.Fatalf("DurationCode(%d) failed: %v", n, err)
		}
		if code != 100+n {
			t.Errorf("DurationCode(%d): got %d, want %d", n, code, 100+n)
		}
	}

	// Second band: 115+n.
	for n := 10; n <= 19; n++ {
		code, err := DurationCode(n)
		if err != nil {
			t.Fatalf("DurationCode(%d) failed: %v", n, err)
		}
		if code != 115+n {
			t.Errorf("DurationCode(%d): got %d, want %d", n, code, 115+n)
		}
	}

	// Published boundary samples.
	boundaries := map[int]int{1: 101, 9: 109, 10: 125, 19: 134, 20: 135}
	for n, want := range boundaries {
		code, err := DurationCode(n)
		if err != nil {
			t.Fatalf("DurationCode(%d) failed: %v", n, err)
		}
		if code != want {
			t.Errorf("DurationCode(%d): got %d, want %d", n, code, want)
		}
	}
}

func TestDurationCodeStrictlyIncreasing(t *testing.T) {
	prev, err := DurationCode(1)
	if err != nil {
		t.Fatalf("DurationCode(1) failed: %v", err)
	}
	for n := 2; n <= 99; n++ {
		code, err := DurationCode(n)
		if err != nil {
			t.Fatalf("DurationCode(%d) failed: %v", n, err)
		}
		if code <= prev {
			t.Errorf("DurationCode not strictly increasing at n=%d: %d <= %d", n, code, prev)
		}
		prev = code
	}
}

func TestKindString(t *testing.T) {
	kinds := []Kind{
		KindStatus, KindStatusNoAck, KindRating, KindName,
		KindTestDefault, KindTestUntilLow, KindTestMinutes,
		KindAbortTest, KindToggleBeep, KindShutdown,
	}
	seen := make(map[string]bool)
	for _, k := range kinds {
		s := k.String()
		if s == "UNKNOWN" || s == "" {
			t.Errorf("Kind(%d) has no name", k)
		}
		if seen[s] {
			t.Errorf("duplicate kind name %q", s)
		}
		seen[s] = true
	}
	if Kind(200).String() != "UNKNOWN" {
		t.Error("out-of-range kind should be UNKNOWN")
	}
}

func TestCommandReplyShape(t *testing.T) {
	tests := []struct {
		cmd  Command
		want Reply
	}{
		{QueryStatus(), ReplyStatus},
		{QueryStatusNoAck(), ReplyStatus},
		{QueryRating(), ReplyRating},
		{QueryName(), ReplyName},
		{TestDefault(), ReplyNone},
		{TestUntilLow(), ReplyNone},
		{TestMinutes(5), ReplyNone},
		{AbortTest(), ReplyNone},
		{ToggleBeep(), ReplyNone},
		{Shutdown(), ReplyNone},
	}
	for _, tt := range tests {
		if got := tt.cmd.Reply(); got != tt.want {
			t.Errorf("%v.Reply(): got %v, want %v", tt.cmd.Kind, got, tt.want)
		}
	}
}
