package wire

import (
	"fmt"
	"strconv"
)

// Status is an immutable snapshot of the live electrical and thermal
// readings reported by the device. All values are in the device's native
// units; no conversion is performed.
type Status struct {
	// InputVoltage is the mains input voltage (V).
	InputVoltage float64
	// InputFaultVoltage is the input voltage recorded at the last fault (V).
	InputFaultVoltage float64
	// OutputVoltage is the output voltage (V).
	OutputVoltage float64
	// OutputLoad is the output load percentage.
	OutputLoad float64
	// InputFrequency is the input frequency (Hz).
	InputFrequency float64
	// BatteryVoltage is the battery voltage (V).
	BatteryVoltage float64
	// Temperature is the internal temperature (degrees C).
	Temperature float64
}

// Rating is an immutable snapshot of the device's nameplate design
// limits, as opposed to Status's live readings.
type Rating struct {
	// Voltage is the rated output voltage (V).
	Voltage float64
	// Current is the rated output current (A).
	Current float64
	// BatteryVoltage is the nominal battery voltage (V).
	BatteryVoltage float64
	// Frequency is the rated frequency (Hz).
	Frequency float64
}

// DecodeStatus converts parsed frame fields into a Status. The device's
// column order is fixed: input voltage, input fault voltage, output
// voltage, output load %, input frequency, battery voltage, temperature.
func DecodeStatus(fields []string) (Status, error) {
	vals, err := decodeFloats(fields, StatusFieldCount)
	if err != nil {
		return Status{}, err
	}
	return Status{
		InputVoltage:      vals[0],
		InputFaultVoltage: vals[1],
		OutputVoltage:     vals[2],
		OutputLoad:        vals[3],
		InputFrequency:    vals[4],
		BatteryVoltage:    vals[5],
		Temperature:       vals[6],
	}, nil
}

// DecodeRating converts parsed frame fields into a Rating. The column
// order is fixed: rated voltage, rated current, battery voltage, rated
// frequency.
func DecodeRating(fields []string) (Rating, error) {
	vals, err := decodeFloats(fields, RatingFieldCount)
	if err != nil {
		return Rating{}, err
	}
	return Rating{
		Voltage:        vals[0],
		Current:        vals[1],
		BatteryVoltage: vals[2],
		Frequency:      vals[3],
	}, nil
}

// decodeFloats parses exactly want decimal fields.
func decodeFloats(fields []string, want int) ([]float64, error) {
	if len(fields) != want {
		return nil, fmt.Errorf("%w: got %d fields, want %d", ErrInvalidResponse, len(fields), want)
	}
	vals := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: field %d %q is not numeric", ErrInvalidResponse, i, f)
		}
		vals[i] = v
	}
	return vals, nil
}

// DecodeName extracts the device name from a raw reply. The terminator,
// the reply marker, and any control or padding bytes are stripped; the
// remainder is returned as-is. An empty result is not an error; some
// devices report blank names.
func DecodeName(raw []byte) string {
	out := make([]byte, 0, len(raw))
	for _, c := range raw {
		if ValidChar(c) {
			out = append(out, c)
		}
	}
	// Drop the marker if the device included one.
	if len(out) > 0 && out[0] == Marker {
		out = out[1:]
	}
	// Trim space padding on both ends.
	start, end := 0, len(out)
	for start < end && out[start] == ' ' {
		start++
	}
	for end > start && out[end-1] == ' ' {
		end--
	}
	return string(out[start:end])
}
