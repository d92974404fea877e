package megatec_test

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/megatec-protocol/megatec-go/pkg/log"
	"github.com/megatec-protocol/megatec-go/pkg/session"
	"github.com/megatec-protocol/megatec-go/pkg/transport"
)

// TestE2E_QuerySequence drives a full query sequence through the session
// and checks the exact bytes that would reach the device.
func TestE2E_QuerySequence(t *testing.T) {
	r := transport.NewRecorder()
	r.QueueReply([]byte("#ONLINE UPS 2000\r"))                        // name
	r.QueueReply([]byte("#230.0 004.0 12.00 50.0\r"))                 // rating
	r.QueueReply([]byte("#120.0 002.0 230.0 050 50.0 012.0 030.0\r")) // status ack
	r.QueueReply([]byte("#121.0 002.0 229.5 048 50.0 012.1 030.5\r")) // status

	s := session.New(r, session.Config{
		ReadTimeout: 100 * time.Millisecond,
		AckDelay:    time.Millisecond,
	})
	defer s.Close()

	name, err := s.Name()
	require.NoError(t, err)
	assert.Equal(t, "ONLINE UPS 2000", name)

	rating, err := s.Rating()
	require.NoError(t, err)
	assert.Equal(t, 230.0, rating.Voltage)

	status, err := s.Status()
	require.NoError(t, err)
	assert.Equal(t, 121.0, status.InputVoltage)
	assert.Equal(t, 229.5, status.OutputVoltage)

	writes := r.Writes()
	require.Len(t, writes, 4)
	assert.Equal(t, "I\r", string(writes[0]))
	assert.Equal(t, "F\r", string(writes[1]))
	assert.Equal(t, "Q1\r", string(writes[2]))
	assert.Equal(t, "Q1\r", string(writes[3]))
}

// TestE2E_CaptureRoundTrip runs a session with a file capture attached
// and reads the capture back through the reader.
func TestE2E_CaptureRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.mlog")
	fl, err := log.NewFileLogger(path)
	require.NoError(t, err)

	r := transport.NewRecorder()
	r.QueueReply([]byte("garbage")) // malformed: no terminator

	s := session.New(r, session.Config{
		ReadTimeout: 100 * time.Millisecond,
		AckDelay:    time.Millisecond,
		Logger:      fl,
		ID:          "e2e-capture",
	})

	_, err = s.StatusNoAck()
	require.Error(t, err)

	require.NoError(t, s.Test()) // silent device, succeeds
	require.NoError(t, s.Close())
	require.NoError(t, fl.Close())

	reader, err := log.NewReader(path)
	require.NoError(t, err)
	defer reader.Close()

	var states, errors int
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		assert.Equal(t, "e2e-capture", event.SessionID)
		switch event.Category {
		case log.CategoryState:
			states++
		case log.CategoryError:
			errors++
		}
	}
	assert.Equal(t, 2, states, "open and close transitions")
	assert.NotZero(t, errors, "the malformed reply must be captured")
}
