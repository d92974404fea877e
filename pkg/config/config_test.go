package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/megatec-protocol/megatec-go/pkg/session"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ups.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, uint16(DefaultVendorID), cfg.Device.VendorID)
	assert.Equal(t, uint16(DefaultProductID), cfg.Device.ProductID)
	assert.Equal(t, Duration(session.DefaultReadTimeout), cfg.ReadTimeout)
	assert.Equal(t, Duration(session.DefaultAckDelay), cfg.AckDelay)
	assert.NoError(t, cfg.Validate())
}

func TestLoadSerialConfig(t *testing.T) {
	path := writeConfig(t, `
device:
  vendorId: 0
  serialPort: /dev/ttyUSB0
  baud: 2400
readTimeout: 5s
ackDelay: 1500ms
protocolLog: /var/log/ups.mlog
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", cfg.Device.SerialPort)
	assert.Equal(t, 2400, cfg.Device.Baud)
	assert.Equal(t, Duration(5*time.Second), cfg.ReadTimeout)
	assert.Equal(t, Duration(1500*time.Millisecond), cfg.AckDelay)
	assert.Equal(t, "/var/log/ups.mlog", cfg.ProtocolLog)
}

func TestLoadKeepsDefaultsForUnsetFields(t *testing.T) {
	path := writeConfig(t, `
device:
  vendorId: 0x0665
  productId: 0x5161
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0665), cfg.Device.VendorID)
	assert.Equal(t, uint16(0x5161), cfg.Device.ProductID)
	assert.Equal(t, Duration(session.DefaultReadTimeout), cfg.ReadTimeout)
	assert.Equal(t, Duration(session.DefaultAckDelay), cfg.AckDelay)
}

func TestLoadRejectsAmbiguousDevice(t *testing.T) {
	path := writeConfig(t, `
device:
  vendorId: 0x0001
  serialPort: /dev/ttyUSB0
`)

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfig(t, "device: [not a mapping")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "usb only", cfg: Config{Device: Device{VendorID: 1}}},
		{name: "serial only", cfg: Config{Device: Device{SerialPort: "/dev/ttyS0"}}},
		{name: "neither", cfg: Config{}, wantErr: true},
		{name: "both", cfg: Config{Device: Device{VendorID: 1, SerialPort: "/dev/ttyS0"}}, wantErr: true},
		{name: "negative baud", cfg: Config{Device: Device{SerialPort: "/dev/ttyS0", Baud: -1}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSessionConfig(t *testing.T) {
	cfg := Config{ReadTimeout: Duration(7 * time.Second), AckDelay: Duration(2 * time.Second)}
	sc := cfg.SessionConfig()
	assert.Equal(t, 7*time.Second, sc.ReadTimeout)
	assert.Equal(t, 2*time.Second, sc.AckDelay)
}
