// Package config loads the shared YAML configuration used by the command
// line tools. Library consumers pass session.Config directly; this package
// only exists so the tools agree on one file format.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/megatec-protocol/megatec-go/pkg/session"
	"github.com/megatec-protocol/megatec-go/pkg/transport"
)

// Default Mega(USB) vendor/product identity.
const (
	DefaultVendorID  = 0x0001
	DefaultProductID = 0x0000
)

// ErrInvalidConfig indicates a configuration that cannot identify exactly
// one device.
var ErrInvalidConfig = errors.New("invalid configuration")

// Duration wraps time.Duration so YAML files can use Go duration strings
// like "5s" or "1500ms".
type Duration time.Duration

// UnmarshalYAML parses a duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration as a string.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Device identifies which UPS to talk to. Exactly one of the USB identity
// (VendorID/ProductID) or the serial port may be set.
type Device struct {
	// VendorID is the USB vendor ID (0 means unset).
	VendorID uint16 `yaml:"vendorId,omitempty"`

	// ProductID is the USB product ID. Zero is a valid product ID, so it
	// only counts as set when VendorID is set too.
	ProductID uint16 `yaml:"productId,omitempty"`

	// SerialPort is the serial device path (e.g. /dev/ttyUSB0).
	SerialPort string `yaml:"serialPort,omitempty"`

	// Baud overrides the serial baud rate. Zero uses the protocol default.
	Baud int `yaml:"baud,omitempty"`
}

// Config is the on-disk configuration for the command line tools.
type Config struct {
	Device Device `yaml:"device"`

	// ReadTimeout bounds each reply read.
	ReadTimeout Duration `yaml:"readTimeout,omitempty"`

	// AckDelay is the pause inside the status acknowledgment round.
	AckDelay Duration `yaml:"ackDelay,omitempty"`

	// ProtocolLog is the path of the .mlog capture file. Empty disables
	// capture.
	ProtocolLog string `yaml:"protocolLog,omitempty"`
}

// Default returns a configuration for the standard Mega(USB) identity.
func Default() Config {
	return Config{
		Device: Device{
			VendorID:  DefaultVendorID,
			ProductID: DefaultProductID,
		},
		ReadTimeout: Duration(session.DefaultReadTimeout),
		AckDelay:    Duration(session.DefaultAckDelay),
	}
}

// Load reads and validates a YAML configuration file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration identifies exactly one device.
func (c Config) Validate() error {
	usb := c.Device.VendorID != 0
	serial := c.Device.SerialPort != ""
	switch {
	case usb && serial:
		return fmt.Errorf("%w: both USB identity and serial port set", ErrInvalidConfig)
	case !usb && !serial:
		return fmt.Errorf("%w: no device identity", ErrInvalidConfig)
	}
	if serial && c.Device.Baud < 0 {
		return fmt.Errorf("%w: negative baud rate", ErrInvalidConfig)
	}
	return nil
}

// SessionConfig converts the file settings into a session.Config.
func (c Config) SessionConfig() session.Config {
	return session.Config{
		ReadTimeout: time.Duration(c.ReadTimeout),
		AckDelay:    time.Duration(c.AckDelay),
	}
}

// Open opens the configured device and starts a session on it.
func (c Config) Open(sessCfg session.Config) (*session.Session, error) {
	if c.Device.SerialPort != "" {
		t, err := transport.OpenSerial(c.Device.SerialPort, transport.SerialConfig{
			BaudRate: c.Device.Baud,
		})
		if err != nil {
			return nil, err
		}
		return session.New(t, sessCfg), nil
	}
	return session.Open(c.Device.VendorID, c.Device.ProductID, sessCfg)
}
