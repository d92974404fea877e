package transport

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/gousb"

	"github.com/megatec-protocol/megatec-go/pkg/log"
)

// USB request constants for the Mega(USB) descriptor scheme.
const (
	usbRequestGetDescriptor = 0x06
	usbDescriptorTypeString = 0x03

	// defaultDescriptorLen is the transfer length for commands that do
	// not encode a value in the length field.
	defaultDescriptorLen = 256

	// shutdownDescriptorLen is the fixed transfer length of the
	// shutdown command (one-minute delay variant).
	shutdownDescriptorLen = 2460
)

// descriptor locates a command on the USB side: the device multiplexes
// the ASCII command set onto string-descriptor indexes, and the timed
// battery test carries its duration code in the transfer length.
type descriptor struct {
	index  uint8
	length uint16
}

// descriptorFor maps a command frame to its descriptor slot.
func descriptorFor(frame []byte) (descriptor, bool) {
	body := string(bytes.TrimSuffix(frame, []byte{FrameTerminator}))
	switch body {
	case "I":
		return descriptor{index: 2, length: defaultDescriptorLen}, true
	case "Q1":
		return descriptor{index: 3, length: defaultDescriptorLen}, true
	case "T":
		return descriptor{index: 4, length: defaultDescriptorLen}, true
	case "TL":
		return descriptor{index: 5, length: defaultDescriptorLen}, true
	case "Q":
		return descriptor{index: 7, length: defaultDescriptorLen}, true
	case "CT":
		return descriptor{index: 11, length: defaultDescriptorLen}, true
	case "F":
		return descriptor{index: 13, length: defaultDescriptorLen}, true
	case "S01":
		return descriptor{index: 105, length: shutdownDescriptorLen}, true
	}
	// Timed test: T<code>, duration code rides in the transfer length.
	if len(body) > 1 && body[0] == 'T' {
		code, err := strconv.Atoi(body[1:])
		if err == nil && code > 0 {
			return descriptor{index: 6, length: uint16(code)}, true
		}
	}
	return descriptor{}, false
}

// USBTransport carries protocol frames over USB control transfers.
//
// Write stages the command frame; Read issues the corresponding
// GET_DESCRIPTOR(string) control transfer and returns the reply payload
// as a CR-terminated frame. This matches the device's request/reply
// discipline: the control read both delivers the command and collects
// its reply.
type USBTransport struct {
	ctx    *gousb.Context
	dev    *gousb.Device
	staged []byte
	closed bool

	// Capture support (optional)
	logger    log.Logger
	sessionID string
}

// OpenUSB opens the first device matching the vendor and product ID.
func OpenUSB(vid, pid uint16) (*USBTransport, error) {
	ctx := gousb.NewContext()
	dev, err := ctx.OpenDeviceWithVIDPID(gousb.ID(vid), gousb.ID(pid))
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("open usb device %04x:%04x: %w", vid, pid, err)
	}
	if dev == nil {
		ctx.Close()
		return nil, fmt.Errorf("%w: %04x:%04x", ErrDeviceNotFound, vid, pid)
	}
	return &USBTransport{ctx: ctx, dev: dev}, nil
}

// SetLogger configures frame capture. Pass nil to disable.
func (t *USBTransport) SetLogger(logger log.Logger, sessionID string) {
	t.logger = logger
	t.sessionID = sessionID
}

// Write stages one command frame for the next control transfer.
func (t *USBTransport) Write(p []byte) error {
	if t.closed {
		return ErrClosed
	}
	if _, ok := descriptorFor(p); !ok {
		return fmt.Errorf("no descriptor slot for command frame %q", p)
	}
	t.staged = append(t.staged[:0], p...)
	if t.logger != nil {
		t.logger.Log(frameEvent(t.sessionID, p, log.DirectionOut))
	}
	return nil
}

// Read issues the staged command's control transfer and returns the
// reply payload as a protocol frame.
func (t *USBTransport) Read(timeout time.Duration) ([]byte, error) {
	if t.closed {
		return nil, ErrClosed
	}
	if len(t.staged) == 0 {
		return nil, errors.New("no command staged")
	}
	desc, ok := descriptorFor(t.staged)
	if !ok {
		return nil, fmt.Errorf("no descriptor slot for command frame %q", t.staged)
	}

	t.dev.ControlTimeout = timeout
	buf := make([]byte, desc.length)
	n, err := t.dev.Control(
		// The standard request type (LIBUSB_REQUEST_TYPE_STANDARD) is 0x00,
		// so gousb exports no constant for it.
		gousb.ControlIn|gousb.ControlDevice,
		usbRequestGetDescriptor,
		uint16(usbDescriptorTypeString)<<8|uint16(desc.index),
		0,
		buf,
	)
	if err != nil {
		if errors.Is(err, gousb.ErrorTimeout) {
			return nil, fmt.Errorf("%w after %v", ErrTimeout, timeout)
		}
		return nil, fmt.Errorf("control transfer: %w", err)
	}

	frame := normalizeDescriptorPayload(buf[:n])
	if t.logger != nil {
		t.logger.Log(frameEvent(t.sessionID, frame, log.DirectionIn))
	}
	return frame, nil
}

// Close releases the device handle and the USB context.
func (t *USBTransport) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	devErr := t.dev.Close()
	ctxErr := t.ctx.Close()
	if devErr != nil {
		return devErr
	}
	return ctxErr
}

// normalizeDescriptorPayload turns a raw descriptor payload into a
// protocol frame: the two-byte descriptor header and NUL padding are
// stripped and the CR terminator is ensured (the device omits it on
// some firmware revisions).
func normalizeDescriptorPayload(raw []byte) []byte {
	if len(raw) >= 2 && raw[1] == usbDescriptorTypeString {
		raw = raw[2:]
	}
	raw = bytes.TrimRight(raw, "\x00")
	if len(raw) == 0 || raw[len(raw)-1] != FrameTerminator {
		raw = append(append([]byte(nil), raw...), FrameTerminator)
	}
	return raw
}
