// Package transport provides byte transports for Mega(USB) UPS devices.
//
// The protocol codec (pkg/wire) and command session (pkg/session) are
// transport-agnostic: they exchange complete CR-terminated ASCII frames
// through the Transport interface. This package supplies the two real
// transports plus test infrastructure:
//
//   - USBTransport: devices that expose the protocol over USB control
//     transfers (commands are mapped onto string-descriptor reads, which
//     is how this device class multiplexes the ASCII protocol onto USB).
//   - SerialTransport: devices wired over a serial line, 2400 8N1.
//   - Recorder: an in-memory transport that records writes and serves
//     scripted replies, for tests.
//
// Transports assume ordered, reliable delivery within one exchange and do
// not retransmit. The only retry facility here is open-retry with
// exponential backoff (OpenSerialWithRetry, OpenUSBWithRetry) for devices
// that enumerate slowly after plug-in.
package transport
