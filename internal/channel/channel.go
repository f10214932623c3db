// internal/channel/channel.go
package channel

import (
	"fmt"
	"time"
)

// Channel is the uniform byte-oriented resource behind a device
// session. Exactly one goroutine owns a channel at a time.
//
// Read uses two timeouts: initial bounds the wait for the first byte,
// subsequent bounds each inter-byte gap while filling the buffer. A
// 0,nil return means no input arrived within the initial timeout
// (would-block); it is not an error.
type Channel interface {
	Write(p []byte) (int, error)
	Read(p []byte, initial, subsequent time.Duration) (int, error)
	AwaitInput(timeout time.Duration) (bool, error)
	Close() error
}

// Open dials a channel by transport kind:
//
//	serial  address is the port name, baud applies
//	hid     address is vid:pid in hex
//	usb     address is vid:pid in hex, first bulk in/out endpoints
//	tcp     address is host:port of a remote braille server
func Open(kind, address string, baud int) (Channel, error) {
	switch kind {
	case "serial":
		return openSerial(address, baud)
	case "hid":
		return openHID(address)
	case "usb":
		return openUSB(address)
	case "tcp":
		return openTCP(address)
	}
	return nil, fmt.Errorf("channel: unknown transport kind %q", kind)
}
