// internal/channel/serial.go
package channel

import (
	"fmt"
	"sync"
	"time"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// serialChannel adapts a serial port to the Channel contract. The
// port's read timeout is retargeted per call; a one-byte stash backs
// AwaitInput since the port cannot peek.
type serialChannel struct {
	port      serial.Port
	stash     []byte
	closeOnce sync.Once
	closeErr  error
}

func openSerial(name string, baud int) (Channel, error) {
	port, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("channel: open serial %s: %w", name, err)
	}
	return &serialChannel{port: port}, nil
}

func (c *serialChannel) Write(p []byte) (int, error) {
	return c.port.Write(p)
}

func (c *serialChannel) Read(p []byte, initial, subsequent time.Duration) (int, error) {
	n := 0
	if len(c.stash) > 0 {
		n = copy(p, c.stash)
		c.stash = c.stash[n:]
		if n == len(p) {
			return n, nil
		}
	}

	if n == 0 {
		if err := c.port.SetReadTimeout(initial); err != nil {
			return 0, err
		}
		m, err := c.port.Read(p)
		if err != nil {
			return 0, err
		}
		if m == 0 {
			return 0, nil // would-block
		}
		n = m
	}

	// First byte(s) in hand: top up with the inter-byte timeout until
	// the line goes quiet or the buffer fills.
	for n < len(p) {
		if err := c.port.SetReadTimeout(subsequent); err != nil {
			return n, err
		}
		m, err := c.port.Read(p[n:])
		if err != nil {
			return n, err
		}
		if m == 0 {
			break
		}
		n += m
	}
	return n, nil
}

func (c *serialChannel) AwaitInput(timeout time.Duration) (bool, error) {
	if len(c.stash) > 0 {
		return true, nil
	}
	if err := c.port.SetReadTimeout(timeout); err != nil {
		return false, err
	}
	var b [1]byte
	n, err := c.port.Read(b[:])
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	c.stash = append(c.stash, b[0])
	return true, nil
}

func (c *serialChannel) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.port.Close()
	})
	return c.closeErr
}

// Info describes one discoverable port.
type Info struct {
	Name   string
	IsUSB  bool
	VID    string
	PID    string
	Serial string
}

// Discover lists serial ports with their identification metadata.
func Discover() ([]Info, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("channel: enumerate ports: %w", err)
	}
	out := make([]Info, 0, len(ports))
	for _, p := range ports {
		out = append(out, Info{
			Name:   p.Name,
			IsUSB:  p.IsUSB,
			VID:    p.VID,
			PID:    p.PID,
			Serial: p.SerialNumber,
		})
	}
	return out, nil
}
