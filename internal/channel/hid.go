// internal/channel/hid.go
package channel

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sstallion/go-hid"
)

var hidInit sync.Once

// hidChannel adapts a USB-HID (or Bluetooth-HID) device. Reads are
// report-sized; the stash carries leftover report bytes between calls.
type hidChannel struct {
	dev       *hid.Device
	stash     []byte
	closeOnce sync.Once
	closeErr  error
}

// parseVIDPID splits "vid:pid" hex notation.
func parseVIDPID(address string) (uint16, uint16, error) {
	parts := strings.SplitN(address, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("channel: address %q is not vid:pid", address)
	}
	vid, err := strconv.ParseUint(parts[0], 16, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("channel: bad vid in %q: %w", address, err)
	}
	pid, err := strconv.ParseUint(parts[1], 16, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("channel: bad pid in %q: %w", address, err)
	}
	return uint16(vid), uint16(pid), nil
}

func openHID(address string) (Channel, error) {
	hidInit.Do(func() { _ = hid.Init() })

	vid, pid, err := parseVIDPID(address)
	if err != nil {
		return nil, err
	}
	dev, err := hid.OpenFirst(vid, pid)
	if err != nil {
		return nil, fmt.Errorf("channel: open hid %s: %w", address, err)
	}
	return &hidChannel{dev: dev}, nil
}

func (c *hidChannel) Write(p []byte) (int, error) {
	return c.dev.Write(p)
}

func (c *hidChannel) Read(p []byte, initial, subsequent time.Duration) (int, error) {
	n := 0
	if len(c.stash) > 0 {
		n = copy(p, c.stash)
		c.stash = c.stash[n:]
		if n == len(p) {
			return n, nil
		}
	}

	if n == 0 {
		m, err := c.dev.ReadWithTimeout(p, initial)
		if err != nil {
			return 0, err
		}
		if m == 0 {
			return 0, nil
		}
		n = m
	}

	for n < len(p) {
		m, err := c.dev.ReadWithTimeout(p[n:], subsequent)
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

func (c *hidChannel) AwaitInput(timeout time.Duration) (bool, error) {
	if len(c.stash) > 0 {
		return true, nil
	}
	buf := make([]byte, 64)
	n, err := c.dev.ReadWithTimeout(buf, timeout)
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	c.stash = append(c.stash, buf[:n]...)
	return true, nil
}

func (c *hidChannel) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.dev.Close()
	})
	return c.closeErr
}
