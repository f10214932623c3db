// internal/channel/usb.go
package channel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/gousb"
)

// usbChannel drives raw bulk endpoints on displays that expose a
// vendor interface instead of a serial bridge or HID reports.
type usbChannel struct {
	ctx  *gousb.Context
	dev  *gousb.Device
	done func()
	in   *gousb.InEndpoint
	out  *gousb.OutEndpoint

	stash     []byte
	closeOnce sync.Once
	closeErr  error
}

func openUSB(address string) (Channel, error) {
	vid, pid, err := parseVIDPID(address)
	if err != nil {
		return nil, err
	}

	ctx := gousb.NewContext()
	dev, err := ctx.OpenDeviceWithVIDPID(gousb.ID(vid), gousb.ID(pid))
	if err != nil || dev == nil {
		ctx.Close()
		if err == nil {
			err = errors.New("device not present")
		}
		return nil, fmt.Errorf("channel: open usb %s: %w", address, err)
	}

	intf, done, err := dev.DefaultInterface()
	if err != nil {
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("channel: claim usb interface %s: %w", address, err)
	}

	c := &usbChannel{ctx: ctx, dev: dev, done: done}
	for _, ep := range intf.Setting.Endpoints {
		if ep.TransferType != gousb.TransferTypeBulk {
			continue
		}
		if ep.Direction == gousb.EndpointDirectionIn && c.in == nil {
			c.in, err = intf.InEndpoint(ep.Number)
		}
		if ep.Direction == gousb.EndpointDirectionOut && c.out == nil {
			c.out, err = intf.OutEndpoint(ep.Number)
		}
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("channel: usb endpoint %s: %w", address, err)
		}
	}
	if c.in == nil || c.out == nil {
		c.Close()
		return nil, fmt.Errorf("channel: usb %s has no bulk endpoint pair", address)
	}
	return c, nil
}

func (c *usbChannel) Write(p []byte) (int, error) {
	return c.out.Write(p)
}

// readOnce performs a single bounded bulk read, mapping deadline
// expiry to the would-block convention.
func (c *usbChannel) readOnce(p []byte, timeout time.Duration) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	n, err := c.in.ReadContext(ctx, p)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, gousb.TransferTimedOut) {
			return n, nil
		}
		return n, err
	}
	return n, nil
}

func (c *usbChannel) Read(p []byte, initial, subsequent time.Duration) (int, error) {
	n := 0
	if len(c.stash) > 0 {
		n = copy(p, c.stash)
		c.stash = c.stash[n:]
		if n == len(p) {
			return n, nil
		}
	}

	if n == 0 {
		m, err := c.readOnce(p, initial)
		if err != nil {
			return 0, err
		}
		if m == 0 {
			return 0, nil
		}
		n = m
	}

	for n < len(p) {
		m, err := c.readOnce(p[n:], subsequent)
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

func (c *usbChannel) AwaitInput(timeout time.Duration) (bool, error) {
	if len(c.stash) > 0 {
		return true, nil
	}
	buf := make([]byte, c.in.Desc.MaxPacketSize)
	n, err := c.readOnce(buf, timeout)
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	c.stash = append(c.stash, buf[:n]...)
	return true, nil
}

func (c *usbChannel) Close() error {
	c.closeOnce.Do(func() {
		if c.done != nil {
			c.done()
		}
		if c.dev != nil {
			c.closeErr = c.dev.Close()
		}
		if c.ctx != nil {
			if err := c.ctx.Close(); err != nil && c.closeErr == nil {
				c.closeErr = err
			}
		}
	})
	return c.closeErr
}
