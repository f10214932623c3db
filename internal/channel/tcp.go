// internal/channel/tcp.go
package channel

import (
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"time"
)

const tcpDialTimeout = 5 * time.Second

// tcpChannel talks to a remote braille server over a plain socket.
type tcpChannel struct {
	conn      net.Conn
	stash     []byte
	closeOnce sync.Once
	closeErr  error
}

func openTCP(address string) (Channel, error) {
	conn, err := net.DialTimeout("tcp", address, tcpDialTimeout)
	if err != nil {
		return nil, fmt.Errorf("channel: dial %s: %w", address, err)
	}
	return &tcpChannel{conn: conn}, nil
}

func (c *tcpChannel) Write(p []byte) (int, error) {
	return c.conn.Write(p)
}

// readOnce maps deadline expiry to the would-block convention.
func (c *tcpChannel) readOnce(p []byte, timeout time.Duration) (int, error) {
	if err := c.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return 0, err
	}
	n, err := c.conn.Read(p)
	if err != nil {
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return n, nil
		}
		return n, err
	}
	return n, nil
}

func (c *tcpChannel) Read(p []byte, initial, subsequent time.Duration) (int, error) {
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

func (c *tcpChannel) AwaitInput(timeout time.Duration) (bool, error) {
	if len(c.stash) > 0 {
		return true, nil
	}
	var b [1]byte
	n, err := c.readOnce(b[:], timeout)
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	c.stash = append(c.stash, b[0])
	return true, nil
}

func (c *tcpChannel) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}
