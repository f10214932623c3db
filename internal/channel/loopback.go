// internal/channel/loopback.go
package channel

import (
	"io"
	"sync"
	"time"
)

// pipeBuf is one direction of an in-memory duplex link.
type pipeBuf struct {
	mu     sync.Mutex
	buf    []byte
	closed bool
	notify chan struct{}
}

func newPipeBuf() *pipeBuf {
	return &pipeBuf{notify: make(chan struct{})}
}

func (b *pipeBuf) write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return 0, io.ErrClosedPipe
	}
	b.buf = append(b.buf, p...)
	close(b.notify)
	b.notify = make(chan struct{})
	return len(p), nil
}

// read blocks up to timeout for the first byte, then drains whatever
// is buffered. Returns 0,nil on timeout and io.EOF once the peer has
// closed and the buffer is drained.
func (b *pipeBuf) read(p []byte, timeout time.Duration) (int, error) {
	deadline := time.Now().Add(timeout)
	for {
		b.mu.Lock()
		if len(b.buf) > 0 {
			n := copy(p, b.buf)
			b.buf = b.buf[n:]
			b.mu.Unlock()
			return n, nil
		}
		if b.closed {
			b.mu.Unlock()
			return 0, io.EOF
		}
		ch := b.notify
		b.mu.Unlock()

		remain := time.Until(deadline)
		if remain <= 0 {
			return 0, nil
		}
		timer := time.NewTimer(remain)
		select {
		case <-ch:
			timer.Stop()
		case <-timer.C:
			return 0, nil
		}
	}
}

func (b *pipeBuf) close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	close(b.notify)
	b.notify = make(chan struct{})
}

// Loopback is an in-memory Channel used by tests and the fake-device
// harness. Pipe returns both ends; bytes written to one end are read
// from the other.
type Loopback struct {
	rd        *pipeBuf
	wr        *pipeBuf
	closeOnce sync.Once
	Closes    int // number of Close calls, observable by tests
}

// Pipe creates a connected pair of loopback channels.
func Pipe() (*Loopback, *Loopback) {
	a := newPipeBuf()
	b := newPipeBuf()
	return &Loopback{rd: a, wr: b}, &Loopback{rd: b, wr: a}
}

func (l *Loopback) Write(p []byte) (int, error) {
	return l.wr.write(p)
}

func (l *Loopback) Read(p []byte, initial, subsequent time.Duration) (int, error) {
	n, err := l.rd.read(p, initial)
	if err != nil || n == 0 {
		return n, err
	}
	for n < len(p) {
		m, err := l.rd.read(p[n:], subsequent)
		if err != nil || m == 0 {
			break
		}
		n += m
	}
	return n, nil
}

func (l *Loopback) AwaitInput(timeout time.Duration) (bool, error) {
	l.rd.mu.Lock()
	has := len(l.rd.buf) > 0
	ch := l.rd.notify
	closed := l.rd.closed
	l.rd.mu.Unlock()
	if has {
		return true, nil
	}
	if closed {
		return false, io.EOF
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-ch:
		return true, nil
	case <-timer.C:
		return false, nil
	}
}

func (l *Loopback) Close() error {
	l.Closes++
	l.closeOnce.Do(func() {
		l.rd.close()
		l.wr.close()
	})
	return nil
}
