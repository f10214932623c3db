// internal/channel/loopback_test.go
package channel

import (
	"testing"
	"time"
)

func TestLoopback_WouldBlock(t *testing.T) {
	host, _ := Pipe()

	buf := make([]byte, 8)
	n, err := host.Read(buf, 10*time.Millisecond, 5*time.Millisecond)
	if err != nil {
		t.Fatalf("Read err=%v", err)
	}
	if n != 0 {
		t.Fatalf("empty pipe returned %d bytes", n)
	}
}

func TestLoopback_TwoPhaseRead(t *testing.T) {
	host, dev := Pipe()

	dev.Write([]byte{1, 2, 3})
	go func() {
		// Arrives within the inter-byte window.
		time.Sleep(2 * time.Millisecond)
		dev.Write([]byte{4, 5})
	}()

	buf := make([]byte, 8)
	n, err := host.Read(buf, 100*time.Millisecond, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("Read err=%v", err)
	}
	if n != 5 {
		t.Fatalf("read %d bytes, want 5", n)
	}
}

func TestLoopback_AwaitInput(t *testing.T) {
	host, dev := Pipe()

	ready, err := host.AwaitInput(5 * time.Millisecond)
	if err != nil || ready {
		t.Fatalf("empty pipe: ready=%v err=%v", ready, err)
	}

	dev.Write([]byte{0x42})
	ready, err = host.AwaitInput(100 * time.Millisecond)
	if err != nil || !ready {
		t.Fatalf("after write: ready=%v err=%v", ready, err)
	}

	buf := make([]byte, 1)
	n, _ := host.Read(buf, 10*time.Millisecond, 5*time.Millisecond)
	if n != 1 || buf[0] != 0x42 {
		t.Fatalf("read n=%d buf=%v", n, buf)
	}
}

func TestLoopback_PeerCloseSurfacesError(t *testing.T) {
	host, dev := Pipe()
	dev.Close()

	buf := make([]byte, 4)
	if _, err := host.Read(buf, 10*time.Millisecond, 5*time.Millisecond); err == nil {
		t.Fatalf("read from closed peer succeeded")
	}
}

func TestLoopback_CloseIdempotent(t *testing.T) {
	host, _ := Pipe()
	host.Close()
	host.Close()
	if host.Closes != 2 {
		t.Fatalf("Closes=%d want 2 (counter counts calls)", host.Closes)
	}
}
