// internal/packet/verify_test.go
package packet

import (
	"bytes"
	"testing"

	"github.com/brailleio/brld/internal/family"
)

func mustFamily(t *testing.T, name string) *family.Descriptor {
	t.Helper()
	d, err := family.Lookup(name)
	if err != nil {
		t.Fatalf("Lookup(%q) err=%v", name, err)
	}
	return d
}

// ---- round trip ----

func TestRoundTrip_AllFamilies(t *testing.T) {
	cases := []struct {
		fam     string
		opcode  byte
		payload []byte
	}{
		{"vario", 0x08, []byte{0x42}},
		{"pronto", 0x4B, []byte{0x31}},
		{"echo", 0x10, []byte{0x07}},
		{"merlin", 0x20, []byte{0x01}},
		{"pronto", 0x44, bytes.Repeat([]byte{0xAB}, 81)}, // variable length
	}

	for _, tc := range cases {
		desc := mustFamily(t, tc.fam)
		wire, err := Build(desc, tc.opcode, tc.payload)
		if err != nil {
			t.Fatalf("%s: Build err=%v", tc.fam, err)
		}

		pkts := NewStream(desc).Feed(wire)
		if len(pkts) != 1 {
			t.Fatalf("%s: expected 1 packet, got %d", tc.fam, len(pkts))
		}
		if pkts[0].Opcode != tc.opcode {
			t.Fatalf("%s: opcode=%#x want %#x", tc.fam, pkts[0].Opcode, tc.opcode)
		}
		if !bytes.Equal(pkts[0].Payload, tc.payload) {
			t.Fatalf("%s: payload=%v want %v", tc.fam, pkts[0].Payload, tc.payload)
		}
	}
}

func TestRoundTrip_ByteAtATime(t *testing.T) {
	desc := mustFamily(t, "echo")
	wire, err := Build(desc, 0x10, []byte{0x55})
	if err != nil {
		t.Fatalf("Build err=%v", err)
	}

	s := NewStream(desc)
	var pkts []Packet
	for _, b := range wire {
		pkts = append(pkts, s.Feed([]byte{b})...)
	}
	if len(pkts) != 1 {
		t.Fatalf("expected 1 packet, got %d", len(pkts))
	}
	if !bytes.Equal(pkts[0].Payload, []byte{0x55}) {
		t.Fatalf("payload=%v", pkts[0].Payload)
	}
}

// ---- corruption ----

func TestSingleByteFlip_NeverAccepted(t *testing.T) {
	for _, fam := range []string{"pronto", "echo", "merlin"} {
		desc := mustFamily(t, fam)
		wire, err := Build(desc, desc.Keys.KeyOpcode, []byte{0x01})
		if err != nil {
			t.Fatalf("%s: Build err=%v", fam, err)
		}

		for i := range wire {
			bad := append([]byte(nil), wire...)
			bad[i] ^= 0x5A

			pkts := NewStream(desc).Feed(bad)
			if len(pkts) != 0 {
				t.Fatalf("%s: flip at %d accepted a packet", fam, i)
			}
		}
	}
}

// ---- resynchronization ----

func TestResync_LeadingGarbage(t *testing.T) {
	desc := mustFamily(t, "pronto")
	wire, err := Build(desc, 0x4B, []byte{0x02})
	if err != nil {
		t.Fatalf("Build err=%v", err)
	}

	for _, garbage := range []byte{0x00, 0xAA, 0xFF} {
		s := NewStream(desc)
		pkts := s.Feed(append([]byte{garbage}, wire...))
		if len(pkts) != 1 {
			t.Fatalf("garbage=%#x: expected 1 packet, got %d", garbage, len(pkts))
		}
		if !bytes.Equal(pkts[0].Payload, []byte{0x02}) {
			t.Fatalf("garbage=%#x: payload=%v", garbage, pkts[0].Payload)
		}
	}
}

// A stray start-marker byte swallows the real start marker; for fixed
// size families the bogus opcode is rejected immediately and the real
// packet survives the rescan.
func TestResync_GarbageIsStartMarker(t *testing.T) {
	desc := mustFamily(t, "vario")
	wire, err := Build(desc, 0x08, []byte{0x03})
	if err != nil {
		t.Fatalf("Build err=%v", err)
	}

	pkts := NewStream(desc).Feed(append([]byte{0x1B}, wire...))
	if len(pkts) != 1 {
		t.Fatalf("expected 1 packet, got %d", len(pkts))
	}
	if !bytes.Equal(pkts[0].Payload, []byte{0x03}) {
		t.Fatalf("payload=%v", pkts[0].Payload)
	}
}

func TestResync_CorruptThenValid(t *testing.T) {
	desc := mustFamily(t, "merlin")
	good, err := Build(desc, 0x20, []byte{0x01})
	if err != nil {
		t.Fatalf("Build err=%v", err)
	}
	corrupt := append([]byte(nil), good...)
	corrupt[len(corrupt)-1] ^= 0xFF // break the checksum

	s := NewStream(desc)
	pkts := s.Feed(append(corrupt, good...))
	if len(pkts) != 1 {
		t.Fatalf("expected 1 packet after corrupt frame, got %d", len(pkts))
	}
}

func TestCoalescedPackets_OneFeed(t *testing.T) {
	desc := mustFamily(t, "echo")
	var stream []byte
	for _, b := range []byte{0x01, 0x02, 0x03} {
		wire, err := Build(desc, 0x10, []byte{b})
		if err != nil {
			t.Fatalf("Build err=%v", err)
		}
		stream = append(stream, wire...)
	}

	pkts := NewStream(desc).Feed(stream)
	if len(pkts) != 3 {
		t.Fatalf("expected 3 packets, got %d", len(pkts))
	}
	for i, want := range []byte{0x01, 0x02, 0x03} {
		if pkts[i].Payload[0] != want {
			t.Fatalf("packet %d payload=%#x want %#x", i, pkts[i].Payload[0], want)
		}
	}
}

// ---- checksum algorithms in isolation ----

func TestChecksumAlgorithms(t *testing.T) {
	data := []byte{0x01, 0x02, 0xFF}

	sum8, err := ChecksumFor(family.ChecksumSpec{Algorithm: "sum8"})
	if err != nil {
		t.Fatalf("sum8: %v", err)
	}
	if got := sum8.Sum(data); got[0] != 0x02 { // 0x102 mod 256
		t.Fatalf("sum8=%#x want 0x02", got[0])
	}

	sx, err := ChecksumFor(family.ChecksumSpec{Algorithm: "sumxor16", Mask: 0xA5A5})
	if err != nil {
		t.Fatalf("sumxor16: %v", err)
	}
	// sum = 0x0102, ^0xA5A5 = 0xA4A7, big-endian
	if got := sx.Sum(data); got[0] != 0xA4 || got[1] != 0xA7 {
		t.Fatalf("sumxor16=%v want [0xA4 0xA7]", got)
	}

	if _, err := ChecksumFor(family.ChecksumSpec{Algorithm: "bogus"}); err == nil {
		t.Fatalf("expected error for unknown algorithm")
	}
}
