// internal/packet/verify.go
package packet

import (
	"bytes"

	"github.com/rs/zerolog/log"

	"github.com/brailleio/brld/internal/family"
)

// Verdict is the incremental verifier's decision after each byte.
type Verdict int

const (
	// Invalid: the byte cannot continue a legal packet. The caller
	// resynchronizes, retrying the rejected window minus its first byte.
	Invalid Verdict = iota
	// Include: byte accepted, packet still incomplete.
	Include
	// Complete: designated length reached and all checks passed.
	Complete
)

// Verifier is the per-packet state machine. It is keyed by the number
// of bytes consumed so far: the first byte commits to a start marker,
// fixed offsets validate markers and the length field, and the final
// byte triggers the checksum pass over the exact covered range.
type Verifier struct {
	desc *family.Descriptor
	ck   Checksum

	buf      []byte
	expected int // total packet size; 0 until the length is known
	payload  int
	corrupt  bool
}

// NewVerifier builds a verifier for one family. The checksum spec must
// already have passed family validation.
func NewVerifier(desc *family.Descriptor) *Verifier {
	ck, err := ChecksumFor(desc.Checksum)
	if err != nil {
		// registration validates algorithms; this is unreachable for
		// registered families
		panic(err)
	}
	return &Verifier{desc: desc, ck: ck}
}

// Reset discards all per-packet state.
func (v *Verifier) Reset() {
	v.buf = v.buf[:0]
	v.expected = 0
	v.payload = 0
	v.corrupt = false
}

// Corrupt reports whether the last Invalid verdict was a checksum
// mismatch on a structurally complete packet.
func (v *Verifier) Corrupt() bool { return v.corrupt }

// Packet returns the verified packet after a Complete verdict.
func (v *Verifier) Packet() Packet {
	raw := make([]byte, len(v.buf))
	copy(raw, v.buf)
	f := v.desc.Framing
	opcode := raw[len(f.Start)]
	payStart := v.headerSize()
	return Packet{
		Opcode:  opcode,
		Payload: raw[payStart : payStart+v.payload],
		Raw:     raw,
	}
}

func (v *Verifier) headerSize() int {
	n := len(v.desc.Framing.Start) + 1
	switch v.desc.Framing.Length {
	case family.Length1:
		n++
	case family.Length2LE:
		n += 2
	}
	return n
}

// Push feeds one byte into the state machine.
func (v *Verifier) Push(b byte) Verdict {
	f := v.desc.Framing
	idx := len(v.buf)
	v.buf = append(v.buf, b)
	v.corrupt = false

	// Start markers, one byte at a time.
	if idx < len(f.Start) {
		if b != f.Start[idx] {
			return Invalid
		}
		return Include
	}

	opPos := len(f.Start)

	// Opcode byte. Fixed-size families commit to the total length here;
	// an opcode without a known size cannot be framed and is rejected.
	if idx == opPos {
		if f.Length == family.LengthFixed {
			size, ok := v.desc.PayloadSize(b)
			if !ok {
				return Invalid
			}
			v.payload = size
			v.expected = v.headerSize() + size + v.ck.Size + len(f.End)
		}
		return v.checkTail(idx)
	}

	// Length field checkpoints.
	switch f.Length {
	case family.Length1:
		if idx == opPos+1 {
			v.payload = int(b)
			if v.payload > f.MaxPayload {
				return Invalid
			}
			v.expected = v.headerSize() + v.payload + v.ck.Size + len(f.End)
			return v.checkTail(idx)
		}
	case family.Length2LE:
		if idx == opPos+2 {
			v.payload = int(v.buf[opPos+1]) | int(b)<<8
			if v.payload > f.MaxPayload {
				return Invalid
			}
			v.expected = v.headerSize() + v.payload + v.ck.Size + len(f.End)
			return v.checkTail(idx)
		}
		if idx == opPos+1 {
			return Include
		}
	}

	return v.checkTail(idx)
}

// checkTail validates end markers at their fixed offsets and runs the
// checksum once the designated length is reached.
func (v *Verifier) checkTail(idx int) Verdict {
	f := v.desc.Framing
	if v.expected == 0 {
		return Include
	}

	// End marker bytes sit at fixed offsets from the expected end.
	endStart := v.expected - len(f.End)
	if idx >= endStart {
		if v.buf[idx] != f.End[idx-endStart] {
			return Invalid
		}
	}

	if len(v.buf) < v.expected {
		return Include
	}

	// Full length reached: checksum over the exact covered range.
	if v.ck.Size > 0 {
		covStart := len(f.Start)
		if v.desc.Checksum.CoverStart {
			covStart = 0
		}
		ckPos := v.expected - len(f.End) - v.ck.Size
		want := v.ck.Sum(v.buf[covStart:ckPos])
		if !bytes.Equal(want, v.buf[ckPos:ckPos+v.ck.Size]) {
			v.corrupt = true
			return Invalid
		}
	}

	return Complete
}

// Stream drives a Verifier over an arbitrary byte stream, handling
// resynchronization: when a span is rejected, exactly one leading byte
// is dropped and the remainder rescanned, so the byte that caused the
// rejection can still open the next packet.
type Stream struct {
	v       *Verifier
	pending []byte
}

// NewStream builds a resynchronizing packet scanner for one family.
func NewStream(desc *family.Descriptor) *Stream {
	return &Stream{v: NewVerifier(desc)}
}

// Feed consumes raw bytes and returns every packet completed by them,
// in arrival order. Corrupt or malformed spans are dropped one byte at
// a time with a diagnostic; they never tear down the stream.
func (s *Stream) Feed(data []byte) []Packet {
	var out []Packet
	s.pending = append(s.pending, data...)

	for len(s.pending) > 0 {
		s.v.Reset()
		verdict := Include
		n := 0
		for n < len(s.pending) {
			verdict = s.v.Push(s.pending[n])
			n++
			if verdict != Include {
				break
			}
		}

		switch verdict {
		case Complete:
			out = append(out, s.v.Packet())
			s.pending = append(s.pending[:0:0], s.pending[n:]...)

		case Invalid:
			if s.v.Corrupt() {
				log.Debug().
					Str("family", s.v.desc.Name).
					Int("len", n).
					Msg("packet checksum mismatch, dropping")
			}
			s.pending = append(s.pending[:0:0], s.pending[1:]...)

		default:
			// Incomplete: wait for more bytes.
			return out
		}
	}

	return out
}
