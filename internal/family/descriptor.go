// internal/family/descriptor.go
package family

import (
	"errors"
	"fmt"
)

// LengthKind selects how a family encodes the payload length on the wire.
type LengthKind int

const (
	// LengthFixed means no length field; payload size is fixed per opcode.
	LengthFixed LengthKind = iota
	// Length1 is a single length byte counting payload bytes only.
	Length1
	// Length2LE is a two-byte little-endian length counting payload bytes only.
	Length2LE
)

// NavKey identifies one navigation-group key in a family's key table.
type NavKey int

const (
	NavNone NavKey = iota
	NavPanLeft
	NavPanRight
	NavLineUp
	NavLineDown
	NavShift
	NavLongPress
)

// Framing describes the byte-level envelope shared by every packet of a family.
type Framing struct {
	Start      []byte     `yaml:"start"`
	Length     LengthKind `yaml:"length"`
	End        []byte     `yaml:"end"`
	MaxPayload int        `yaml:"max_payload"`
}

// ChecksumSpec selects the family's checksum algorithm.
// Algorithm names are resolved by the packet codec.
type ChecksumSpec struct {
	Algorithm  string `yaml:"algorithm"` // none | sum8 | sumxor16 | crc16
	Mask       uint16 `yaml:"mask"`      // sumxor16 only
	CoverStart bool   `yaml:"cover_start"`
}

// Probe describes the identification handshake for a family.
type Probe struct {
	Request        []byte `yaml:"request"` // raw wire bytes, sent verbatim
	ResponseOpcode byte   `yaml:"response_opcode"`
	Retries        int    `yaml:"retries"`
	TimeoutMs      int    `yaml:"timeout_ms"`
}

// Identity gives byte offsets into the identity response payload.
// Offset -1 means the field is absent from the response.
type Identity struct {
	ModelOffset      int `yaml:"model_offset"`
	TextColsOffset   int `yaml:"text_cols_offset"`
	StatusColsOffset int `yaml:"status_cols_offset"`
	DotCountOffset   int `yaml:"dot_count_offset"`
}

// Keys describes how the family encodes input on the wire.
type Keys struct {
	KeyOpcode     byte            `yaml:"key_opcode"`
	RoutingOpcode byte            `yaml:"routing_opcode"`
	DotOpcode     byte            `yaml:"dot_opcode"`
	Table         map[byte]NavKey `yaml:"table"`
	ShiftMask     byte            `yaml:"shift_mask"`
	LongPressMask byte            `yaml:"long_press_mask"`
	RoutingBase   byte            `yaml:"routing_base"`
}

// Descriptor is the complete per-family protocol table. The codec, the
// handshake and the key decoder are all parameterized by one of these;
// no family-specific code exists anywhere else.
type Descriptor struct {
	Name string `yaml:"name"`

	Framing  Framing      `yaml:"framing"`
	Checksum ChecksumSpec `yaml:"checksum"`

	// FixedSizes maps inbound opcodes to their payload size. Required for
	// LengthFixed families; used by every family to sanity-check lengths.
	FixedSizes map[byte]int `yaml:"fixed_sizes"`

	DisplayOpcode   byte `yaml:"display_opcode"`
	HasCursorByte   bool `yaml:"has_cursor_byte"`
	AttrBytes       bool `yaml:"attr_bytes"`
	StatusInDisplay bool `yaml:"status_in_display"`

	Probe    Probe    `yaml:"probe"`
	Identity Identity `yaml:"identity"`
	Keys     Keys     `yaml:"keys"`

	// OutputTable maps internal dot index (0..7 = dots 1..8) to the
	// device's physical bit index for that dot.
	OutputTable [8]uint8 `yaml:"output_table"`
}

// Validate checks a descriptor for internal consistency.
// It MUST NOT mutate the descriptor.
func (d *Descriptor) Validate() error {
	if d.Name == "" {
		return errors.New("family: name required")
	}
	if len(d.Framing.Start) == 0 {
		return fmt.Errorf("family %q: at least one start marker required", d.Name)
	}
	switch d.Framing.Length {
	case LengthFixed, Length1, Length2LE:
	default:
		return fmt.Errorf("family %q: unknown length kind %d", d.Name, d.Framing.Length)
	}
	if d.Framing.Length == LengthFixed && len(d.FixedSizes) == 0 {
		return fmt.Errorf("family %q: fixed-length framing requires fixed_sizes", d.Name)
	}
	if d.Framing.MaxPayload <= 0 {
		return fmt.Errorf("family %q: max_payload must be > 0", d.Name)
	}

	switch d.Checksum.Algorithm {
	case "none", "sum8", "sumxor16", "crc16":
	default:
		return fmt.Errorf("family %q: unknown checksum algorithm %q", d.Name, d.Checksum.Algorithm)
	}

	if len(d.Probe.Request) == 0 {
		return fmt.Errorf("family %q: probe request required", d.Name)
	}
	if d.Probe.Retries < 1 || d.Probe.Retries > 5 {
		return fmt.Errorf("family %q: probe retries %d out of range 1..5", d.Name, d.Probe.Retries)
	}
	if d.Probe.TimeoutMs <= 0 {
		return fmt.Errorf("family %q: probe timeout must be > 0", d.Name)
	}
	if d.Identity.TextColsOffset < 0 {
		return fmt.Errorf("family %q: identity must carry a text column count", d.Name)
	}

	// Output table must be a permutation of bit indices 0..7.
	var seen [8]bool
	for _, bit := range d.OutputTable {
		if bit > 7 {
			return fmt.Errorf("family %q: output table bit %d out of range", d.Name, bit)
		}
		if seen[bit] {
			return fmt.Errorf("family %q: output table bit %d assigned twice", d.Name, bit)
		}
		seen[bit] = true
	}

	return nil
}

// TranslateOut maps one internal cell byte to the device's dot-bit order.
func (d *Descriptor) TranslateOut(cell byte) byte {
	var out byte
	for i := 0; i < 8; i++ {
		if cell&(1<<uint(i)) != 0 {
			out |= 1 << uint(d.OutputTable[i])
		}
	}
	return out
}

// TranslateIn is the inverse of TranslateOut, applied to incoming dot patterns.
func (d *Descriptor) TranslateIn(cell byte) byte {
	var out byte
	for i := 0; i < 8; i++ {
		if cell&(1<<uint(d.OutputTable[i])) != 0 {
			out |= 1 << uint(i)
		}
	}
	return out
}

// PayloadSize reports the expected payload size for an inbound opcode.
// For length-prefixed families the declared size wins; this is the
// fixed-size lookup used when no length field exists.
func (d *Descriptor) PayloadSize(opcode byte) (int, bool) {
	n, ok := d.FixedSizes[opcode]
	return n, ok
}
