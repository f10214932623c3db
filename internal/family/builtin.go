// internal/family/builtin.go
package family

// IdentityTable is the no-op dot translation (internal order == device order).
var IdentityTable = [8]uint8{0, 1, 2, 3, 4, 5, 6, 7}

// mirrorTable swaps the two dot columns (dots 1-3 <-> 4-6, dot 7 <-> 8),
// the most common deviation seen on real hardware.
var mirrorTable = [8]uint8{3, 4, 5, 0, 1, 2, 7, 6}

// Builtin device families. Each one exercises a different framing and
// checksum combination; anything else is loadable from a descriptor file.

// varioFamily: ESC-framed, fixed payload sizes, trailing SYN marker,
// no checksum at all.
var varioFamily = Descriptor{
	Name: "vario",
	Framing: Framing{
		Start:      []byte{0x1B},
		Length:     LengthFixed,
		End:        []byte{0x16},
		MaxPayload: 96,
	},
	Checksum: ChecksumSpec{Algorithm: "none"},
	FixedSizes: map[byte]int{
		0x84: 4, // identity: model, text cols, status cols, dot count
		0x08: 1, // navigation key
		0x09: 1, // routing key
		0x0A: 1, // dot pattern
	},
	DisplayOpcode: 0x01,
	HasCursorByte: true,
	Probe: Probe{
		Request:        []byte{0x1B, 0x84, 0x16},
		ResponseOpcode: 0x84,
		Retries:        2,
		TimeoutMs:      400,
	},
	Identity: Identity{
		ModelOffset:      0,
		TextColsOffset:   1,
		StatusColsOffset: 2,
		DotCountOffset:   3,
	},
	Keys: Keys{
		KeyOpcode:     0x08,
		RoutingOpcode: 0x09,
		DotOpcode:     0x0A,
		Table: map[byte]NavKey{
			0x01: NavPanLeft,
			0x02: NavPanRight,
			0x03: NavLineUp,
			0x04: NavLineDown,
		},
		ShiftMask:     0x40,
		LongPressMask: 0x80,
	},
	OutputTable: IdentityTable,
}

// prontoFamily: STX/ETX framed, one length byte, additive mod-256 checksum
// over opcode+length+payload, attribute byte per cell.
var prontoFamily = Descriptor{
	Name: "pronto",
	Framing: Framing{
		Start:      []byte{0x02},
		Length:     Length1,
		End:        []byte{0x03},
		MaxPayload: 200,
	},
	Checksum: ChecksumSpec{Algorithm: "sum8"},
	FixedSizes: map[byte]int{
		0x49: 5,
		0x4B: 1,
		0x52: 1,
		0x58: 1,
	},
	DisplayOpcode:   0x44,
	HasCursorByte:   true,
	AttrBytes:       true,
	StatusInDisplay: true,
	Probe: Probe{
		Request:        []byte{0x02, 0x3F, 0x00, 0x3F, 0x03},
		ResponseOpcode: 0x49,
		Retries:        3,
		TimeoutMs:      500,
	},
	Identity: Identity{
		ModelOffset:      0,
		TextColsOffset:   1,
		StatusColsOffset: 2,
		DotCountOffset:   -1,
	},
	Keys: Keys{
		KeyOpcode:     0x4B,
		RoutingOpcode: 0x52,
		DotOpcode:     0x58,
		Table: map[byte]NavKey{
			0x01: NavPanLeft,
			0x02: NavPanRight,
			0x05: NavLineUp,
			0x06: NavLineDown,
		},
		ShiftMask:     0x10,
		LongPressMask: 0x20,
		RoutingBase:   0x20,
	},
	OutputTable: mirrorTable,
}

// echoFamily: double-FF start, two-byte little-endian length, additive
// 16-bit sum XORed with a fixed mask, no end marker.
var echoFamily = Descriptor{
	Name: "echo",
	Framing: Framing{
		Start:      []byte{0xFF, 0xFF},
		Length:     Length2LE,
		MaxPayload: 256,
	},
	Checksum: ChecksumSpec{
		Algorithm:  "sumxor16",
		Mask:       0xA5A5,
		CoverStart: true,
	},
	FixedSizes: map[byte]int{
		0x86: 6,
		0x10: 1,
		0x11: 1,
		0x12: 1,
	},
	DisplayOpcode: 0x02,
	HasCursorByte: true,
	Probe: Probe{
		Request:        []byte{0xFF, 0xFF, 0x06, 0x00, 0x00, 0xA7, 0xA1},
		ResponseOpcode: 0x86,
		Retries:        2,
		TimeoutMs:      300,
	},
	Identity: Identity{
		ModelOffset:      0,
		TextColsOffset:   2,
		StatusColsOffset: 3,
		DotCountOffset:   4,
	},
	Keys: Keys{
		KeyOpcode:     0x10,
		RoutingOpcode: 0x11,
		DotOpcode:     0x12,
		Table: map[byte]NavKey{
			0x01: NavPanLeft,
			0x02: NavPanRight,
			0x03: NavLineUp,
			0x04: NavLineDown,
		},
		ShiftMask:     0x40,
		LongPressMask: 0x80,
	},
	OutputTable: IdentityTable,
}

// merlinFamily: single start marker, one length byte, Modbus-table CRC16
// appended little-endian, no end marker.
var merlinFamily = Descriptor{
	Name: "merlin",
	Framing: Framing{
		Start:      []byte{0x1C},
		Length:     Length1,
		MaxPayload: 200,
	},
	Checksum: ChecksumSpec{
		Algorithm:  "crc16",
		CoverStart: true,
	},
	FixedSizes: map[byte]int{
		0x70: 3,
		0x20: 1,
		0x21: 1,
		0x22: 1,
	},
	DisplayOpcode: 0x30,
	HasCursorByte: true,
	Probe: Probe{
		Request:        []byte{0x1C, 0x70, 0x00, 0x95, 0xC6},
		ResponseOpcode: 0x70,
		Retries:        3,
		TimeoutMs:      250,
	},
	Identity: Identity{
		ModelOffset:      0,
		TextColsOffset:   1,
		StatusColsOffset: -1,
		DotCountOffset:   2,
	},
	Keys: Keys{
		KeyOpcode:     0x20,
		RoutingOpcode: 0x21,
		DotOpcode:     0x22,
		Table: map[byte]NavKey{
			0x01: NavPanLeft,
			0x02: NavPanRight,
			0x03: NavLineUp,
			0x04: NavLineDown,
		},
		ShiftMask:     0x40,
		LongPressMask: 0x80,
	},
	OutputTable: IdentityTable,
}
