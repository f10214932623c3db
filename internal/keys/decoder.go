// internal/keys/decoder.go
package keys

import (
	"github.com/rs/zerolog/log"

	"github.com/brailleio/brld/internal/family"
	"github.com/brailleio/brld/internal/packet"
)

// Decoder converts verified wire packets into ordered key events for
// one session. It needs the negotiated geometry to dispatch routing
// indices between the status and text ranges.
type Decoder struct {
	desc       *family.Descriptor
	textCols   int
	statusCols int
}

// NewDecoder builds a decoder for one identified session.
func NewDecoder(desc *family.Descriptor, textCols, statusCols int) *Decoder {
	return &Decoder{desc: desc, textCols: textCols, statusCols: statusCols}
}

// Decode expands one packet into zero or more events. Packets the
// decoder does not recognize are dropped with a diagnostic; firmware
// is expected to emit undocumented frames occasionally.
func (d *Decoder) Decode(p packet.Packet) []Event {
	k := d.desc.Keys
	switch p.Opcode {
	case k.KeyOpcode:
		if len(p.Payload) < 1 {
			return nil
		}
		return d.decodeKey(p.Payload[0])

	case k.RoutingOpcode:
		if len(p.Payload) < 1 {
			return nil
		}
		return d.decodeRouting(p.Payload[0])

	case k.DotOpcode:
		if len(p.Payload) < 1 {
			return nil
		}
		mask := d.desc.TranslateIn(p.Payload[0])
		return []Event{{Group: GroupDots, Code: int(mask), Press: true}}
	}

	log.Debug().
		Str("family", d.desc.Name).
		Uint8("opcode", p.Opcode).
		Msg("unrecognized packet opcode, dropping")
	return nil
}

// decodeKey strips the modifier flag bits, looks up the base key, and
// brackets it with synthesized modifier press/release events. Press
// order is shift then long-press; releases come in reverse.
func (d *Decoder) decodeKey(raw byte) []Event {
	k := d.desc.Keys

	shift := k.ShiftMask != 0 && raw&k.ShiftMask != 0
	long := k.LongPressMask != 0 && raw&k.LongPressMask != 0
	base := raw &^ (k.ShiftMask | k.LongPressMask)

	nav, ok := k.Table[base]
	if !ok {
		log.Debug().
			Str("family", d.desc.Name).
			Uint8("key", base).
			Msg("unmapped key code, dropping")
		return nil
	}

	var out []Event
	if shift {
		out = append(out, navEvent(family.NavShift, true))
	}
	if long {
		out = append(out, navEvent(family.NavLongPress, true))
	}
	out = append(out, navEvent(nav, true))
	if long {
		out = append(out, navEvent(family.NavLongPress, false))
	}
	if shift {
		out = append(out, navEvent(family.NavShift, false))
	}
	return out
}

// decodeRouting rebases the raw index and dispatches it to the status
// or text range. Indices beyond both ranges are dropped silently:
// noisy hardware sends them and they must not escalate.
func (d *Decoder) decodeRouting(raw byte) []Event {
	idx := int(raw) - int(d.desc.Keys.RoutingBase)
	switch {
	case idx < 0:
		// below the routing base: malformed, drop
	case idx < d.statusCols:
		return []Event{{Group: GroupStatus, Code: idx, Press: true}}
	case idx < d.statusCols+d.textCols:
		return []Event{{Group: GroupRouting, Code: idx - d.statusCols, Press: true}}
	}

	log.Debug().
		Str("family", d.desc.Name).
		Int("index", idx).
		Msg("routing index out of range, dropping")
	return nil
}
