// internal/packet/packet.go
package packet

import (
	"errors"
	"fmt"

	"github.com/brailleio/brld/internal/family"
)

// ErrPacketCorrupt marks a checksum mismatch on an otherwise
// well-formed packet. Local to the codec: logged, never fatal.
var ErrPacketCorrupt = errors.New("packet: checksum mismatch")

// Packet is one decoded, verified unit of protocol exchange.
type Packet struct {
	Opcode  byte
	Payload []byte
	Raw     []byte // full wire bytes including framing
}

// Build assembles a complete wire packet for a family: start markers,
// opcode, length field (when the family has one), payload, checksum
// and end markers. The payload is taken as-is; dot translation happens
// in the encoder.
func Build(desc *family.Descriptor, opcode byte, payload []byte) ([]byte, error) {
	if len(payload) > desc.Framing.MaxPayload {
		return nil, fmt.Errorf("packet: payload %d exceeds family %q max %d",
			len(payload), desc.Name, desc.Framing.MaxPayload)
	}

	ck, err := ChecksumFor(desc.Checksum)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 0, len(desc.Framing.Start)+3+len(payload)+ck.Size+len(desc.Framing.End))
	buf = append(buf, desc.Framing.Start...)
	buf = append(buf, opcode)

	switch desc.Framing.Length {
	case family.LengthFixed:
		// no length field
	case family.Length1:
		if len(payload) > 0xFF {
			return nil, fmt.Errorf("packet: payload %d too large for 1-byte length", len(payload))
		}
		buf = append(buf, byte(len(payload)))
	case family.Length2LE:
		buf = append(buf, byte(len(payload)), byte(len(payload)>>8))
	}

	buf = append(buf, payload...)

	if ck.Size > 0 {
		covStart := len(desc.Framing.Start)
		if desc.Checksum.CoverStart {
			covStart = 0
		}
		buf = append(buf, ck.Sum(buf[covStart:])...)
	}

	buf = append(buf, desc.Framing.End...)
	return buf, nil
}
