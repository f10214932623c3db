// internal/packet/checksum.go
package packet

import (
	"fmt"

	"github.com/sigurn/crc16"

	"github.com/brailleio/brld/internal/family"
)

// Checksum is one pluggable checksum algorithm. Size is the number of
// trailing checksum bytes; Sum computes them over the covered range.
type Checksum struct {
	Size int
	Sum  func(data []byte) []byte
}

var crcTable = crc16.MakeTable(crc16.CRC16_MODBUS)

// ChecksumFor resolves a family's checksum spec to an algorithm.
func ChecksumFor(spec family.ChecksumSpec) (Checksum, error) {
	switch spec.Algorithm {
	case "none", "":
		return Checksum{Size: 0, Sum: func([]byte) []byte { return nil }}, nil

	case "sum8":
		return Checksum{
			Size: 1,
			Sum: func(data []byte) []byte {
				var s byte
				for _, b := range data {
					s += b
				}
				return []byte{s}
			},
		}, nil

	case "sumxor16":
		mask := spec.Mask
		return Checksum{
			Size: 2,
			Sum: func(data []byte) []byte {
				var s uint16
				for _, b := range data {
					s += uint16(b)
				}
				s ^= mask
				return []byte{byte(s >> 8), byte(s)}
			},
		}, nil

	case "crc16":
		return Checksum{
			Size: 2,
			Sum: func(data []byte) []byte {
				c := crc16.Checksum(data, crcTable)
				return []byte{byte(c), byte(c >> 8)} // little-endian, RTU style
			},
		}, nil
	}

	return Checksum{}, fmt.Errorf("packet: unknown checksum algorithm %q", spec.Algorithm)
}
