// internal/packet/encode.go
package packet

import (
	"unicode"

	"github.com/brailleio/brld/internal/display"
	"github.com/brailleio/brld/internal/family"
)

// Encoder turns display frames into outgoing wire packets for one
// family, suppressing writes that would repaint identical content.
type Encoder struct {
	desc *family.Descriptor
}

// NewEncoder builds an encoder for a family.
func NewEncoder(desc *family.Descriptor) *Encoder {
	return &Encoder{desc: desc}
}

// Encode produces zero or one outgoing packet for a frame. A nil,nil
// return means nothing changed since the last write and the device is
// left alone; re-sending identical frames causes visible flicker and
// wastes link bandwidth.
func (e *Encoder) Encode(frame display.Frame, cache *display.Cache) ([]byte, error) {
	statusChanged := false
	if e.desc.StatusInDisplay {
		statusChanged = cache.StatusChanged(frame.Status)
	}
	cellsChanged := cache.CellsChanged(frame.Cells, frame.Text)
	cursorChanged := cache.CursorChanged(frame.Cursor)

	if !cellsChanged && !cursorChanged && !statusChanged {
		return nil, nil
	}

	pay := make([]byte, 0, 1+len(frame.Status)+2*len(frame.Cells))

	if e.desc.HasCursorByte {
		// Cursor is 1-based on the wire; 0 means no cursor.
		var cb byte
		if frame.Cursor != display.NoCursor && frame.Cursor >= 0 && frame.Cursor < len(frame.Cells) {
			cb = byte(frame.Cursor + 1)
		}
		pay = append(pay, cb)
	}

	if e.desc.StatusInDisplay {
		for _, s := range frame.Status {
			pay = append(pay, e.desc.TranslateOut(s))
		}
	}

	for i, cell := range frame.Cells {
		pay = append(pay, e.desc.TranslateOut(cell))
		if e.desc.AttrBytes {
			var attr byte
			if i < len(frame.Text) && unicode.IsUpper(frame.Text[i]) {
				attr = 0x01
			}
			pay = append(pay, attr)
		}
	}

	return Build(e.desc, e.desc.DisplayOpcode, pay)
}
