// cmd/brld/render.go
package main

import (
	"unicode"

	"github.com/brailleio/brld/internal/display"
	"github.com/brailleio/brld/internal/keys"
	"github.com/brailleio/brld/internal/session"
	"github.com/brailleio/brld/internal/status"
)

// asciiDots is a minimal demo translation table (grade 0, letters and
// digits). Production consumers supply their own translation layer.
var asciiDots = map[rune]byte{
	'a': 0x01, 'b': 0x03, 'c': 0x09, 'd': 0x19, 'e': 0x11,
	'f': 0x0B, 'g': 0x1B, 'h': 0x13, 'i': 0x0A, 'j': 0x1A,
	'k': 0x05, 'l': 0x07, 'm': 0x0D, 'n': 0x1D, 'o': 0x15,
	'p': 0x0F, 'q': 0x1F, 'r': 0x17, 's': 0x0E, 't': 0x1E,
	'u': 0x25, 'v': 0x27, 'w': 0x3A, 'x': 0x2D, 'y': 0x3D,
	'z': 0x35,
	'0': 0x34, '1': 0x02, '2': 0x06, '3': 0x12, '4': 0x32,
	'5': 0x22, '6': 0x16, '7': 0x36, '8': 0x26, '9': 0x14,
	' ': 0x00,
}

// renderer pans a text line across the display and tracks the cursor.
type renderer struct {
	geom   session.Geometry
	text   []rune
	offset int
	cursor int
}

func newRenderer(geom session.Geometry, text string) *renderer {
	return &renderer{geom: geom, text: []rune(text), cursor: display.NoCursor}
}

func (r *renderer) frame() display.Frame {
	f := display.NewFrame(r.geom.TextCols, r.geom.StatusCols)
	for i := 0; i < r.geom.TextCols; i++ {
		pos := r.offset + i
		if pos >= len(r.text) {
			break
		}
		ch := r.text[pos]
		f.Text[i] = ch
		if dots, ok := asciiDots[unicode.ToLower(ch)]; ok {
			f.Cells[i] = dots
		}
	}
	f.Cursor = r.cursor

	if r.geom.StatusCols > 0 {
		copy(f.Status, status.Encode(status.Snapshot{
			Healthy:   true,
			Row:       r.offset / r.geom.TextCols,
			HasCursor: r.cursor != display.NoCursor,
		}, r.geom.StatusCols))
	}
	return f
}

// apply reacts to a command and reports whether the frame changed.
func (r *renderer) apply(cmd keys.Command) bool {
	switch cmd.Kind {
	case keys.CmdPanLeft:
		if r.offset == 0 {
			return false
		}
		r.offset -= r.geom.TextCols
		if r.offset < 0 {
			r.offset = 0
		}
		return true

	case keys.CmdPanRight:
		if r.offset+r.geom.TextCols >= len(r.text) {
			return false
		}
		r.offset += r.geom.TextCols
		return true

	case keys.CmdCursorRoute:
		if cmd.Arg < 0 || cmd.Arg >= r.geom.TextCols {
			return false
		}
		r.cursor = cmd.Arg
		return true
	}

	return false
}
