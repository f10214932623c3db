// internal/display/frame.go
package display

// NoCursor marks a frame without a visible cursor.
const NoCursor = -1

// Frame is the logical content to present on one display: cell dot
// patterns, optional per-cell text (for attribute marking), a cursor
// position and optional status cells. The driver never mutates a frame
// except through the output translation table at encode time.
type Frame struct {
	Cells  []byte
	Text   []rune
	Cursor int
	Status []byte
}

// NewFrame returns an all-blank frame for the given geometry.
func NewFrame(textCols, statusCols int) Frame {
	return Frame{
		Cells:  make([]byte, textCols),
		Text:   make([]rune, textCols),
		Cursor: NoCursor,
		Status: make([]byte, statusCols),
	}
}

// Clone returns a deep copy of the frame.
func (f Frame) Clone() Frame {
	out := Frame{Cursor: f.Cursor}
	out.Cells = append([]byte(nil), f.Cells...)
	out.Text = append([]rune(nil), f.Text...)
	out.Status = append([]byte(nil), f.Status...)
	return out
}
