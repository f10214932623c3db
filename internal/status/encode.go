// internal/status/encode.go
package status

// digitDots maps 0-9 to the standard braille digit patterns (a-j).
var digitDots = [10]byte{0x1A, 0x01, 0x03, 0x09, 0x19, 0x11, 0x0B, 0x1B, 0x13, 0x0A}

// Encode renders a snapshot into a status-cell block of the given
// width. Layout is protocol-locked. No IO. No side effects.
// Displays with fewer cells than the layout simply truncate it.
func Encode(s Snapshot, cols int) []byte {
	if cols <= 0 {
		return nil
	}
	cells := make([]byte, cols)

	health := HealthError
	switch {
	case s.Waiting:
		health = HealthWaiting
	case s.Healthy:
		health = HealthOK
	}
	cells[CellHealth] = health

	if CellRow < cols {
		cells[CellRow] = digitDots[(s.Row+1)%10]
	}
	if CellCursor < cols && s.HasCursor {
		cells[CellCursor] = CursorMarker
	}

	return cells
}
