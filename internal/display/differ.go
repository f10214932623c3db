// internal/display/differ.go
package display

// Cache is the per-session shadow copy of the last frame written to
// the device, plus the forced-rewrite flag. It is owned exclusively by
// the session's I/O owner; no locking.
type Cache struct {
	cells  []byte
	text   []rune
	cursor int
	status []byte

	force bool

	// coupleStatus couples status changes to the text area: families
	// that transmit status and text in one packet need a status change
	// to force the text rewrite on the same cycle.
	coupleStatus bool
}

// NewCache returns a cache initialized to the all-blank, no-cursor
// state for the negotiated geometry. The forced-rewrite flag starts
// clear: a first frame identical to blank is suppressed.
func NewCache(textCols, statusCols int, coupleStatus bool) *Cache {
	return &Cache{
		cells:        make([]byte, textCols),
		text:         make([]rune, textCols),
		cursor:       NoCursor,
		status:       make([]byte, statusCols),
		coupleStatus: coupleStatus,
	}
}

// ForceRewrite makes the next change check report true regardless of
// equality. Used after reconnect or detected desync.
func (c *Cache) ForceRewrite() {
	c.force = true
}

// CellsChanged reports whether the text area needs a rewrite: true if
// the forced flag was set (and clears it) or any cell or text element
// differs, copying the new content into the cache. False leaves the
// cache untouched.
func (c *Cache) CellsChanged(cells []byte, text []rune) bool {
	if c.force {
		c.force = false
		c.copyCells(cells, text)
		return true
	}

	changed := false
	if len(cells) != len(c.cells) {
		changed = true
	} else {
		for i, b := range cells {
			if c.cells[i] != b {
				changed = true
				break
			}
		}
	}
	if !changed && len(text) == len(c.text) {
		for i, r := range text {
			if c.text[i] != r {
				changed = true
				break
			}
		}
	} else if len(text) != len(c.text) {
		changed = true
	}

	if !changed {
		return false
	}
	c.copyCells(cells, text)
	return true
}

// CursorChanged follows the same contract for the single cursor scalar.
func (c *Cache) CursorChanged(cursor int) bool {
	if cursor == c.cursor {
		return false
	}
	c.cursor = cursor
	return true
}

// StatusChanged reports whether the status cells differ, updating the
// cache on change. With coupling enabled a status change also forces
// the next CellsChanged to report true even for identical text.
func (c *Cache) StatusChanged(status []byte) bool {
	changed := len(status) != len(c.status)
	if !changed {
		for i, b := range status {
			if c.status[i] != b {
				changed = true
				break
			}
		}
	}
	if !changed {
		return false
	}

	c.status = append(c.status[:0:0], status...)
	if c.coupleStatus {
		c.force = true
	}
	return true
}

func (c *Cache) copyCells(cells []byte, text []rune) {
	c.cells = append(c.cells[:0:0], cells...)
	c.text = append(c.text[:0:0], text...)
}
