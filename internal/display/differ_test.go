// internal/display/differ_test.go
package display

import "testing"

func TestCellsChanged_BlankStart(t *testing.T) {
	c := NewCache(4, 0, false)

	if c.CellsChanged(make([]byte, 4), make([]rune, 4)) {
		t.Fatalf("blank frame against fresh cache reported a change")
	}

	cells := []byte{0, 0x20, 0, 0}
	if !c.CellsChanged(cells, make([]rune, 4)) {
		t.Fatalf("changed cell not detected")
	}

	// Cache updated: same content again is a no-op.
	if c.CellsChanged(cells, make([]rune, 4)) {
		t.Fatalf("identical frame reported a change")
	}
}

func TestCellsChanged_TextOnly(t *testing.T) {
	c := NewCache(2, 0, false)

	text := []rune{'H', 'i'}
	if !c.CellsChanged(make([]byte, 2), text) {
		t.Fatalf("text change not detected")
	}
	if c.CellsChanged(make([]byte, 2), text) {
		t.Fatalf("identical text reported a change")
	}
}

func TestForceRewrite_ClearsOnUse(t *testing.T) {
	c := NewCache(2, 0, false)
	cells := make([]byte, 2)
	text := make([]rune, 2)

	c.ForceRewrite()
	if !c.CellsChanged(cells, text) {
		t.Fatalf("forced rewrite did not override equality")
	}
	// One-shot: the next identical check is a no-op again.
	if c.CellsChanged(cells, text) {
		t.Fatalf("force flag not cleared after use")
	}
}

func TestCursorChanged(t *testing.T) {
	c := NewCache(4, 0, false)

	if c.CursorChanged(NoCursor) {
		t.Fatalf("no-cursor against fresh cache reported a change")
	}
	if !c.CursorChanged(2) {
		t.Fatalf("cursor move not detected")
	}
	if c.CursorChanged(2) {
		t.Fatalf("same cursor reported a change")
	}
	if !c.CursorChanged(NoCursor) {
		t.Fatalf("cursor removal not detected")
	}
}

func TestStatusChanged_CouplingForcesText(t *testing.T) {
	c := NewCache(2, 2, true)
	cells := make([]byte, 2)
	text := make([]rune, 2)

	// Settle the text cache.
	if c.CellsChanged(cells, text) {
		t.Fatalf("blank text reported a change")
	}

	if !c.StatusChanged([]byte{0x01, 0x00}) {
		t.Fatalf("status change not detected")
	}

	// Coupled: unchanged text must now rewrite on the same cycle.
	if !c.CellsChanged(cells, text) {
		t.Fatalf("status change did not force text rewrite")
	}
	if c.CellsChanged(cells, text) {
		t.Fatalf("force flag leaked past one cycle")
	}
}

func TestStatusChanged_UncoupledLeavesText(t *testing.T) {
	c := NewCache(2, 2, false)

	if !c.StatusChanged([]byte{0x01, 0x00}) {
		t.Fatalf("status change not detected")
	}
	if c.CellsChanged(make([]byte, 2), make([]rune, 2)) {
		t.Fatalf("uncoupled status change forced a text rewrite")
	}
	if c.StatusChanged([]byte{0x01, 0x00}) {
		t.Fatalf("identical status reported a change")
	}
}
