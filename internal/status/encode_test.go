// internal/status/encode_test.go
package status

import "testing"

func TestEncode_HealthSelection(t *testing.T) {
	if got := Encode(Snapshot{Healthy: true}, 3)[CellHealth]; got != HealthOK {
		t.Fatalf("healthy=%#x want %#x", got, HealthOK)
	}
	if got := Encode(Snapshot{Waiting: true}, 3)[CellHealth]; got != HealthWaiting {
		t.Fatalf("waiting=%#x want %#x", got, HealthWaiting)
	}
	if got := Encode(Snapshot{}, 3)[CellHealth]; got != HealthError {
		t.Fatalf("error=%#x want %#x", got, HealthError)
	}
}

func TestEncode_TruncatesToWidth(t *testing.T) {
	cells := Encode(Snapshot{Healthy: true, HasCursor: true}, 1)
	if len(cells) != 1 {
		t.Fatalf("len=%d want 1", len(cells))
	}

	if Encode(Snapshot{}, 0) != nil {
		t.Fatalf("zero width should encode to nil")
	}
}

func TestEncode_CursorMarker(t *testing.T) {
	cells := Encode(Snapshot{Healthy: true, HasCursor: true}, 3)
	if cells[CellCursor] != CursorMarker {
		t.Fatalf("cursor cell=%#x want %#x", cells[CellCursor], CursorMarker)
	}

	cells = Encode(Snapshot{Healthy: true}, 3)
	if cells[CellCursor] != 0 {
		t.Fatalf("cursor cell=%#x want blank", cells[CellCursor])
	}
}
