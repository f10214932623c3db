// internal/family/descriptor_test.go
package family

import "testing"

func TestBuiltinsRegistered(t *testing.T) {
	for _, name := range []string{"vario", "pronto", "echo", "merlin"} {
		d, err := Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q) err=%v", name, err)
		}
		if d.Name != name {
			t.Fatalf("Lookup(%q) returned %q", name, d.Name)
		}
	}

	if _, err := Lookup("nonesuch"); err == nil {
		t.Fatalf("expected error for unknown family")
	}
}

func TestValidate_RejectsBadOutputTable(t *testing.T) {
	d := varioFamily
	d.Name = "broken"
	d.OutputTable = [8]uint8{0, 0, 2, 3, 4, 5, 6, 7} // bit 0 twice

	if err := d.Validate(); err == nil {
		t.Fatalf("expected duplicate-bit error")
	}

	d.OutputTable = [8]uint8{0, 1, 2, 3, 4, 5, 6, 9} // out of range
	if err := d.Validate(); err == nil {
		t.Fatalf("expected out-of-range error")
	}
}

func TestValidate_RejectsBadProbe(t *testing.T) {
	d := prontoFamily
	d.Name = "broken-probe"
	d.Probe.Retries = 0

	if err := d.Validate(); err == nil {
		t.Fatalf("expected retry range error")
	}
}

func TestTranslate_RoundTrip(t *testing.T) {
	d, err := Lookup("pronto") // mirrored table
	if err != nil {
		t.Fatalf("Lookup err=%v", err)
	}

	for v := 0; v < 256; v++ {
		cell := byte(v)
		if got := d.TranslateIn(d.TranslateOut(cell)); got != cell {
			t.Fatalf("round trip %#x -> %#x", cell, got)
		}
	}

	// Spot checks against the mirror layout.
	if got := d.TranslateOut(0x07); got != 0x38 {
		t.Fatalf("TranslateOut(0x07)=%#x want 0x38", got)
	}
	if got := d.TranslateOut(0x40); got != 0x80 {
		t.Fatalf("TranslateOut(0x40)=%#x want 0x80", got)
	}
}

func TestRegister_RejectsDuplicateName(t *testing.T) {
	d := varioFamily
	if err := Register(&d); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}
