// internal/config/validate_test.go
package config

import "testing"

// helper to build a device quickly
func device(id, fam, transport, address string) DeviceConfig {
	return DeviceConfig{
		ID:        id,
		Family:    fam,
		Transport: transport,
		Address:   address,
	}
}

// ---- tests ----

func TestValidate_OK(t *testing.T) {
	cfg := &Config{
		Devices: []DeviceConfig{
			device("d1", "vario", "serial", "/dev/ttyUSB0"),
			device("d2", "pronto", "tcp", "127.0.0.1:4101"),
		},
	}

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_NoDevices(t *testing.T) {
	if err := Validate(&Config{}); err == nil {
		t.Fatalf("expected error for empty device list")
	}
}

func TestValidate_DuplicateID(t *testing.T) {
	cfg := &Config{
		Devices: []DeviceConfig{
			device("d1", "vario", "serial", "/dev/ttyUSB0"),
			device("d1", "pronto", "serial", "/dev/ttyUSB1"),
		},
	}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestValidate_ChannelCollision(t *testing.T) {
	cfg := &Config{
		Devices: []DeviceConfig{
			device("d1", "vario", "serial", "/dev/ttyUSB0"),
			device("d2", "pronto", "serial", "/dev/ttyUSB0"),
		},
	}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected channel collision error")
	}
}

func TestValidate_UnknownTransport(t *testing.T) {
	cfg := &Config{
		Devices: []DeviceConfig{
			device("d1", "vario", "carrier-pigeon", "coop"),
		},
	}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected unknown transport error")
	}
}

func TestValidate_BaudOnNonSerial(t *testing.T) {
	d := device("d1", "vario", "tcp", "127.0.0.1:4101")
	d.Baud = 9600
	cfg := &Config{Devices: []DeviceConfig{d}}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected baud-on-tcp error")
	}
}

func TestNormalize_Defaults(t *testing.T) {
	cfg := &Config{
		Devices: []DeviceConfig{
			device("d1", "vario", "serial", "/dev/ttyUSB0"),
		},
	}

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	Normalize(cfg)

	if cfg.Daemon.TickMs != 40 {
		t.Fatalf("tick default=%d want 40", cfg.Daemon.TickMs)
	}
	d := cfg.Devices[0]
	if d.Baud != 19200 {
		t.Fatalf("baud default=%d want 19200", d.Baud)
	}
	if d.ReadInitialMs != 50 || d.ReadSubsequentMs != 20 {
		t.Fatalf("timeout defaults=%d/%d", d.ReadInitialMs, d.ReadSubsequentMs)
	}
}
