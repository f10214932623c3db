// internal/config/validate.go
package config

import (
	"fmt"
)

var transports = map[string]bool{
	"serial": true,
	"hid":    true,
	"usb":    true,
	"tcp":    true,
}

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if len(cfg.Devices) == 0 {
		return fmt.Errorf("config: at least one device required")
	}

	if cfg.Daemon.TickMs < 0 {
		return fmt.Errorf("config: tick_ms must not be negative")
	}

	// ------------------------------------------------------------
	// DEVICE VALIDATION
	// ------------------------------------------------------------

	seenID := make(map[string]bool)
	// key = transport | address: two sessions must never share a channel
	seenAddr := make(map[string]string)

	for _, d := range cfg.Devices {
		if d.ID == "" {
			return fmt.Errorf("config: device id required")
		}
		if seenID[d.ID] {
			return fmt.Errorf("config: duplicate device id %q", d.ID)
		}
		seenID[d.ID] = true

		if d.Family == "" {
			return fmt.Errorf("device %q: family required", d.ID)
		}
		if !transports[d.Transport] {
			return fmt.Errorf("device %q: unknown transport %q", d.ID, d.Transport)
		}
		if d.Address == "" {
			return fmt.Errorf("device %q: address required", d.ID)
		}
		if d.Baud < 0 {
			return fmt.Errorf("device %q: baud must not be negative", d.ID)
		}
		if d.Transport != "serial" && d.Baud != 0 {
			return fmt.Errorf("device %q: baud only applies to serial transport", d.ID)
		}
		if d.ReadInitialMs < 0 || d.ReadSubsequentMs < 0 {
			return fmt.Errorf("device %q: read timeouts must not be negative", d.ID)
		}

		key := fmt.Sprintf("%s|%s", d.Transport, d.Address)
		if prev, exists := seenAddr[key]; exists {
			return fmt.Errorf(
				"channel collision: transport=%s address=%s used by devices %q and %q",
				d.Transport, d.Address, prev, d.ID,
			)
		}
		seenAddr[key] = d.ID
	}

	return nil
}
