// internal/config/normalize.go
package config

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Daemon.TickMs == 0 {
		cfg.Daemon.TickMs = 40
	}

	for i := range cfg.Devices {
		d := &cfg.Devices[i]

		if d.Transport == "serial" && d.Baud == 0 {
			d.Baud = 19200
		}
		if d.ReadInitialMs == 0 {
			d.ReadInitialMs = 50
		}
		if d.ReadSubsequentMs == 0 {
			d.ReadSubsequentMs = 20
		}
	}
}
