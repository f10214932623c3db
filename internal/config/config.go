// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Daemon  DaemonConfig   `yaml:"daemon"`
	Devices []DeviceConfig `yaml:"devices"`
}

// ---- DAEMON ----

type DaemonConfig struct {
	TickMs    int    `yaml:"tick_ms"`
	FamilyDir string `yaml:"family_dir"` // extra descriptor files, optional
}

// ---- DEVICE ----

type DeviceConfig struct {
	ID        string `yaml:"id"`
	Family    string `yaml:"family"`
	Transport string `yaml:"transport"` // serial | hid | usb | tcp
	Address   string `yaml:"address"`
	Baud      int    `yaml:"baud"` // serial only

	ReadInitialMs    int `yaml:"read_initial_ms"`
	ReadSubsequentMs int `yaml:"read_subsequent_ms"`
}

// Load reads and parses a config file. Validation is separate.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}
