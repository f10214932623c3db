// internal/family/load.go
package family

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads one descriptor file and registers it.
func Load(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("family load: %w", err)
	}

	var d Descriptor
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return fmt.Errorf("family load %s: %w", path, err)
	}

	if err := Register(&d); err != nil {
		return fmt.Errorf("family load %s: %w", path, err)
	}
	return nil
}

// LoadDir registers every *.yaml descriptor in a directory.
// A missing directory is not an error; custom families are opt-in.
func LoadDir(dir string) error {
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("family load: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		if err := Load(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}
