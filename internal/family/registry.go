// internal/family/registry.go
package family

import (
	"fmt"
	"sort"
)

// registry holds every known descriptor by name. Populated with the
// builtins at init; extended by Register (e.g. from descriptor files).
// The registry is written during startup only; sessions read it after.
var registry = map[string]*Descriptor{}

func init() {
	for _, d := range []Descriptor{varioFamily, prontoFamily, echoFamily, merlinFamily} {
		d := d
		if err := d.Validate(); err != nil {
			panic(fmt.Sprintf("builtin family invalid: %v", err))
		}
		registry[d.Name] = &d
	}
}

// Register adds a descriptor to the registry. Registering a name twice
// is an error; builtins cannot be shadowed.
func Register(d *Descriptor) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if _, exists := registry[d.Name]; exists {
		return fmt.Errorf("family %q already registered", d.Name)
	}
	registry[d.Name] = d
	return nil
}

// Lookup returns the descriptor for a family name.
func Lookup(name string) (*Descriptor, error) {
	d, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown device family %q", name)
	}
	return d, nil
}

// Names lists registered family names, sorted.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
