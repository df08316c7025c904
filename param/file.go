package param

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a flat YAML mapping of parameters. PassthroughKey is set to
// the directory of the file unless the file sets it itself.
func LoadFile(path string) (Raw, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read '%s': %w", path, err)
	}
	raw := Raw{}
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("unable to parse '%s': %w", path, err)
	}
	if _, ok := raw[PassthroughKey]; !ok {
		raw[PassthroughKey] = filepath.Dir(path)
	}
	return raw, nil
}
