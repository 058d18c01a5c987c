package variant

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// file is the on-disk layout of a variant table override.
type file struct {
	Variants []Entry `yaml:"variants"`
}

// LoadFile reads a YAML variant table. The file replaces the built-in table.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read variants file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML variant table.
func Parse(data []byte) (*Table, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse variants: %w", err)
	}
	if len(f.Variants) == 0 {
		return nil, fmt.Errorf("variants file has no entries")
	}
	return New(f.Variants), nil
}
