package family

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// File is the on-disk layout of a family definition file.
type File struct {
	Families []*Family `yaml:"families"`
}

// LoadFile reads family definitions from a YAML file and validates them.
func LoadFile(path string) ([]*Family, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read family file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse family file: %w", err)
	}

	for _, f := range file.Families {
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return file.Families, nil
}

// SaveFile writes family definitions to a YAML file.
func SaveFile(path string, families []*Family) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create family directory: %w", err)
	}

	data, err := yaml.Marshal(File{Families: families})
	if err != nil {
		return fmt.Errorf("failed to marshal families: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write family file: %w", err)
	}
	return nil
}

// LoadRegistry reads a family file into a new registry.
func LoadRegistry(path string) (*Registry, error) {
	families, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	r := NewRegistry()
	for _, f := range families {
		if err := r.Register(f); err != nil {
			return nil, err
		}
	}
	return r, nil
}
