package graphdef

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

// ParseYAML reads a YAML graph definition. JSON documents are accepted too.
func ParseYAML(r io.Reader) (*GraphDefinition, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read definition: %w", err)
	}

	var gd GraphDefinition
	if err := yaml.Unmarshal(data, &gd); err != nil {
		return nil, fmt.Errorf("%w: parse YAML: %w", ErrInvalidDefinition, err)
	}
	return &gd, nil
}

// ParseString parses a YAML graph definition from a string.
func ParseString(s string) (*GraphDefinition, error) {
	return ParseYAML(strings.NewReader(s))
}

// ParseFile reads a graph definition, choosing the format by extension:
// .hcl for HCL and .yaml, .yml or .json for YAML.
func ParseFile(filename string) (*GraphDefinition, error) {
	// #nosec G304 - definitions are read from user-provided paths
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".hcl":
		return ParseHCL(filename, data)
	case ".yaml", ".yml", ".json":
		gd, err := ParseYAML(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		return gd, nil
	default:
		return nil, fmt.Errorf("%w: %s: unsupported definition format %q", ErrInvalidDefinition, filename, ext)
	}
}

// Marshal converts a graph definition to YAML.
func Marshal(gd *GraphDefinition) ([]byte, error) {
	data, err := yaml.Marshal(gd)
	if err != nil {
		return nil, fmt.Errorf("marshal YAML: %w", err)
	}
	return data, nil
}

// MarshalToFile writes a graph definition to a YAML file.
func MarshalToFile(gd *GraphDefinition, filename string) error {
	data, err := Marshal(gd)
	if err != nil {
		return err
	}

	return os.WriteFile(filename, data, 0o600)
}
