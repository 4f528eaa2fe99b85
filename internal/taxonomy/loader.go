package taxonomy

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yosuke-furukawa/json5/encoding/json5"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultTable []byte

// Format names a table encoding.
type Format string

const (
	FormatYAML  Format = "yaml"
	FormatJSON5 Format = "json5"
)

// Default returns the embedded table.
func Default() (*Table, error) {
	return Parse(defaultTable, FormatYAML)
}

// DefaultSource returns the embedded table as written.
func DefaultSource() []byte {
	return append([]byte(nil), defaultTable...)
}

// Load reads a table from path, or the embedded table when path is empty.
// The encoding is chosen by extension: .json and .json5 are JSON5,
// everything else YAML.
func Load(path string) (*Table, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy: %w", err)
	}
	table, err := Parse(data, FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".json5":
		return FormatJSON5
	default:
		return FormatYAML
	}
}

// Parse decodes and validates a table.
func Parse(data []byte, format Format) (*Table, error) {
	var table Table
	switch format {
	case FormatJSON5:
		if err := json5.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("parse taxonomy: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&table); err != nil {
			return nil, fmt.Errorf("parse taxonomy: %w", err)
		}
	default:
		return nil, fmt.Errorf("parse taxonomy: unknown format %q", format)
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return &table, nil
}
