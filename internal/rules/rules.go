// Package rules loads the engine's lookup tables from YAML and keeps the live
// engine up to date when the file changes.
package rules

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"adaptcoach/internal/adaptive"
)

// ErrInvalidTables wraps every validation failure of a rules file.
var ErrInvalidTables = errors.New("invalid rule tables")

// Parse overlays a YAML document onto the built-in tables and validates the result.
// Keys the document omits keep their built-in values; map entries and lists that it
// sets replace the built-in entry as a whole.
func Parse(data []byte) (*adaptive.Tables, error) {
	t := adaptive.DefaultTables()
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTables, err)
	}
	return t, nil
}

// Load reads and parses a rules file. An empty path yields the built-in tables.
func Load(path string) (*adaptive.Tables, error) {
	if path == "" {
		return adaptive.DefaultTables(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules %s: %w", path, err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("rules %s: %w", path, err)
	}
	return t, nil
}

// Marshal renders tables as YAML, in the same shape Parse accepts.
func Marshal(t *adaptive.Tables) ([]byte, error) {
	out, err := yaml.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("encode rules: %w", err)
	}
	return out, nil
}
