// Package presets loads named roll macros from YAML so common expressions
// ("stats" for 4d6kh3, "advantage" for 2d20kh1) can be rolled by name.
package presets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/diceman/internal/dice"
)

// Preset is one named dice expression.
type Preset struct {
	Name        string `yaml:"name"`
	Expression  string `yaml:"expression"`
	Description string `yaml:"description"`
}

// yamlFile is the top-level YAML structure for preset files.
type yamlFile struct {
	Presets []Preset `yaml:"presets"`
}

// Table is a lookup of presets by name. Names are case-insensitive.
type Table struct {
	byName map[string]Preset
}

// NewTable builds a Table from the given presets, validating each name and
// expression (every expression must parse).
//
// Postcondition: returns a Table whose every expression parses, or an error
// naming the first offending preset.
func NewTable(presets []Preset) (*Table, error) {
	byName := make(map[string]Preset, len(presets))
	for _, p := range presets {
		if p.Name == "" {
			return nil, fmt.Errorf("preset with expression %q has no name", p.Expression)
		}
		key := strings.ToLower(p.Name)
		if _, exists := byName[key]; exists {
			return nil, fmt.Errorf("duplicate preset name %q", p.Name)
		}
		if _, err := dice.Parse(p.Expression); err != nil {
			return nil, fmt.Errorf("preset %q has invalid expression %q: %w", p.Name, p.Expression, err)
		}
		byName[key] = p
	}
	return &Table{byName: byName}, nil
}

// LoadFromBytes parses and validates presets from YAML bytes.
func LoadFromBytes(data []byte) (*Table, error) {
	var file yamlFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing presets YAML: %w", err)
	}
	return NewTable(file.Presets)
}

// LoadFromFile reads and validates a single preset YAML file.
func LoadFromFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading presets file %s: %w", path, err)
	}
	table, err := LoadFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading presets from %s: %w", path, err)
	}
	return table, nil
}

// LoadFromDir loads every .yaml/.yml file in dir into one Table.
// Duplicate names across files are an error.
func LoadFromDir(dir string) (*Table, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading presets directory %s: %w", dir, err)
	}

	var all []Preset
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading presets file %s: %w", entry.Name(), err)
		}
		var file yamlFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parsing presets file %s: %w", entry.Name(), err)
		}
		all = append(all, file.Presets...)
	}

	return NewTable(all)
}

// Resolve returns the preset registered under name, ignoring case.
func (t *Table) Resolve(name string) (Preset, bool) {
	p, ok := t.byName[strings.ToLower(name)]
	return p, ok
}

// Expand returns the expression for name when it names a preset, or input
// unchanged when it does not; used by the CLI so "diceman roll stats" and
// "diceman roll 4d6kh3" go down the same path.
func (t *Table) Expand(input string) string {
	if p, ok := t.Resolve(input); ok {
		return p.Expression
	}
	return input
}

// All returns every preset sorted by name.
func (t *Table) All() []Preset {
	all := make([]Preset, 0, len(t.byName))
	for _, p := range t.byName {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all
}

// Len returns the number of presets in the table.
func (t *Table) Len() int {
	return len(t.byName)
}
