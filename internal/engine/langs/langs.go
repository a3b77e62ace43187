// Package langs holds the human-readable language names shown next to
// detected labels.
package langs

import (
	"fmt"
	"os"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Unknown is the display name of a label missing from the table.
const Unknown = "Unknown"

// Names maps language codes to display names. It is read-only after
// construction and safe for concurrent use.
type Names struct {
	m map[string]string
}

// New copies m into a Names table.
func New(m map[string]string) *Names {
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return &Names{m: cp}
}

// LoadFile reads a YAML mapping of code to display name. The file replaces
// the built-in table rather than extending it.
func LoadFile(path string) (*Names, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("langs: %w", err)
	}
	var m map[string]string
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("langs: parse %s: %w", path, err)
	}
	if len(m) == 0 {
		return nil, fmt.Errorf("langs: %s defines no languages", path)
	}
	for code, name := range m {
		if code == "" || name == "" {
			return nil, fmt.Errorf("langs: %s has an empty code or name", path)
		}
	}
	return New(m), nil
}

// Lookup returns the display name for code, or Unknown.
func (n *Names) Lookup(code string) string {
	if name, ok := n.m[code]; ok {
		return name
	}
	return Unknown
}

// Map returns a copy of the table.
func (n *Names) Map() map[string]string {
	cp := make(map[string]string, len(n.m))
	for k, v := range n.m {
		cp[k] = v
	}
	return cp
}

// Len returns the number of entries.
func (n *Names) Len() int {
	return len(n.m)
}

// IsISO639 reports whether code is a known ISO 639 language code.
func IsISO639(code string) bool {
	if code == "" {
		return false
	}
	_, err := language.ParseBase(code)
	return err == nil
}
