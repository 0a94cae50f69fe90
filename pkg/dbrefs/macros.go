package dbrefs

import (
	"fmt"
	"io"
	"regexp"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Macros maps macro names to the values substituted for them.
type Macros map[string]string

// DefaultMacros returns the substitutions used by the A&G top level databases.
func DefaultMacros() Macros {
	return Macros{
		"ag":    "tag:",
		"pwfs1": "pwfs1:",
		"pwfs2": "pwfs2:",
		"oiwfs": "oiwfs:",
		"hrwfs": "thrwfs:",
		"f2top": "f2:",
		"tcs":   "tcs:",
	}
}

var macroPattern = regexp.MustCompile(`\$\{([^}]*)\}|\$\(([^)]*)\)`)

// Expand replaces every ${name} and $(name) reference to a defined macro.
// References to undefined macros are kept as they are.
func (m Macros) Expand(line string) string {
	return macroPattern.ReplaceAllStringFunc(line, func(ref string) string {
		name := ref[2 : len(ref)-1]
		if value, ok := m[name]; ok {
			return value
		}
		return ref
	})
}

// ParseMacros decodes a YAML mapping of macro names to values.
func ParseMacros(r io.Reader) (Macros, error) {
	m := Macros{}
	if err := yaml.NewDecoder(r).Decode(&m); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decoding macros: %w", err)
	}
	return m, nil
}

// LoadMacros reads macros from a YAML file.
func LoadMacros(fsys afero.Fs, path string) (Macros, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening macros file: %w", err)
	}
	defer f.Close()

	m, err := ParseMacros(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
