package specfile

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Rules control how dependency names found in spec files are turned into
// package names.
type Rules struct {
	// Ignore lists dependency names that are never reported, such as the EPICS
	// base package or build tools that are not part of the support tree.
	Ignore []string `yaml:"ignore"`

	// SpecFiles maps a package name to the stem of its spec file when the
	// two differ. Any other package uses "<name>/<name>.spec".
	SpecFiles map[string]string `yaml:"specFiles"`

	// Aliases maps a dependency name to the package that provides it.
	Aliases map[string]string `yaml:"aliases"`

	// StripSuffixes are removed from dependency names, so that "asyn-devel"
	// counts as a dependency on "asyn".
	StripSuffixes []string `yaml:"stripSuffixes"`
}

// DefaultRules returns the rules used for the Gemini support package tree.
func DefaultRules() Rules {
	return Rules{
		Ignore: []string{
			"epics-base",
			"re2c",
			"gemini-ade",
			"rpcgen",
			"libtirpc",
			"tdct",
			"psmisc",
			"%{name}",
		},
		SpecFiles: map[string]string{
			"agseq":        "agSeq",
			"AbDf1":        "abdf1",
			"streamdevice": "StreamDevice",
			"gemUtil":      "gemutil",
			"geminiRec":    "geminirec",
		},
		Aliases: map[string]string{
			"geminipcre": "pcre",
			"geminicalc": "calc",
		},
		StripSuffixes: []string{"-devel"},
	}
}

// ParseRules decodes YAML rules on top of the defaults. Lists given in the
// document replace the default lists; map entries are merged with the default
// maps.
func ParseRules(r io.Reader) (Rules, error) {
	rules := DefaultRules()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&rules); err != nil && err != io.EOF {
		return Rules{}, fmt.Errorf("decoding rules: %w", err)
	}

	return rules, nil
}

// LoadRules reads rules from a YAML file. An empty path yields the defaults.
func LoadRules(fsys afero.Fs, path string) (Rules, error) {
	if path == "" {
		return DefaultRules(), nil
	}

	f, err := fsys.Open(path)
	if err != nil {
		return Rules{}, fmt.Errorf("opening rules file: %w", err)
	}
	defer f.Close()

	rules, err := ParseRules(f)
	if err != nil {
		return Rules{}, fmt.Errorf("%s: %w", path, err)
	}
	return rules, nil
}
