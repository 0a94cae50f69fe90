package specfile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/ade-tools/adectl/pkg/dag"
	"github.com/ade-tools/adectl/pkg/internal/errorhelpers"
	"github.com/chainguard-dev/clog"
	"github.com/spf13/afero"
)

const (
	tagRequires      = "Requires:"
	tagBuildRequires = "BuildRequires:"
)

// A Scraper reads the dependencies of support packages from their RPM spec
// files. All packages live under a common source root, one directory per
// package.
type Scraper struct {
	fs     afero.Fs
	root   string
	rules  Rules
	ignore map[string]struct{}
}

// NewScraper returns a Scraper reading spec files below root in fsys.
func NewScraper(fsys afero.Fs, root string, rules Rules) *Scraper {
	ignore := make(map[string]struct{}, len(rules.Ignore))
	for _, name := range rules.Ignore {
		ignore[name] = struct{}{}
	}

	return &Scraper{
		fs:     fsys,
		root:   root,
		rules:  rules,
		ignore: ignore,
	}
}

// SpecPath returns the location of the spec file for the named package.
func (s *Scraper) SpecPath(name string) string {
	stem := name
	if override, ok := s.rules.SpecFiles[name]; ok {
		stem = override
	}
	return filepath.Join(s.root, name, stem+".spec")
}

// Scrape reads the spec file of the named package.
func (s *Scraper) Scrape(name string) (dag.Package, error) {
	path := s.SpecPath(name)
	f, err := s.fs.Open(path)
	if err != nil {
		return dag.Package{}, fmt.Errorf("opening spec file: %w", err)
	}
	defer f.Close()

	p, err := s.Parse(name, f)
	if err != nil {
		return dag.Package{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse collects the Requires and BuildRequires entries of a spec file.
func (s *Scraper) Parse(name string, r io.Reader) (dag.Package, error) {
	var requires, buildRequires []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case strings.HasPrefix(line, tagRequires):
			requires = append(requires, s.Dependencies(strings.TrimPrefix(line, tagRequires))...)
		case strings.HasPrefix(line, tagBuildRequires):
			buildRequires = append(buildRequires, s.Dependencies(strings.TrimPrefix(line, tagBuildRequires))...)
		}
	}
	if err := scanner.Err(); err != nil {
		return dag.Package{}, fmt.Errorf("scanning lines of spec file: %w", err)
	}

	return dag.NewPackage(name, requires, buildRequires), nil
}

// Dependencies turns the value of a Requires or BuildRequires tag into package
// names. Version constraints are dropped, suffixes stripped, ignored names
// removed and aliases resolved.
func (s *Scraper) Dependencies(value string) []string {
	tokens := strings.FieldsFunc(value, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})

	var deps []string
	for i := 0; i < len(tokens); i++ {
		token := tokens[i]

		if isConstraint(token) {
			// "name >= 1.2": the operator is followed by the version
			if isOperator(token) {
				i++
			}
			continue
		}

		for _, suffix := range s.rules.StripSuffixes {
			token = strings.TrimSuffix(token, suffix)
		}
		if _, ignored := s.ignore[token]; ignored {
			continue
		}
		if alias, ok := s.rules.Aliases[token]; ok {
			token = alias
		}
		deps = append(deps, token)
	}
	return deps
}

func isConstraint(token string) bool {
	return strings.ContainsAny(token[:1], "<>=")
}

func isOperator(token string) bool {
	switch token {
	case "<", "<=", "=", "==", ">=", ">":
		return true
	}
	return false
}

// ReadPackageList returns the package names listed in r, one per line. Blank
// lines and lines starting with '#' are skipped.
func ReadPackageList(r io.Reader) ([]string, error) {
	var names []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning package list: %w", err)
	}

	return names, nil
}

// ScrapeList builds a dependency graph from the packages listed in r. A
// package whose spec file can't be processed is logged and left out of the
// graph, and the remaining packages are still processed. The returned error
// joins one errorhelpers.LabeledError per failed package; the graph is
// returned even then.
func (s *Scraper) ScrapeList(ctx context.Context, r io.Reader) (*dag.Graph, error) {
	log := clog.FromContext(ctx)

	names, err := ReadPackageList(r)
	if err != nil {
		return nil, err
	}

	g, err := dag.NewGraph()
	if err != nil {
		return nil, err
	}

	var errs []error
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p, err := s.Scrape(name)
		if err == nil {
			err = g.Add(p)
		}
		if err != nil {
			log.Errorf("%s could not be processed: %v", name, err)
			errs = append(errs, errorhelpers.LabelError(name, err))
			continue
		}

		log.Debug("scraped spec file", "package", name, "requires", len(p.Requires), "buildRequires", len(p.BuildRequires))
	}

	return g, errors.Join(errs...)
}
