// Package dbrefs finds the records that EPICS database files link to without
// defining them, i.e. the interface a set of databases expects from the rest
// of the system.
package dbrefs

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/afero"
)

var (
	recordPattern = regexp.MustCompile(`^g?record\(\s*[^,]*,\s*"([^"]*)"`)
	fieldPattern  = regexp.MustCompile(`^field\(\s*([^,\s]+)\s*,(.*)$`)

	// linkFieldPattern matches the names of fields that hold links to other
	// records.
	linkFieldPattern = regexp.MustCompile(`INP|OUT|DOL|LNK|FLNK|SELL|NVL|S.LK`)
	numberPattern    = regexp.MustCompile(`^[-+]?[0-9]+`)
)

// A Link is a link field pointing at another record.
type Link struct {
	// From is the record holding the link field.
	From string
	// Field is the name of the link field, e.g. INPA or FLNK.
	Field string

	Record      string
	RecordField string
}

// File is what a database file defines and links to.
type File struct {
	Path    string
	Records []string
	Links   []Link
}

// Scan reads one database file, expanding macros on every line.
func Scan(r io.Reader, macros Macros) (File, error) {
	var f File
	current := ""

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := macros.Expand(strings.TrimSpace(scanner.Text()))

		if m := recordPattern.FindStringSubmatch(line); m != nil {
			current = m[1]
			f.Records = append(f.Records, current)
			continue
		}

		m := fieldPattern.FindStringSubmatch(line)
		if m == nil || !linkFieldPattern.MatchString(m[1]) {
			continue
		}
		target := linkTarget(m[2])
		if isConstant(target) {
			continue
		}

		record, field, ok := strings.Cut(target, ".")
		if !ok {
			field = "VAL"
		}
		f.Links = append(f.Links, Link{
			From:        current,
			Field:       m[1],
			Record:      record,
			RecordField: field,
		})
	}
	if err := scanner.Err(); err != nil {
		return File{}, fmt.Errorf("scanning database: %w", err)
	}

	return f, nil
}

// linkTarget extracts the record reference from the value part of a field
// line, dropping quotes and link attributes such as "PP NMS".
func linkTarget(value string) string {
	value = strings.TrimSpace(value)
	value = strings.TrimSuffix(value, ")")
	value = strings.ReplaceAll(value, `"`, "")
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// isConstant reports whether a link field value is not a reference to another
// record: empty, numeric, or a hardware address.
func isConstant(value string) bool {
	return value == "" ||
		numberPattern.MatchString(value) ||
		strings.ContainsAny(value, "#@")
}

// Load scans every database file in paths.
func Load(fsys afero.Fs, paths []string, macros Macros) ([]File, error) {
	files := make([]File, 0, len(paths))
	for _, path := range paths {
		f, err := fsys.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}

		file, err := Scan(f, macros)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		file.Path = path
		files = append(files, file)
	}
	return files, nil
}

// References maps a record name to the sorted fields referenced on it.
type References map[string][]string

// External returns the records linked to from the given files that none of
// the files define, with the fields used on each.
func External(files []File) References {
	defined := make(map[string]struct{})
	for _, f := range files {
		for _, r := range f.Records {
			defined[r] = struct{}{}
		}
	}

	refs := References{}
	for _, f := range files {
		for _, l := range f.Links {
			if _, ok := defined[l.Record]; ok {
				continue
			}
			refs[l.Record] = append(refs[l.Record], l.RecordField)
		}
	}
	for name, fields := range refs {
		fields = lo.Uniq(fields)
		sort.Strings(fields)
		refs[name] = fields
	}
	return refs
}

// Names returns the referenced record names, sorted.
func (r References) Names() []string {
	names := lo.Keys(r)
	sort.Strings(names)
	return names
}

// Write prints one line per referenced record followed by the number of
// records. With csvOutput the fields follow the record name separated by
// commas.
func (r References) Write(w io.Writer, csvOutput bool) error {
	for _, name := range r.Names() {
		var err error
		if csvOutput {
			_, err = fmt.Fprintf(w, "%s,%s\n", name, strings.Join(r[name], ","))
		} else {
			_, err = fmt.Fprintf(w, "%-30s: %v\n", name, r[name])
		}
		if err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, len(r))
	return err
}
