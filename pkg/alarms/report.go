package alarms

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Report writes alarm records either as a padded text table or as CSV.
type Report struct {
	w   io.Writer
	csv *csv.Writer
}

// NewReport returns a Report writing to w. CSV is used when csvOutput is set.
func NewReport(w io.Writer, csvOutput bool) *Report {
	r := &Report{w: w}
	if csvOutput {
		r.csv = csv.NewWriter(w)
	}
	return r
}

// Title writes the column titles.
func (r *Report) Title() error {
	if r.csv != nil {
		return r.writeCSV(append([]string{recordTitle}, append(shortFields, longFields...)...))
	}

	titles := make(map[string]string)
	for _, f := range append(shortFields, longFields...) {
		titles[f] = f
	}
	return r.writeText(recordTitle, titles)
}

// Line writes the alarm state of a record.
func (r *Report) Line(rec Record) error {
	if r.csv != nil {
		row := []string{rec.Name}
		for _, f := range append(shortFields, longFields...) {
			row = append(row, rec.Get(f))
		}
		return r.writeCSV(row)
	}
	return r.writeText(rec.Name, rec.values)
}

func (r *Report) writeCSV(row []string) error {
	if err := r.csv.Write(row); err != nil {
		return err
	}
	r.csv.Flush()
	return r.csv.Error()
}

func (r *Report) writeText(name string, values map[string]string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%-30s", name)
	for _, f := range shortFields {
		fmt.Fprintf(&b, "%-15s", values[f])
	}
	for _, f := range longFields {
		fmt.Fprintf(&b, "%-25s", values[f])
	}
	_, err := fmt.Fprintln(r.w, strings.TrimRight(b.String(), " "))
	return err
}

// Write writes the title followed by every record that is not ignorable.
func (r *Report) Write(records []Record, includeUDF bool) error {
	if err := r.Title(); err != nil {
		return err
	}
	for _, rec := range records {
		if rec.Ignorable(includeUDF) {
			continue
		}
		if err := r.Line(rec); err != nil {
			return err
		}
	}
	return nil
}
