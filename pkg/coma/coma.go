// Package coma turns periodic captures of the M2 comatic aberration channels
// into a CSV table, one row per capture.
package coma

import (
	"bufio"
	"encoding/csv"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	// MarkerLayout is the timestamp format of the capture markers, as in
	// "--- 20240209-10:11:12 ---".
	MarkerLayout = "20060102-15:04:05"

	// RangeLayout is the format of the start and end dates of a Range.
	RangeLayout = "20060102-150405"

	outputLayout = "2006-01-02 15:04:05"
	marker       = "---"
)

// Column names, in output order.
const (
	ColTimestamp = "timestamp"
	ColM2XPos    = "m2xpos"
	ColM2YPos    = "m2ypos"
	ColCurrentX  = "currentx"
	ColCurrentY  = "currenty"
	ColZ5        = "z5"
	ColZ6        = "z6"
	ColUserX     = "userx"
	ColUserY     = "usery"
	ColNominalX  = "nominalx"
	ColNominalY  = "nominaly"
	ColTempX     = "tempx"
	ColTempY     = "tempy"
	ColModelX    = "modelx"
	ColModelY    = "modely"
	ColDemandX   = "demandx"
	ColDemandY   = "demandy"
)

var Columns = []string{
	ColTimestamp,
	ColM2XPos, ColM2YPos,
	ColCurrentX, ColCurrentY,
	ColZ5, ColZ6,
	ColUserX, ColUserY,
	ColNominalX, ColNominalY,
	ColTempX, ColTempY,
	ColModelX, ColModelY,
	ColDemandX, ColDemandY,
}

// channelColumns maps captured channels to output columns. The user offsets
// are available from two channels; whichever comes last in a capture wins.
var channelColumns = map[string]string{
	"tcs:om:m2RawXPos":     ColM2XPos,
	"tcs:om:m2RawYPos":     ColM2YPos,
	"tcs:m2XUserOffset":    ColUserX,
	"tcs:m2YUserOffset":    ColUserY,
	"tcs:m2XYOffset.VALA":  ColUserX,
	"tcs:m2XYOffset.VALB":  ColUserY,
	"tcs:m2XErrorCorr.VAL": ColZ5,
	"tcs:m2YErrorCorr.VAL": ColZ6,
	"tcs:om:m2XY.VALA":     ColTempX,
	"tcs:om:m2XY.VALB":     ColTempY,
	"tcs:om:m2XY.VALC":     ColModelX,
	"tcs:om:m2XY.VALD":     ColModelY,
	"tcs:om:m2XY.VALE":     ColDemandX,
	"tcs:om:m2XY.VALF":     ColDemandY,
	"tcs:om:m2XY.VALG":     ColNominalX,
	"tcs:om:m2XY.VALH":     ColNominalY,
	"tcs:om:m2XY.VALI":     ColCurrentX,
	"tcs:om:m2XY.VALJ":     ColCurrentY,
}

// noise lists channels captured alongside the table that are never tabulated.
var noise = []string{"drives:driveM2S.VALA"}

// Row is one capture.
type Row struct {
	Timestamp time.Time
	Values    map[string]string
}

// Range is an open time interval.
type Range struct {
	Start, End time.Time
}

// DefaultRange covers every capture made by the instrument.
func DefaultRange() Range {
	return Range{
		Start: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2050, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Contains reports whether t is strictly inside the range.
func (r Range) Contains(t time.Time) bool {
	return t.After(r.Start) && t.Before(r.End)
}

// ParseRange builds a Range from start and end dates in RangeLayout. An empty
// date leaves the default bound in place.
func ParseRange(start, end string) (Range, error) {
	r := DefaultRange()
	var err error
	if start != "" {
		if r.Start, err = time.Parse(RangeLayout, start); err != nil {
			return Range{}, errors.Wrapf(err, "invalid start date %q", start)
		}
	}
	if end != "" {
		if r.End, err = time.Parse(RangeLayout, end); err != nil {
			return Range{}, errors.Wrapf(err, "invalid end date %q", end)
		}
	}
	return r, nil
}

// Parse reads a capture file. Every marker line opens a new capture stamped
// with the marker's time. Captures outside rng, captures without any known
// channel, and lines before the first marker are dropped.
func Parse(r io.Reader, rng Range) ([]Row, error) {
	var rows []Row
	var stamp time.Time
	open := false
	values := map[string]string{}

	emit := func() {
		if open && len(values) > 0 && rng.Contains(stamp) {
			rows = append(rows, Row{Timestamp: stamp, Values: values})
		}
	}

	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())

		if strings.Contains(line, marker) {
			fields := strings.Fields(line)
			if len(fields) < 2 {
				return nil, errors.Errorf("line %d: marker without timestamp", lineNumber)
			}
			t, err := time.Parse(MarkerLayout, fields[1])
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: invalid marker timestamp", lineNumber)
			}

			emit()
			stamp, open = t, true
			values = map[string]string{}
			continue
		}

		if isNoise(line) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		if col, ok := channelColumns[fields[0]]; ok {
			values[col] = fields[1]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scanning capture file")
	}

	emit()
	return rows, nil
}

func isNoise(line string) bool {
	for _, n := range noise {
		if strings.Contains(line, n) {
			return true
		}
	}
	return false
}

// WriteCSV writes rows as CSV with a title line. Columns missing from a
// capture are left empty.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, row := range rows {
		record := make([]string, len(Columns))
		record[0] = row.Timestamp.Format(outputLayout)
		for i, col := range Columns[1:] {
			record[i+1] = row.Values[col]
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
