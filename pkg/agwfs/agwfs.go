// Package agwfs extracts time series of the A&G wavefront sensor follow and
// interpolation records from camonitor logs.
package agwfs

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// timeLayout matches the date and time columns written by camonitor.
const timeLayout = "2006-01-02 15:04:05.999999999"

// WavefrontSensors are the sensors Table knows about.
var WavefrontSensors = []string{"p1", "p2"}

// Series selects one column of the lines logged for a channel.
type Series struct {
	Name    string
	Channel string
	Column  int
}

// SeriesHelp describes the series names returned by Table.
const SeriesHelp = `x1,y1,z1    old demand
x2,y2,z2    middle demand
x3,y3,z3    new demand
t1,t2,t3    old/middle/new demand time
x,y,z       current position
vx,vy,vz    current velocity
t           apply time
gs          global sample (0..)
s           sample on table or number of written arrays (0..19)`

// Table returns the series available for a wavefront sensor, by name.
func Table(wfs string) (map[string]Series, error) {
	if !lo.Contains(WavefrontSensors, wfs) {
		return nil, fmt.Errorf("unknown wavefront sensor %q, expected one of %v", wfs, WavefrontSensors)
	}

	follow := func(field string) string { return fmt.Sprintf("ag:%s:followA.%s", wfs, field) }
	interpol := func(field string) string { return fmt.Sprintf("ag:%s:interpol.%s", wfs, field) }

	table := map[string]Series{}
	add := func(name, channel string, column int) {
		table[name] = Series{Name: name, Channel: channel, Column: column}
	}

	// follow arrays hold the old, middle and new demands as (t, x, y, z)
	for i, field := range []string{"VALA", "VALB", "VALC"} {
		n := strconv.Itoa(i + 1)
		add("t"+n, follow(field), 6)
		add("x"+n, follow(field), 7)
		add("y"+n, follow(field), 8)
		add("z"+n, follow(field), 9)
	}

	add("x", interpol("VALA"), 3)
	add("y", interpol("VALB"), 3)
	add("z", interpol("VALC"), 3)
	add("vx", interpol("VALD"), 3)
	add("vy", interpol("VALE"), 3)
	add("vz", interpol("VALF"), 3)
	add("t", interpol("VALG"), 3)
	add("gs", interpol("VALH"), 3)
	add("s", interpol("VALI"), 3)

	return table, nil
}

// Names returns the sorted series names of a table.
func Names(table map[string]Series) []string {
	names := lo.Keys(table)
	sort.Strings(names)
	return names
}

// Closest returns the name in names nearest to name by edit distance, when
// it is close enough to be a likely typo.
func Closest(name string, names []string) (string, bool) {
	best, bestDistance := "", 3
	for _, n := range names {
		d := levenshtein.DistanceForStrings([]rune(name), []rune(n), levenshtein.DefaultOptions)
		if d < bestDistance {
			best, bestDistance = n, d
		}
	}
	return best, best != ""
}

// A Timeline turns timestamps into seconds since the first timestamp it was
// given. Use one Timeline per log so that every series extracted from the log
// shares the same origin.
type Timeline struct {
	start   time.Time
	started bool
}

// Offset returns the seconds between t and the start of the timeline. The
// first call sets the start.
func (tl *Timeline) Offset(t time.Time) float64 {
	if !tl.started {
		tl.start, tl.started = t, true
	}
	return t.Sub(tl.start).Seconds()
}

// Point is a value at an offset in seconds.
type Point struct {
	Seconds float64
	Value   float64
}

// Extract reads the points of a series from a camonitor log. Lines for other
// channels and lines without a valid timestamp are skipped, as are points
// earlier than the start of the timeline.
func Extract(r io.Reader, tl *Timeline, s Series) ([]Point, error) {
	var points []Point

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 || fields[0] != s.Channel {
			continue
		}

		t, err := time.Parse(timeLayout, fields[1]+" "+fields[2])
		if err != nil {
			continue
		}
		if s.Column >= len(fields) {
			return nil, errors.Errorf("line %d: %s has no column %d", lineNumber, s.Channel, s.Column)
		}
		v, err := strconv.ParseFloat(fields[s.Column], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: column %d of %s", lineNumber, s.Column, s.Channel)
		}

		offset := tl.Offset(t)
		if offset < 0 {
			continue
		}
		points = append(points, Point{Seconds: offset, Value: v})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scanning log")
	}

	return points, nil
}

// WriteCSV writes the points of a series as "series,seconds,value" rows.
// The title line is written when title is set.
func WriteCSV(w io.Writer, name string, points []Point, title bool) error {
	cw := csv.NewWriter(w)
	if title {
		if err := cw.Write([]string{"series", "seconds", "value"}); err != nil {
			return err
		}
	}
	for _, p := range points {
		row := []string{
			name,
			strconv.FormatFloat(p.Seconds, 'f', -1, 64),
			strconv.FormatFloat(p.Value, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
