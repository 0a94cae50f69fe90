package alarms

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ParseCapture reads alarm values captured by a shell script (one
// "record.FIELD,value" line per channel) and groups them by record, in the
// order the records first appear. Fields missing from the capture keep their
// no-alarm defaults.
func ParseCapture(r io.Reader) ([]Record, error) {
	var records []Record
	index := make(map[string]int)

	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		channel, value, ok := strings.Cut(line, ",")
		if !ok {
			return nil, fmt.Errorf("line %d: expected \"record.FIELD,value\", got %q", lineNumber, line)
		}
		dot := strings.LastIndex(channel, ".")
		if dot <= 0 || dot == len(channel)-1 {
			return nil, fmt.Errorf("line %d: invalid channel name %q", lineNumber, channel)
		}
		recordName, field := channel[:dot], channel[dot+1:]

		i, seen := index[recordName]
		if !seen {
			i = len(records)
			index[recordName] = i
			records = append(records, NewRecord(recordName))
		}
		records[i].Set(field, strings.TrimSpace(value))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning lines of capture file: %w", err)
	}

	return records, nil
}

// ReadRecordNames returns the record names listed in r, one per line. Blank
// lines are skipped.
func ReadRecordNames(r io.Reader) ([]string, error) {
	var names []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning record names: %w", err)
	}

	return names, nil
}
