package alarms

import (
	"context"
	"fmt"

	"github.com/chainguard-dev/clog"
)

// A Checker polls the alarm fields of records over the control network and
// reports the records that are in alarm.
type Checker struct {
	Reader     ChannelReader
	IncludeUDF bool
}

// Check reads the alarm fields of every record in turn and writes the records
// in alarm to report as soon as they are known. A record whose alarm fields
// can't be read is logged and skipped. When a message field can't be read the
// IOCs are assumed to predate message fields and they aren't read again
// during this run. It returns the number of records reported.
func (c *Checker) Check(ctx context.Context, records []string, report *Report) (int, error) {
	log := clog.FromContext(ctx)

	if err := report.Title(); err != nil {
		return 0, err
	}

	messages := true
	reported := 0

	for _, name := range records {
		rec, err := c.read(ctx, name, &messages)
		if err != nil {
			if ctx.Err() != nil {
				return reported, ctx.Err()
			}
			log.Warnf("connection timeout %s", name)
			log.Debug("reading record failed", "record", name, "error", err)
			continue
		}

		if rec.Ignorable(c.IncludeUDF) {
			continue
		}
		if err := report.Line(rec); err != nil {
			return reported, fmt.Errorf("writing report: %w", err)
		}
		reported++
	}

	return reported, nil
}

func (c *Checker) read(ctx context.Context, name string, messages *bool) (Record, error) {
	log := clog.FromContext(ctx)
	rec := NewRecord(name)

	for _, field := range Fields {
		value, err := c.Reader.Get(ctx, Channel(name, field))
		if err != nil {
			return Record{}, err
		}
		rec.Set(field, value)
	}

	if !*messages {
		return rec, nil
	}
	for _, field := range MessageFields {
		value, err := c.Reader.Get(ctx, Channel(name, field))
		if err != nil {
			if ctx.Err() != nil {
				return Record{}, ctx.Err()
			}
			log.Infof("alarm message fields not available (%v), not reading them again", err)
			*messages = false
			break
		}
		rec.Set(field, value)
	}

	return rec, nil
}
