package alarms

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeNames(t *testing.T) {
	assert.Equal(t, "NO_ALARM", StatusName("0"))
	assert.Equal(t, "HIHI", StatusName("3"))
	assert.Equal(t, "UDF", StatusName("17"))
	assert.Equal(t, "WRITE_ACCESS", StatusName("21"))
	assert.Equal(t, "22", StatusName("22"))
	assert.Equal(t, "LINK", StatusName("LINK"))

	assert.Equal(t, "MINOR", SeverityName("1"))
	assert.Equal(t, "INVALID", SeverityName("3"))
	assert.Equal(t, "4", SeverityName("4"))
	assert.Equal(t, "-1", SeverityName("-1"))
}

func TestRecordSet(t *testing.T) {
	rec := NewRecord("tcs:ak:astCtx")
	rec.Set(FieldStatus, "5")
	rec.Set(FieldNewSeverity, "2")
	rec.Set(FieldDescription, "7")

	assert.Equal(t, "LOLO", rec.Get(FieldStatus))
	assert.Equal(t, "MAJOR", rec.Get(FieldNewSeverity))
	assert.Equal(t, "7", rec.Get(FieldDescription), "only code fields are converted")
	assert.Equal(t, NoAlarm, rec.Get(FieldSeverity))

	var zero Record
	zero.Set(FieldSeverity, "MINOR")
	assert.Equal(t, "MINOR", zero.Get(FieldSeverity))
	assert.Equal(t, NoAlarm, zero.Get(FieldStatus))
}

func TestIgnorable(t *testing.T) {
	tests := []struct {
		name       string
		values     map[string]string
		includeUDF bool
		expected   bool
	}{
		{
			name:     "no alarm",
			expected: true,
		},
		{
			name:     "severity",
			values:   map[string]string{FieldSeverity: "MINOR", FieldStatus: "HIGH"},
			expected: false,
		},
		{
			name:     "new severity only",
			values:   map[string]string{FieldNewSeverity: "MAJOR"},
			expected: false,
		},
		{
			name:     "undefined record excluded",
			values:   map[string]string{FieldSeverity: "INVALID", FieldStatus: "UDF"},
			expected: true,
		},
		{
			name:       "undefined record included",
			values:     map[string]string{FieldSeverity: "INVALID", FieldStatus: "UDF"},
			includeUDF: true,
			expected:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NewRecord("rec")
			for f, v := range tt.values {
				rec.Set(f, v)
			}
			assert.Equal(t, tt.expected, rec.Ignorable(tt.includeUDF))
		})
	}
}

func TestParseCapture(t *testing.T) {
	f, err := os.Open("testdata/capture.txt")
	require.NoError(t, err)
	defer f.Close()

	records, err := ParseCapture(f)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "tcs:drives:azDemand", records[0].Name)
	assert.Equal(t, "MAJOR", records[0].Get(FieldSeverity))
	assert.Equal(t, "HIHI", records[0].Get(FieldStatus))
	assert.Equal(t, "limit reached", records[0].Get(FieldMessage))

	assert.Equal(t, "tcs:ak:astCtx", records[1].Name)
	assert.True(t, records[1].Ignorable(false))

	assert.Equal(t, "ag:p1:interpol", records[2].Name)
	assert.Equal(t, "INVALID", records[2].Get(FieldSeverity))
	assert.Equal(t, "UDF", records[2].Get(FieldStatus))
	assert.Equal(t, "PWFS1 interpolation, follow mode", records[2].Get(FieldDescription))
}

func TestParseCaptureErrors(t *testing.T) {
	for _, input := range []string{
		"no-comma-here\n",
		"nodot,1\n",
		"trailing.,1\n",
		".SEVR,1\n",
	} {
		_, err := ParseCapture(strings.NewReader(input))
		assert.Error(t, err, input)
	}

	_, err := ParseCapture(strings.NewReader("a.SEVR,MINOR\n\nbad\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func TestReadRecordNames(t *testing.T) {
	f, err := os.Open("testdata/records.txt")
	require.NoError(t, err)
	defer f.Close()

	names, err := ReadRecordNames(f)
	require.NoError(t, err)
	assert.Equal(t, []string{"tcs:drives:azDemand", "ag:p1:interpol"}, names)
}

func TestReportCSV(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecord("ag:p1:interpol")
	rec.Set(FieldSeverity, "3")
	rec.Set(FieldStatus, "17")
	rec.Set(FieldDescription, "PWFS1 interpolation, follow mode")

	quiet := NewRecord("tcs:ak:astCtx")

	require.NoError(t, NewReport(&buf, true).Write([]Record{rec, quiet}, true))

	expected := "Record name,SEVR,STAT,NSEV,NSTA,DESC,AMSG,NAMSG\n" +
		"ag:p1:interpol,INVALID,UDF,NO_ALARM,NO_ALARM,\"PWFS1 interpolation, follow mode\",,\n"
	assert.Equal(t, expected, buf.String())
}

func TestReportText(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecord("tcs:drives:azDemand")
	rec.Set(FieldSeverity, "MAJOR")
	rec.Set(FieldStatus, "HIHI")
	rec.Set(FieldDescription, "Azimuth demand")
	rec.Set(FieldMessage, "limit reached")

	require.NoError(t, NewReport(&buf, false).Write([]Record{rec}, false))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)

	title := lines[0]
	assert.True(t, strings.HasPrefix(title, "Record name"))
	assert.Equal(t, 30, strings.Index(title, "SEVR"))
	assert.Equal(t, 45, strings.Index(title, "STAT"))
	assert.Equal(t, 90, strings.Index(title, "DESC"))
	assert.Equal(t, 115, strings.Index(title, "AMSG"))
	assert.True(t, strings.HasSuffix(title, "NAMSG"))

	line := lines[1]
	assert.True(t, strings.HasPrefix(line, "tcs:drives:azDemand "))
	assert.Equal(t, 30, strings.Index(line, "MAJOR"))
	assert.Equal(t, 45, strings.Index(line, "HIHI"))
	assert.Equal(t, 90, strings.Index(line, "Azimuth demand"))
	assert.True(t, strings.HasSuffix(line, "limit reached"))
}
