package agwfs

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable(t *testing.T) {
	table, err := Table("p2")
	require.NoError(t, err)
	assert.Len(t, table, 21)
	assert.Equal(t, Series{Name: "y2", Channel: "ag:p2:followA.VALB", Column: 8}, table["y2"])
	assert.Equal(t, Series{Name: "gs", Channel: "ag:p2:interpol.VALH", Column: 3}, table["gs"])

	names := Names(table)
	assert.Equal(t, "gs", names[0])
	assert.Equal(t, "z3", names[len(names)-1])

	_, err = Table("p3")
	assert.Error(t, err)
}

func TestClosest(t *testing.T) {
	table, err := Table("p1")
	require.NoError(t, err)
	names := Names(table)

	closest, ok := Closest("vxx", names)
	assert.True(t, ok)
	assert.Equal(t, "vx", closest)

	_, ok = Closest("velocity", names)
	assert.False(t, ok)
}

func TestTimeline(t *testing.T) {
	var tl Timeline
	start := time.Date(2024, 2, 9, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, 0.0, tl.Offset(start))
	assert.Equal(t, 1.5, tl.Offset(start.Add(1500*time.Millisecond)))
	assert.Equal(t, -1.0, tl.Offset(start.Add(-time.Second)))
}

func TestExtract(t *testing.T) {
	table, err := Table("p1")
	require.NoError(t, err)

	data, err := os.ReadFile("testdata/camonitor.log")
	require.NoError(t, err)

	var tl Timeline
	x, err := Extract(bytes.NewReader(data), &tl, table["x"])
	require.NoError(t, err)
	expected := []Point{
		{Seconds: 0, Value: 1.5},
		{Seconds: 1.5, Value: 1.75},
		{Seconds: 4, Value: 2},
	}
	if diff := cmp.Diff(expected, x); diff != "" {
		t.Errorf("Extract(x) mismatch (-want +got):\n%s", diff)
	}

	// the second series shares the origin set by the first one
	x1, err := Extract(bytes.NewReader(data), &tl, table["x1"])
	require.NoError(t, err)
	expected = []Point{
		{Seconds: 0.25, Value: 0.25},
		{Seconds: 3, Value: 0.3},
	}
	if diff := cmp.Diff(expected, x1); diff != "" {
		t.Errorf("Extract(x1) mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractSkipsEarlierPoints(t *testing.T) {
	table, err := Table("p1")
	require.NoError(t, err)

	var tl Timeline
	tl.Offset(time.Date(2024, 2, 9, 10, 11, 13, 0, time.UTC))

	f, err := os.Open("testdata/camonitor.log")
	require.NoError(t, err)
	defer f.Close()

	x, err := Extract(f, &tl, table["x"])
	require.NoError(t, err)
	require.Len(t, x, 2)
	assert.Equal(t, 0.5, x[0].Seconds)
}

func TestExtractErrors(t *testing.T) {
	s := Series{Name: "x1", Channel: "ag:p1:followA.VALA", Column: 7}

	_, err := Extract(strings.NewReader("ag:p1:followA.VALA 2024-02-09 10:11:12.0 4 1\n"), &Timeline{}, s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no column 7")

	_, err = Extract(strings.NewReader("ag:p1:followA.VALA 2024-02-09 10:11:12.0 4 1 2 3 nan?\n"), &Timeline{}, s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	points := []Point{{Seconds: 0, Value: 1.5}, {Seconds: 0.25, Value: -2}}
	require.NoError(t, WriteCSV(&buf, "x", points, true))
	require.NoError(t, WriteCSV(&buf, "y", points[:1], false))

	expected := "series,seconds,value\nx,0,1.5\nx,0.25,-2\ny,0,1.5\n"
	assert.Equal(t, expected, buf.String())
}
