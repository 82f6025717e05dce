package parser

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bahrainCSV = "\ufeff\"Pos.\",\"Driver\",\"Team\",\"Grid\",\"Best\",\"Penalties\",\"Pts.\"\r\n" +
	"1,Al3x,Williams,3,1:31.447,0,25\r\n" +
	"2,Sam,Haas,1,1:31.902,1,18\r\n" +
	"3,Guest,,2,1:32.010,5s,15\r\n" +
	"DNF,Kim,Alpine,4,-,,0\r\n" +
	"\r\n" +
	"Lap,Driver,Time\r\n" +
	"1,Al3x,1:35.000\r\n"

func TestParseExport(t *testing.T) {
	rows, err := Parse(1, "bahrain.csv", strings.NewReader(bahrainCSV))
	require.NoError(t, err)
	require.Len(t, rows, 4, "the lap chart after the blank line is ignored")

	first := rows[0]
	assert.Equal(t, 1, first.Race)
	assert.Equal(t, "Al3x", first.RawDriver)
	assert.Equal(t, "Williams", first.RawTeam)
	assert.Equal(t, 1, first.FinishPosition)
	assert.Equal(t, 3, first.StartPosition)
	assert.True(t, first.FastestLap)
	assert.Equal(t, "1:31.447", first.LapTime)
	assert.False(t, first.PolePosition)
	assert.Equal(t, "bahrain.csv", first.Source)

	assert.True(t, rows[1].PolePosition, "grid 1 is pole")
	assert.False(t, rows[1].FastestLap)
	assert.Equal(t, 1, rows[1].Penalties)

	assert.Equal(t, "", rows[2].RawTeam)
	assert.Equal(t, 1, rows[2].Penalties)

	assert.Equal(t, 0, rows[3].FinishPosition, "DNF is left for the aggregator to reject")
	assert.Empty(t, rows[3].LapTime)
}

func TestParseExplicitFlags(t *testing.T) {
	csv := "Position,Driver,Team,Fastest,Pole,Best Lap\n" +
		"1,Alex,McLaren,,yes,1:30.000\n" +
		"2,Sam,Haas,x,,1:29.000\n"

	rows, err := Parse(2, "x.csv", strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].PolePosition)
	assert.False(t, rows[0].FastestLap)
	assert.True(t, rows[1].FastestLap)
	assert.Equal(t, "1:29.000", rows[1].LapTime)
	assert.Zero(t, rows[0].StartPosition)
}

func TestParseTiedFastestLaps(t *testing.T) {
	csv := "Pos.,Driver,Best\n1,A,1:30.000\n2,B,1:30.000\n3,C,1:31.000\n"

	rows, err := Parse(1, "", strings.NewReader(csv))
	require.NoError(t, err)
	assert.True(t, rows[0].FastestLap)
	assert.True(t, rows[1].FastestLap)
	assert.False(t, rows[2].FastestLap)
}

func TestParseMissingColumns(t *testing.T) {
	_, err := Parse(1, "", strings.NewReader("Driver,Team\nA,Haas\n"))
	require.ErrorIs(t, err, ErrMissingColumn)

	_, err = Parse(1, "", strings.NewReader("Pos.,Team\n1,Haas\n"))
	require.ErrorIs(t, err, ErrMissingColumn)

	_, err = Parse(1, "", strings.NewReader(""))
	require.ErrorIs(t, err, ErrMissingColumn)
}

func TestParseLapTime(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"1:31.447", time.Minute + 31447*time.Millisecond, true},
		{"91.447", 91447 * time.Millisecond, true},
		{"1:01:31.447", time.Hour + time.Minute + 31447*time.Millisecond, true},
		{"-", 0, false},
		{"", 0, false},
		{"abc", 0, false},
		{"1:x:2", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseLapTime(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
	assert.Equal(t, "1:31.447", FormatLapTime(time.Minute+31447*time.Millisecond))
	assert.Equal(t, "0:59.005", FormatLapTime(59005*time.Millisecond))
}

func TestParseAllKeepsSourceOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i, body := range []string{
		"Pos.,Driver\n1,A\n2,B\n",
		"Pos.,Driver\n1,B\n",
		"Pos.,Driver\n1,C\n2,A\n3,B\n",
	} {
		p := filepath.Join(dir, "race"+string(rune('a'+i))+".csv")
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
		paths = append(paths, p)
	}

	rows, err := ParseFiles(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, rows, 6)

	var got []string
	for _, r := range rows {
		got = append(got, r.RawDriver)
		assert.NotEmpty(t, r.Source)
	}
	assert.Equal(t, []string{"A", "B", "B", "C", "A", "B"}, got)
	assert.Equal(t, 1, rows[0].Race)
	assert.Equal(t, 2, rows[2].Race)
	assert.Equal(t, 3, rows[5].Race)
}

func TestParseAllReportsFailingSource(t *testing.T) {
	sources := []Source{
		{Name: "ok.csv", Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("Pos.,Driver\n1,A\n")), nil
		}},
		{Name: "broken.csv", Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("Team\nHaas\n")), nil
		}},
	}

	_, err := ParseAll(context.Background(), sources)
	require.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "broken.csv")
}
