// Package parser turns race result CSV exports into race rows.
//
// An export holds the classification table first; anything after the first
// blank line (lap charts, session info) is ignored. Header names vary between
// game versions, so each column is looked up under several names.
package parser

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pable/go-season-merge/internal/model"
)

// ErrMissingColumn is returned when an export lacks a required column.
var ErrMissingColumn = errors.New("missing column")

// Header names accepted for each column, compared case-insensitively.
var (
	posHeaders     = []string{"Pos.", "Pos", "Position", "Finish"}
	driverHeaders  = []string{"Driver", "Name", "Player"}
	teamHeaders    = []string{"Team", "Constructor"}
	gridHeaders    = []string{"Grid", "Grid Pos.", "Start", "Starting Position"}
	lapTimeHeaders = []string{"Best", "Best Lap", "Best Lap Time", "Fastest Lap", "Fastest Lap Time"}
	fastestHeaders = []string{"FL", "Fastest"}
	poleHeaders    = []string{"Pole"}
	penaltyHeaders = []string{"Penalties", "Penalty", "Pen.", "Pens"}
)

// Source is one export to parse. Open is called once.
type Source struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// FileSource reads the export at path.
func FileSource(path string) Source {
	return Source{
		Name: filepath.Base(path),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// ParseFiles parses each path as one race, numbered in argument order.
func ParseFiles(ctx context.Context, paths []string) ([]model.RaceRow, error) {
	sources := make([]Source, len(paths))
	for i, p := range paths {
		sources[i] = FileSource(p)
	}
	return ParseAll(ctx, sources)
}

// ParseAll parses sources concurrently. Source i becomes race i+1 and the
// returned rows are ordered by race, then by row within the export.
func ParseAll(ctx context.Context, sources []Source) ([]model.RaceRow, error) {
	results := make([][]model.RaceRow, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, src := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rc, err := src.Open()
			if err != nil {
				return fmt.Errorf("open %s: %w", src.Name, err)
			}
			defer rc.Close()

			rows, err := Parse(i+1, src.Name, rc)
			if err != nil {
				return fmt.Errorf("parse %s: %w", src.Name, err)
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []model.RaceRow
	for _, rows := range results {
		all = append(all, rows...)
	}
	return all, nil
}

// Parse reads one export as race number race. Positions that cannot be read
// are left at zero so the aggregator reports the row as malformed instead of
// the whole file failing.
func Parse(race int, source string, r io.Reader) ([]model.RaceRow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	table := firstSection(data)

	cr := csv.NewReader(bytes.NewReader(table))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty export", ErrMissingColumn)
	}

	cols := newColumns(records[0])
	if cols.driver < 0 {
		return nil, fmt.Errorf("%w: driver", ErrMissingColumn)
	}
	if cols.pos < 0 {
		return nil, fmt.Errorf("%w: position", ErrMissingColumn)
	}

	var (
		rows    []model.RaceRow
		laps    []time.Duration
		fastest time.Duration
	)
	for _, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		row := model.RaceRow{
			Race:           race,
			RawDriver:      strings.TrimSpace(cols.get(rec, cols.driver)),
			RawTeam:        strings.TrimSpace(cols.get(rec, cols.team)),
			FinishPosition: parsePosition(cols.get(rec, cols.pos)),
			StartPosition:  parsePosition(cols.get(rec, cols.grid)),
			Penalties:      parsePenalties(cols.get(rec, cols.penalty)),
			Source:         source,
		}

		lap, ok := ParseLapTime(cols.get(rec, cols.lapTime))
		if ok {
			row.LapTime = FormatLapTime(lap)
			if fastest == 0 || lap < fastest {
				fastest = lap
			}
		}
		laps = append(laps, lap)

		if cols.fastest >= 0 {
			row.FastestLap = parseFlag(cols.get(rec, cols.fastest))
		}
		if cols.pole >= 0 {
			row.PolePosition = parseFlag(cols.get(rec, cols.pole))
		} else {
			row.PolePosition = row.StartPosition == 1
		}
		rows = append(rows, row)
	}

	// Without an explicit flag column the fastest lap is the minimum best
	// lap; drivers tied on it are all flagged.
	if cols.fastest < 0 && fastest > 0 {
		for i := range rows {
			rows[i].FastestLap = laps[i] == fastest
		}
	}
	return rows, nil
}

// firstSection strips a UTF-8 BOM, normalizes line endings and returns the
// text before the first blank line.
func firstSection(data []byte) []byte {
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	data = bytes.TrimLeft(data, "\n")
	if i := bytes.Index(data, []byte("\n\n")); i >= 0 {
		data = data[:i]
	}
	return data
}

type columns struct {
	pos, driver, team, grid, lapTime, fastest, pole, penalty int
}

func newColumns(header []string) columns {
	clean := make([]string, len(header))
	for i, h := range header {
		clean[i] = cleanHeader(h)
	}
	find := func(names []string) int {
		for _, n := range names {
			for i, h := range clean {
				if strings.EqualFold(h, n) {
					return i
				}
			}
		}
		return -1
	}
	return columns{
		pos:     find(posHeaders),
		driver:  find(driverHeaders),
		team:    find(teamHeaders),
		grid:    find(gridHeaders),
		lapTime: find(lapTimeHeaders),
		fastest: find(fastestHeaders),
		pole:    find(poleHeaders),
		penalty: find(penaltyHeaders),
	}
}

func (c columns) get(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}

func cleanHeader(h string) string {
	h = strings.ReplaceAll(h, "\ufeff", "")
	h = strings.ReplaceAll(h, `"`, "")
	return strings.TrimSpace(h)
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// parsePosition reads "3", "3." or "P3". Anything else (DNF, DSQ, blank)
// yields 0.
func parsePosition(s string) int {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "P"), "p")
	s = strings.TrimSuffix(s, ".")
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// parsePenalties reads a count, or counts the entries of a list such as
// "5s, 10s". Blank means none.
func parsePenalties(s string) int {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	n := 0
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) != "" {
			n++
		}
	}
	return n
}

func parseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "x", "*":
		return true
	}
	return false
}

// ParseLapTime reads "1:31.447", "91.447" or "1:01:31.447".
func ParseLapTime(s string) (time.Duration, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0, false
	}
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, false
	}
	secs, err := strconv.ParseFloat(parts[len(parts)-1], 64)
	if err != nil || secs < 0 {
		return 0, false
	}
	d := time.Duration(secs * float64(time.Second))
	unit := time.Minute
	for i := len(parts) - 2; i >= 0; i-- {
		n, err := strconv.Atoi(parts[i])
		if err != nil || n < 0 {
			return 0, false
		}
		d += time.Duration(n) * unit
		unit = time.Hour
	}
	if d <= 0 {
		return 0, false
	}
	return d.Round(time.Millisecond), true
}

// FormatLapTime renders d as m:ss.mmm.
func FormatLapTime(d time.Duration) string {
	d = d.Round(time.Millisecond)
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	return fmt.Sprintf("%d:%02d.%03d", m, s, d/time.Millisecond)
}
