// Package report renders season bundles as terminal tables.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-season-merge/internal/identity"
	"github.com/pable/go-season-merge/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintSummary prints a one-line header for the run.
func PrintSummary(w io.Writer, b model.Bundle) {
	fmt.Fprintf(w, "\nRaces: %d  |  Rows read: %d  |  Rows counted: %d  |  Players: %d\n",
		b.Races, b.RowsRead, b.RowsCounted, len(b.DriverStandings))
}

// PrintBundle prints the summary, every section in display order and the
// diagnostics.
func PrintBundle(w io.Writer, b model.Bundle) {
	PrintSummary(w, b)
	for _, s := range b.Sections() {
		PrintSection(w, s)
	}
	PrintDiagnostics(w, b.Diagnostics)
}

// Title is the heading printed above a section.
func Title(c model.Category) string {
	return strings.ToUpper(strings.ReplaceAll(c.String(), "_", " "))
}

// PrintSection prints one bundle section as a table. Empty sections print
// their title and "(none)".
func PrintSection(w io.Writer, s model.Section) {
	fmt.Fprintf(w, "\n%s\n", Title(s.Category))
	if len(s.Records) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}

	table := newTable(w)
	table.Header(sectionHeader(s.Category)...)
	for _, r := range s.Records {
		for _, row := range recordRows(r) {
			table.Append(row...)
		}
	}
	table.Render()
}

func sectionHeader(c model.Category) []any {
	switch c {
	case model.CategoryDriverStandings:
		return []any{"POS", "DRIVER", "TEAM", "PTS", "WINS"}
	case model.CategoryTeamStandings:
		return []any{"POS", "TEAM", "PTS", "WINS"}
	case model.CategoryPodiums:
		return []any{"RACE", "POS", "DRIVER", "TEAM"}
	case model.CategoryFastestLaps:
		return []any{"RACE", "DRIVER", "TEAM", "LAP"}
	case model.CategoryPoles:
		return []any{"RACE", "DRIVER", "TEAM"}
	case model.CategoryPositionsGained:
		return []any{"RACE", "DRIVER", "TEAM", "GAINED"}
	default:
		return []any{"DRIVER", "TEAM", "COUNT"}
	}
}

// recordRows returns the table rows for one record. A race podium spans one
// row per finisher, or a single placeholder row when nobody resolved.
func recordRows(r model.Record) [][]any {
	switch v := r.(type) {
	case model.DriverStanding:
		return [][]any{{
			strconv.Itoa(v.Position), v.Driver, v.Team.String(),
			strconv.Itoa(v.Points), strconv.Itoa(v.Wins),
		}}
	case model.TeamStanding:
		return [][]any{{
			strconv.Itoa(v.Position), v.Team.String(),
			strconv.Itoa(v.Points), strconv.Itoa(v.Wins),
		}}
	case model.CountEntry:
		return [][]any{{v.Driver, v.Team.String(), strconv.Itoa(v.Count)}}
	case model.RacePodium:
		race := strconv.Itoa(v.Race)
		if len(v.Entries) == 0 {
			return [][]any{{race, "-", "-", "-"}}
		}
		rows := make([][]any, len(v.Entries))
		for i, e := range v.Entries {
			rows[i] = []any{race, "P" + strconv.Itoa(e.Position), e.Driver, e.Team.String()}
		}
		return rows
	case model.RaceFastestLap:
		lap := v.LapTime
		if lap == "" {
			lap = "-"
		}
		return [][]any{{strconv.Itoa(v.Race), v.Driver, v.Team.String(), lap}}
	case model.RacePole:
		return [][]any{{strconv.Itoa(v.Race), v.Driver, v.Team.String()}}
	case model.PositionGain:
		return [][]any{{strconv.Itoa(v.Race), v.Driver, v.Team.String(), "+" + strconv.Itoa(v.Gained)}}
	}
	return nil
}

// PrintDiagnostics lists what was left out of the standings and why. It
// prints nothing when d is empty.
func PrintDiagnostics(w io.Writer, d model.Diagnostics) {
	if d.Empty() {
		return
	}
	fmt.Fprintln(w, "\nDIAGNOSTICS")

	if len(d.Unmapped) > 0 {
		fmt.Fprintln(w, "\nUnmapped drivers (add them as aliases to count their results):")
		table := newTable(w)
		table.Header("DRIVER", "TEAM", "ROWS", "RACES", "DID YOU MEAN")
		for _, u := range d.Unmapped {
			table.Append(u.RawDriver, dash(u.RawTeam), strconv.Itoa(u.Rows), joinInts(u.Races), dash(u.Suggestion))
		}
		table.Render()
	}

	if len(d.Ambiguous) > 0 {
		fmt.Fprintln(w, "\nAmbiguous drivers (the team does not tell the players apart):")
		table := newTable(w)
		table.Header("DRIVER", "TEAM", "RACES", "CANDIDATES")
		for _, a := range d.Ambiguous {
			ids := make([]int, len(a.Candidates))
			for i, c := range a.Candidates {
				ids[i] = int(c)
			}
			table.Append(a.RawDriver, dash(a.RawTeam), joinInts(a.Races), joinInts(ids))
		}
		table.Render()
	}

	if len(d.Malformed) > 0 {
		fmt.Fprintln(w, "\nMalformed rows:")
		table := newTable(w)
		table.Header("RACE", "ROW", "DRIVER", "SOURCE", "REASON")
		for _, m := range d.Malformed {
			table.Append(strconv.Itoa(m.Race), strconv.Itoa(m.Row), dash(m.RawDriver), dash(m.Source), m.Reason)
		}
		table.Render()
	}

	for _, rw := range d.Warnings {
		fmt.Fprintf(w, "  * race %d: %s (%s); kept %s\n",
			rw.Race, strings.ReplaceAll(string(rw.Kind), "_", " "), strings.Join(rw.Drivers, ", "), rw.Drivers[0])
	}
}

// PrintIdentities prints every registered (name, team) pair grouped by
// player.
func PrintIdentities(w io.Writer, players []model.CanonicalPlayer, ids []identity.Identity) {
	table := newTable(w)
	table.Header("ID", "PLAYER", "NAME", "TEAM", "CURRENT")
	for _, p := range players {
		for _, id := range ids {
			if id.Player != p.ID {
				continue
			}
			current := ""
			if id.Current {
				current = "*"
			}
			table.Append(strconv.Itoa(int(p.ID)), p.Name, id.Name, id.Team, current)
		}
	}
	table.Render()
}

// PrintTeams prints the team enumeration.
func PrintTeams(w io.Writer) {
	table := newTable(w)
	table.Header("#", "TEAM")
	for i, t := range model.Teams {
		table.Append(strconv.Itoa(i+1), t.String())
	}
	table.Render()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

// PrintRows prints a raw query result with its row count.
func PrintRows(w io.Writer, cols []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no rows)")
		return
	}
	table := newTable(w)
	table.Header(anySlice(cols)...)
	for _, row := range rows {
		table.Append(anySlice(row)...)
	}
	table.Render()
	fmt.Fprintf(w, "\n(%d rows)\n", len(rows))
}

func anySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
