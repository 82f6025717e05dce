package aggregator

import (
	"errors"
	"slices"

	"github.com/pable/go-season-merge/internal/identity"
	"github.com/pable/go-season-merge/internal/model"
)

// Resolver is the read side of an identity index.
type Resolver interface {
	Players() []model.CanonicalPlayer
	Resolve(rawName, rawTeam string) (model.CanonicalPlayer, identity.Confidence, error)
}

// suggester is optionally implemented by a Resolver to hint at the config an
// unmapped driver most likely belongs to.
type suggester interface {
	Suggest(rawName string) string
}

// Option configures Aggregate.
type Option func(*options)

type options struct {
	points PointsTable
}

// WithPointsTable replaces DefaultPoints. An empty table is ignored.
func WithPointsTable(t PointsTable) Option {
	return func(o *options) {
		if len(t) > 0 {
			o.points = t
		}
	}
}

// PlayerTotals accumulates one canonical player's season.
type PlayerTotals struct {
	Player      model.CanonicalPlayer
	Points      int
	Wins        int
	Podiums     int
	FastestLaps int
	Poles       int
	Penalties   int
	Gains       []model.PositionGain
}

// TeamTotals accumulates one team's season.
type TeamTotals struct {
	Team   model.Team
	Points int
	Wins   int
}

// Totals is the result of folding a season's rows. It is fully built when
// Aggregate returns and is only read afterwards.
type Totals struct {
	Players     map[model.PlayerID]*PlayerTotals
	Teams       map[model.Team]*TeamTotals
	Podiums     map[int][]model.PodiumEntry
	FastestLaps map[int]model.RaceFastestLap
	Poles       map[int]model.RacePole
	Gains       []model.PositionGain
	Races       []int // ascending, every race with at least one valid row
	Diagnostics model.Diagnostics
	RowsRead    int
	RowsCounted int
}

// Aggregate folds rows, through idx, into season totals. Rows are processed
// in race order, keeping input order within a race. Malformed and
// unresolvable rows are skipped and recorded in Totals.Diagnostics; no row
// can abort the fold.
func Aggregate(rows []model.RaceRow, idx Resolver, opts ...Option) *Totals {
	o := options{points: DefaultPoints}
	for _, opt := range opts {
		opt(&o)
	}

	t := &Totals{
		Players:     make(map[model.PlayerID]*PlayerTotals),
		Teams:       make(map[model.Team]*TeamTotals),
		Podiums:     make(map[int][]model.PodiumEntry),
		FastestLaps: make(map[int]model.RaceFastestLap),
		Poles:       make(map[int]model.RacePole),
		RowsRead:    len(rows),
	}
	for _, p := range idx.Players() {
		t.Players[p.ID] = &PlayerTotals{Player: p}
		if _, ok := t.Teams[p.Team]; !ok {
			t.Teams[p.Team] = &TeamTotals{Team: p.Team}
		}
	}

	order := make([]int, len(rows))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return rows[a].Race - rows[b].Race
	})

	d := newDiagnosticsBuilder(idx)
	fastestClaims := make(map[int][]string)
	poleClaims := make(map[int][]string)
	races := make(map[int]bool)

	for _, i := range order {
		row := rows[i]
		if err := row.Validate(); err != nil {
			var rerr *model.RowError
			reason := err.Error()
			if errors.As(err, &rerr) {
				reason = rerr.Reason
			}
			d.malformed(i+1, row, reason)
			continue
		}
		races[row.Race] = true

		player, _, err := idx.Resolve(row.RawDriver, row.RawTeam)
		if err != nil {
			d.unresolved(row, err)
			continue
		}
		pt, ok := t.Players[player.ID]
		if !ok {
			// A resolver that returns players it did not list.
			pt = &PlayerTotals{Player: player}
			t.Players[player.ID] = pt
		}
		tt, ok := t.Teams[player.Team]
		if !ok {
			tt = &TeamTotals{Team: player.Team}
			t.Teams[player.Team] = tt
		}
		t.RowsCounted++

		pts := o.points.For(row.FinishPosition)
		pt.Points += pts
		tt.Points += pts

		if row.FinishPosition == 1 {
			pt.Wins++
			tt.Wins++
		}

		if row.FinishPosition <= 3 {
			pt.Podiums++
			t.Podiums[row.Race] = append(t.Podiums[row.Race], model.PodiumEntry{
				PlayerID: player.ID,
				Driver:   player.Name,
				Team:     player.Team,
				Position: row.FinishPosition,
			})
		}

		if row.FastestLap {
			pt.FastestLaps++
			fastestClaims[row.Race] = append(fastestClaims[row.Race], player.Name)
			if _, taken := t.FastestLaps[row.Race]; !taken {
				t.FastestLaps[row.Race] = model.RaceFastestLap{
					Race:     row.Race,
					PlayerID: player.ID,
					Driver:   player.Name,
					Team:     player.Team,
					LapTime:  row.LapTime,
				}
			}
		}

		if row.PolePosition {
			pt.Poles++
			poleClaims[row.Race] = append(poleClaims[row.Race], player.Name)
			if _, taken := t.Poles[row.Race]; !taken {
				t.Poles[row.Race] = model.RacePole{
					Race:     row.Race,
					PlayerID: player.ID,
					Driver:   player.Name,
					Team:     player.Team,
				}
			}
		}

		if row.StartPosition > 0 {
			if gained := row.StartPosition - row.FinishPosition; gained > 0 {
				g := model.PositionGain{
					Race:     row.Race,
					PlayerID: player.ID,
					Driver:   player.Name,
					Team:     player.Team,
					Gained:   gained,
				}
				pt.Gains = append(pt.Gains, g)
				t.Gains = append(t.Gains, g)
			}
		}

		pt.Penalties += row.Penalties
	}

	for race := range races {
		t.Races = append(t.Races, race)
	}
	slices.Sort(t.Races)

	for _, race := range t.Races {
		if c := fastestClaims[race]; len(c) > 1 {
			d.warn(race, model.WarnDuplicateFastestLap, c)
		}
		if c := poleClaims[race]; len(c) > 1 {
			d.warn(race, model.WarnDuplicatePole, c)
		}
	}
	t.Diagnostics = d.build()
	return t
}
