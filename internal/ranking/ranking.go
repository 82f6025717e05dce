// Package ranking orders aggregated season totals into the result bundle.
package ranking

import (
	"cmp"
	"slices"

	"github.com/pable/go-season-merge/internal/aggregator"
	"github.com/pable/go-season-merge/internal/model"
)

// Rank assembles the season bundle from t. Every ordering ends on a unique
// key (player id or team name), so identical totals always rank the same
// way no matter how the maps were filled. t is not modified.
func Rank(t *aggregator.Totals) model.Bundle {
	players := sortedPlayers(t)

	b := model.Bundle{
		DriverStandings: driverStandings(players),
		TeamStandings:   teamStandings(t),
		MostWins:        countView(players, model.CategoryMostWins, func(p *aggregator.PlayerTotals) int { return p.Wins }),
		MostFastestLaps: countView(players, model.CategoryMostFastestLaps, func(p *aggregator.PlayerTotals) int { return p.FastestLaps }),
		MostPoles:       countView(players, model.CategoryMostPoles, func(p *aggregator.PlayerTotals) int { return p.Poles }),
		MostPodiums:     countView(players, model.CategoryMostPodiums, func(p *aggregator.PlayerTotals) int { return p.Podiums }),
		TotalPenalties:  countView(players, model.CategoryTotalPenalties, func(p *aggregator.PlayerTotals) int { return p.Penalties }),
		Podiums:         podiums(t),
		FastestLaps:     perRace(t.Races, t.FastestLaps),
		Poles:           perRace(t.Races, t.Poles),
		PositionsGained: positionsGained(t.Gains),
		Diagnostics:     cloneDiagnostics(t.Diagnostics),
		Races:           len(t.Races),
		RowsRead:        t.RowsRead,
		RowsCounted:     t.RowsCounted,
	}
	return b
}

// sortedPlayers returns the player totals in id order.
func sortedPlayers(t *aggregator.Totals) []*aggregator.PlayerTotals {
	out := make([]*aggregator.PlayerTotals, 0, len(t.Players))
	for _, p := range t.Players {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b *aggregator.PlayerTotals) int {
		return cmp.Compare(a.Player.ID, b.Player.ID)
	})
	return out
}

func driverStandings(players []*aggregator.PlayerTotals) []model.DriverStanding {
	ranked := slices.Clone(players)
	slices.SortStableFunc(ranked, func(a, b *aggregator.PlayerTotals) int {
		if c := cmp.Compare(b.Points, a.Points); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Wins, a.Wins); c != 0 {
			return c
		}
		return cmp.Compare(a.Player.ID, b.Player.ID)
	})

	out := make([]model.DriverStanding, len(ranked))
	for i, p := range ranked {
		out[i] = model.DriverStanding{
			Position: i + 1,
			PlayerID: p.Player.ID,
			Driver:   p.Player.Name,
			Team:     p.Player.Team,
			Points:   p.Points,
			Wins:     p.Wins,
		}
	}
	return out
}

func teamStandings(t *aggregator.Totals) []model.TeamStanding {
	teams := make([]*aggregator.TeamTotals, 0, len(t.Teams))
	for _, tt := range t.Teams {
		teams = append(teams, tt)
	}
	slices.SortFunc(teams, func(a, b *aggregator.TeamTotals) int {
		if c := cmp.Compare(b.Points, a.Points); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Wins, a.Wins); c != 0 {
			return c
		}
		return cmp.Compare(a.Team, b.Team)
	})

	out := make([]model.TeamStanding, len(teams))
	for i, tt := range teams {
		out[i] = model.TeamStanding{Position: i + 1, Team: tt.Team, Points: tt.Points, Wins: tt.Wins}
	}
	return out
}

// countView lists players with a non-zero count, highest first. players must
// already be in id order; the stable sort keeps that as the tie-break.
func countView(players []*aggregator.PlayerTotals, kind model.Category, count func(*aggregator.PlayerTotals) int) []model.CountEntry {
	out := make([]model.CountEntry, 0)
	for _, p := range players {
		n := count(p)
		if n <= 0 {
			continue
		}
		out = append(out, model.CountEntry{
			Kind:     kind,
			PlayerID: p.Player.ID,
			Driver:   p.Player.Name,
			Team:     p.Player.Team,
			Count:    n,
		})
	}
	slices.SortStableFunc(out, func(a, b model.CountEntry) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return out
}

func podiums(t *aggregator.Totals) []model.RacePodium {
	out := make([]model.RacePodium, 0, len(t.Races))
	for _, race := range t.Races {
		entries := slices.Clone(t.Podiums[race])
		if entries == nil {
			entries = []model.PodiumEntry{}
		}
		slices.SortStableFunc(entries, func(a, b model.PodiumEntry) int {
			if c := cmp.Compare(a.Position, b.Position); c != 0 {
				return c
			}
			return cmp.Compare(a.PlayerID, b.PlayerID)
		})
		out = append(out, model.RacePodium{Race: race, Entries: entries})
	}
	return out
}

// perRace flattens a per-race singleton map in race order, skipping races
// without an entry.
func perRace[T any](races []int, byRace map[int]T) []T {
	out := make([]T, 0, len(byRace))
	for _, race := range races {
		if v, ok := byRace[race]; ok {
			out = append(out, v)
		}
	}
	return out
}

func positionsGained(gains []model.PositionGain) []model.PositionGain {
	out := slices.Clone(gains)
	if out == nil {
		out = []model.PositionGain{}
	}
	slices.SortStableFunc(out, func(a, b model.PositionGain) int {
		if c := cmp.Compare(a.Race, b.Race); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Gained, a.Gained); c != 0 {
			return c
		}
		return cmp.Compare(a.PlayerID, b.PlayerID)
	})
	return out
}

func cloneDiagnostics(d model.Diagnostics) model.Diagnostics {
	out := model.Diagnostics{
		Unmapped:  make([]model.UnmappedDriver, len(d.Unmapped)),
		Ambiguous: make([]model.AmbiguousDriver, len(d.Ambiguous)),
		Malformed: slices.Clone(d.Malformed),
		Warnings:  make([]model.RaceWarning, len(d.Warnings)),
	}
	for i, u := range d.Unmapped {
		u.Races = slices.Clone(u.Races)
		out.Unmapped[i] = u
	}
	for i, a := range d.Ambiguous {
		a.Races = slices.Clone(a.Races)
		a.Candidates = slices.Clone(a.Candidates)
		out.Ambiguous[i] = a
	}
	for i, w := range d.Warnings {
		w.Drivers = slices.Clone(w.Drivers)
		out.Warnings[i] = w
	}
	if out.Malformed == nil {
		out.Malformed = []model.RowIssue{}
	}
	return out
}
