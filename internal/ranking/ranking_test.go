package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-season-merge/internal/aggregator"
	"github.com/pable/go-season-merge/internal/model"
)

func player(id int, name string, team model.Team) model.CanonicalPlayer {
	return model.CanonicalPlayer{ID: model.PlayerID(id), Name: name, Team: team}
}

func totalsFixture() *aggregator.Totals {
	return &aggregator.Totals{
		Players: map[model.PlayerID]*aggregator.PlayerTotals{
			3: {Player: player(3, "Kim", model.TeamHaas), Points: 40, Wins: 1, Poles: 2},
			1: {Player: player(1, "Alex", model.TeamMcLaren), Points: 40, Wins: 1, FastestLaps: 1, Penalties: 3},
			2: {Player: player(2, "Sam", model.TeamMcLaren), Points: 43, Wins: 0, Podiums: 2},
			4: {Player: player(4, "Lee", model.TeamAlpine), Points: 40, Wins: 2},
		},
		Teams: map[model.Team]*aggregator.TeamTotals{
			model.TeamMcLaren: {Team: model.TeamMcLaren, Points: 83, Wins: 1},
			model.TeamHaas:    {Team: model.TeamHaas, Points: 40, Wins: 1},
			model.TeamAlpine:  {Team: model.TeamAlpine, Points: 40, Wins: 2},
		},
		Podiums: map[int][]model.PodiumEntry{
			2: {
				{PlayerID: 2, Driver: "Sam", Position: 3},
				{PlayerID: 1, Driver: "Alex", Position: 1},
			},
		},
		FastestLaps: map[int]model.RaceFastestLap{
			2: {Race: 2, PlayerID: 1, Driver: "Alex", LapTime: "1:20.000"},
		},
		Poles: map[int]model.RacePole{
			1: {Race: 1, PlayerID: 3, Driver: "Kim"},
			2: {Race: 2, PlayerID: 3, Driver: "Kim"},
		},
		Gains: []model.PositionGain{
			{Race: 2, PlayerID: 2, Gained: 1},
			{Race: 1, PlayerID: 3, Gained: 2},
			{Race: 2, PlayerID: 1, Gained: 4},
		},
		Races:       []int{1, 2},
		RowsRead:    9,
		RowsCounted: 8,
	}
}

func TestDriverStandingsTieBreaks(t *testing.T) {
	b := Rank(totalsFixture())

	var names []string
	for _, s := range b.DriverStandings {
		names = append(names, s.Driver)
	}
	// Sam on points; Lee on wins; Alex before Kim on id.
	assert.Equal(t, []string{"Sam", "Lee", "Alex", "Kim"}, names)
	assert.Equal(t, 1, b.DriverStandings[0].Position)
	assert.Equal(t, 4, b.DriverStandings[3].Position)
}

func TestTeamStandingsTieBreaks(t *testing.T) {
	b := Rank(totalsFixture())

	require.Len(t, b.TeamStandings, 3)
	assert.Equal(t, model.TeamMcLaren, b.TeamStandings[0].Team)
	assert.Equal(t, model.TeamAlpine, b.TeamStandings[1].Team, "more team wins")
	assert.Equal(t, model.TeamHaas, b.TeamStandings[2].Team)
}

func TestCountViews(t *testing.T) {
	b := Rank(totalsFixture())

	require.Len(t, b.MostWins, 3)
	assert.Equal(t, "Lee", b.MostWins[0].Driver)
	assert.Equal(t, "Alex", b.MostWins[1].Driver)
	assert.Equal(t, "Kim", b.MostWins[2].Driver)
	for _, e := range b.MostWins {
		assert.GreaterOrEqual(t, e.Count, 1)
		assert.Equal(t, model.CategoryMostWins, e.Category())
	}

	require.Len(t, b.MostPoles, 1)
	assert.Equal(t, 2, b.MostPoles[0].Count)
	require.Len(t, b.MostPodiums, 1)
	assert.Equal(t, "Sam", b.MostPodiums[0].Driver)
	require.Len(t, b.TotalPenalties, 1)
	assert.Equal(t, 3, b.TotalPenalties[0].Count)
	require.Len(t, b.MostFastestLaps, 1)
}

func TestPerRaceViews(t *testing.T) {
	b := Rank(totalsFixture())

	require.Len(t, b.Podiums, 2)
	assert.Equal(t, 1, b.Podiums[0].Race)
	assert.Empty(t, b.Podiums[0].Entries)
	assert.NotNil(t, b.Podiums[0].Entries)
	require.Len(t, b.Podiums[1].Entries, 2)
	assert.Equal(t, "Alex", b.Podiums[1].Entries[0].Driver)
	assert.Equal(t, "Sam", b.Podiums[1].Entries[1].Driver)

	require.Len(t, b.FastestLaps, 1)
	assert.Equal(t, 2, b.FastestLaps[0].Race)
	require.Len(t, b.Poles, 2)
	assert.Equal(t, 1, b.Poles[0].Race)

	require.Len(t, b.PositionsGained, 3)
	assert.Equal(t, 1, b.PositionsGained[0].Race)
	assert.Equal(t, 4, b.PositionsGained[1].Gained)
	assert.Equal(t, 1, b.PositionsGained[2].Gained)

	assert.Equal(t, 2, b.Races)
	assert.Equal(t, 8, b.RowsCounted)
}

func TestRankDoesNotModifyTotals(t *testing.T) {
	tot := totalsFixture()
	Rank(tot)
	assert.Equal(t, totalsFixture(), tot)
}

func TestSectionsCoverEveryCategory(t *testing.T) {
	b := Rank(totalsFixture())

	sections := b.Sections()
	require.Len(t, sections, 11)
	for _, s := range sections {
		for _, r := range s.Records {
			assert.Equal(t, s.Category, r.Category())
		}
	}
}
