package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-season-merge/internal/model"
)

func alexConfig() model.PlayerConfig {
	return model.PlayerConfig{
		CurrentName: "Alex",
		CurrentTeam: "McLaren",
		Aliases:     []model.Alias{{Name: "Al3x", Team: "Williams"}},
	}
}

func TestResolveCurrentIdentity(t *testing.T) {
	ix, err := Build([]model.PlayerConfig{alexConfig()})
	require.NoError(t, err)

	p, conf, err := ix.Resolve("Alex", "McLaren")
	require.NoError(t, err)
	assert.Equal(t, ConfidenceExact, conf)
	assert.Equal(t, model.PlayerID(1), p.ID)
	assert.Equal(t, "Alex", p.Name)
	assert.Equal(t, model.TeamMcLaren, p.Team)
}

func TestResolveAliasPair(t *testing.T) {
	ix, err := Build([]model.PlayerConfig{alexConfig()})
	require.NoError(t, err)

	p, conf, err := ix.Resolve("  Al3x ", "Williams")
	require.NoError(t, err)
	assert.Equal(t, ConfidenceExact, conf)
	assert.Equal(t, "Alex", p.Name)
	assert.Equal(t, model.TeamMcLaren, p.Team, "display team is the current team")
}

func TestResolveTeamCaseIsCanonicalized(t *testing.T) {
	ix, err := Build([]model.PlayerConfig{alexConfig()})
	require.NoError(t, err)

	_, conf, err := ix.Resolve("Alex", "mclaren")
	require.NoError(t, err)
	assert.Equal(t, ConfidenceExact, conf)
}

func TestResolveNameIsCaseSensitive(t *testing.T) {
	ix, err := Build([]model.PlayerConfig{alexConfig()})
	require.NoError(t, err)

	_, _, err = ix.Resolve("alex", "McLaren")
	require.ErrorIs(t, err, ErrUnresolvedIdentity)
}

func TestResolveNameOnlyFallback(t *testing.T) {
	ix, err := Build([]model.PlayerConfig{alexConfig()})
	require.NoError(t, err)

	p, conf, err := ix.Resolve("Al3x", "Haas")
	require.NoError(t, err)
	assert.Equal(t, ConfidenceNameOnly, conf)
	assert.Equal(t, model.PlayerID(1), p.ID)

	p, conf, err = ix.Resolve("Alex", "")
	require.NoError(t, err)
	assert.Equal(t, ConfidenceNameOnly, conf)
	assert.Equal(t, model.PlayerID(1), p.ID)
}

func TestResolveAmbiguousName(t *testing.T) {
	ix, err := Build([]model.PlayerConfig{
		{CurrentName: "Player", CurrentTeam: "Alpine"},
		{CurrentName: "Sam", CurrentTeam: "Haas", Aliases: []model.Alias{{Name: "Player", Team: "Haas"}}},
	})
	require.NoError(t, err)

	p, conf, err := ix.Resolve("Player", "Haas")
	require.NoError(t, err, "the exact pair still disambiguates")
	assert.Equal(t, ConfidenceExact, conf)
	assert.Equal(t, "Sam", p.Name)

	_, conf, err = ix.Resolve("Player", "Williams")
	require.ErrorIs(t, err, ErrUnresolvedIdentity)
	assert.Equal(t, ConfidenceNone, conf)

	var uerr *UnresolvedError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, KindAmbiguous, uerr.Kind)
	assert.Equal(t, []model.PlayerID{1, 2}, uerr.Candidates)
}

func TestResolveUnmapped(t *testing.T) {
	ix, err := Build([]model.PlayerConfig{alexConfig()})
	require.NoError(t, err)

	_, _, err = ix.Resolve("Guest", "")
	var uerr *UnresolvedError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, KindUnmapped, uerr.Kind)
	assert.Equal(t, "Guest", uerr.Name)
}

func TestBuildRejectsIncompleteConfig(t *testing.T) {
	cases := []struct {
		name string
		cfg  model.PlayerConfig
	}{
		{"blank name", model.PlayerConfig{CurrentName: "  ", CurrentTeam: "Haas"}},
		{"blank team", model.PlayerConfig{CurrentName: "Alex"}},
		{"unknown team", model.PlayerConfig{CurrentName: "Alex", CurrentTeam: "Brawn GP"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Build([]model.PlayerConfig{alexConfig(), tc.cfg})
			require.ErrorIs(t, err, ErrInvalidConfig)

			var cerr *ConfigError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, 2, cerr.Player)
		})
	}
}

func TestBuildDropsIncompleteAliases(t *testing.T) {
	ix, err := Build([]model.PlayerConfig{{
		CurrentName: "Alex",
		CurrentTeam: "McLaren",
		Aliases:     []model.Alias{{Name: "Old"}, {Team: "Haas"}},
	}})
	require.NoError(t, err)
	assert.Len(t, ix.Identities(), 1)
}

func TestBuildConflictPolicies(t *testing.T) {
	configs := []model.PlayerConfig{
		{CurrentName: "Alex", CurrentTeam: "McLaren"},
		{CurrentName: "Sam", CurrentTeam: "Haas", Aliases: []model.Alias{{Name: "Alex", Team: "McLaren"}}},
	}

	_, err := Build(configs)
	require.ErrorIs(t, err, ErrAliasConflict)
	require.ErrorIs(t, err, ErrInvalidConfig)

	ix, err := Build(configs, WithConflictPolicy(ConflictLastWins))
	require.NoError(t, err)
	p, conf, err := ix.Resolve("Alex", "McLaren")
	require.NoError(t, err)
	assert.Equal(t, ConfidenceExact, conf)
	assert.Equal(t, "Sam", p.Name)

	// Player 1 lost its only pair, so nothing lists it any more.
	for _, id := range ix.Identities() {
		assert.NotEqual(t, model.PlayerID(1), id.Player)
	}
}

func TestBuildRepeatedOwnPairIsNotAConflict(t *testing.T) {
	ix, err := Build([]model.PlayerConfig{{
		CurrentName: "Alex",
		CurrentTeam: "McLaren",
		Aliases:     []model.Alias{{Name: "Alex", Team: "McLaren"}},
	}})
	require.NoError(t, err)
	assert.Len(t, ix.Identities(), 1)
}

func TestSuggest(t *testing.T) {
	ix, err := Build([]model.PlayerConfig{
		alexConfig(),
		{CurrentName: "Verstappen33", CurrentTeam: "Red Bull"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Alex", ix.Suggest("alex"))
	assert.Equal(t, "Verstappen33", ix.Suggest("Verstapen33"))
	assert.Empty(t, ix.Suggest("Guest"))
	assert.Empty(t, ix.Suggest(""))
}

func TestPlayersInIDOrder(t *testing.T) {
	ix, err := Build([]model.PlayerConfig{
		{CurrentName: "B", CurrentTeam: "Haas"},
		{CurrentName: "A", CurrentTeam: "Alpine"},
	})
	require.NoError(t, err)

	players := ix.Players()
	require.Len(t, players, 2)
	assert.Equal(t, "B", players[0].Name)
	assert.Equal(t, model.PlayerID(2), players[1].ID)
	assert.Equal(t, model.CanonicalPlayer{}, ix.Player(3))
}
