package model

import (
	"strings"

	"golang.org/x/text/cases"
)

// Team is one of the fixed constructor names a player can drive for.
type Team string

const (
	TeamRedBull     Team = "Red Bull"
	TeamFerrari     Team = "Scuderia Ferrari HP"
	TeamMcLaren     Team = "McLaren"
	TeamAstonMartin Team = "Aston Martin"
	TeamMercedes    Team = "Mercedes-AMG Petronas"
	TeamAlpine      Team = "Alpine"
	TeamHaas        Team = "Haas"
	TeamKickSauber  Team = "KICK Sauber"
	TeamRB          Team = "Visa Cash App RB"
	TeamWilliams    Team = "Williams"
)

// Teams is the team enumeration in grid order.
var Teams = []Team{
	TeamRedBull,
	TeamFerrari,
	TeamMcLaren,
	TeamAstonMartin,
	TeamMercedes,
	TeamAlpine,
	TeamHaas,
	TeamKickSauber,
	TeamRB,
	TeamWilliams,
}

// foldedTeams indexes Teams by case-folded name.
var foldedTeams = func() map[string]Team {
	fold := cases.Fold()
	m := make(map[string]Team, len(Teams))
	for _, t := range Teams {
		m[fold.String(string(t))] = t
	}
	return m
}()

func (t Team) String() string { return string(t) }

// Known reports whether t is exactly one of the enumerated teams.
func (t Team) Known() bool {
	for _, k := range Teams {
		if t == k {
			return true
		}
	}
	return false
}

// ParseTeam maps s onto the enumeration, ignoring case and surrounding
// whitespace. Unknown names return ("", false).
func ParseTeam(s string) (Team, bool) {
	// A Caser keeps state between calls, so each call gets its own.
	t, ok := foldedTeams[cases.Fold().String(strings.TrimSpace(s))]
	return t, ok
}

// ---- Configuration supplied by the players ----

// Alias is a (name, team) pair a player used earlier in the season.
type Alias struct {
	Name string `json:"name" yaml:"name" koanf:"name"`
	Team string `json:"team" yaml:"team" koanf:"team"`
}

// PlayerConfig describes one real player: the identity they race under now
// plus every identity they raced under before.
type PlayerConfig struct {
	CurrentName string  `json:"currentName" yaml:"current_name" koanf:"current_name" validate:"required,notblank"`
	CurrentTeam string  `json:"currentTeam" yaml:"current_team" koanf:"current_team" validate:"required,notblank,f1team"`
	Aliases     []Alias `json:"aliases" yaml:"aliases" koanf:"aliases"`
}

// PlayerID identifies a canonical player. It is the 1-based position of the
// player's config in the configured list.
type PlayerID int

// CanonicalPlayer is the stable identity every raw (name, team) resolves to.
type CanonicalPlayer struct {
	ID   PlayerID `json:"id"`
	Name string   `json:"name"`
	Team Team     `json:"team"`
}

// ---- Rows produced by the export parser ----

// RaceRow is one finishing record from one race file.
type RaceRow struct {
	Race           int    // 1-based, file ingestion order
	RawDriver      string
	RawTeam        string // may be blank
	FinishPosition int
	StartPosition  int // 0 when the export has no grid column
	FastestLap     bool
	PolePosition   bool
	Penalties      int
	LapTime        string // display form, meaningful only with FastestLap
	Source         string // file label, diagnostics only
}

// Validate reports why r cannot be aggregated, or nil.
func (r RaceRow) Validate() error {
	var reason string
	switch {
	case r.Race < 1:
		reason = "race number must be at least 1"
	case strings.TrimSpace(r.RawDriver) == "":
		reason = "driver name is blank"
	case r.FinishPosition < 1:
		reason = "missing finish position"
	case r.StartPosition < 0:
		reason = "negative start position"
	case r.Penalties < 0:
		reason = "negative penalty count"
	default:
		return nil
	}
	return &RowError{Race: r.Race, Driver: r.RawDriver, Reason: reason}
}
