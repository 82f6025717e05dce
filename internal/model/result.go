package model

// Category names one section of the season result bundle.
type Category int

const (
	CategoryDriverStandings Category = iota
	CategoryTeamStandings
	CategoryMostWins
	CategoryMostFastestLaps
	CategoryMostPoles
	CategoryMostPodiums
	CategoryTotalPenalties
	CategoryPodiums
	CategoryFastestLaps
	CategoryPoles
	CategoryPositionsGained
)

var categoryNames = [...]string{
	CategoryDriverStandings: "driver_standings",
	CategoryTeamStandings:   "team_standings",
	CategoryMostWins:        "most_wins",
	CategoryMostFastestLaps: "most_fastest_laps",
	CategoryMostPoles:       "most_pole_positions",
	CategoryMostPodiums:     "most_podium_finishes",
	CategoryTotalPenalties:  "total_penalties",
	CategoryPodiums:         "podiums",
	CategoryFastestLaps:     "fastest_lap_per_race",
	CategoryPoles:           "pole_positions_per_race",
	CategoryPositionsGained: "positions_gained",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "unknown"
	}
	return categoryNames[c]
}

// Record is one entry of a bundle section. The set of implementations is
// closed: renderers switch over the concrete types.
type Record interface {
	Category() Category
	record()
}

// DriverStanding is one row of the drivers' championship.
type DriverStanding struct {
	Position int      `json:"position"`
	PlayerID PlayerID `json:"player_id"`
	Driver   string   `json:"driver"`
	Team     Team     `json:"team"`
	Points   int      `json:"points"`
	Wins     int      `json:"wins"`
}

// TeamStanding is one row of the constructors' championship.
type TeamStanding struct {
	Position int  `json:"position"`
	Team     Team `json:"team"`
	Points   int  `json:"points"`
	Wins     int  `json:"wins"`
}

// CountEntry is one row of a per-player count leaderboard. Kind tells which
// leaderboard it belongs to.
type CountEntry struct {
	Kind     Category `json:"-"`
	PlayerID PlayerID `json:"player_id"`
	Driver   string   `json:"driver"`
	Team     Team     `json:"team"`
	Count    int      `json:"count"`
}

// PodiumEntry is one podium finisher.
type PodiumEntry struct {
	PlayerID PlayerID `json:"player_id"`
	Driver   string   `json:"driver"`
	Team     Team     `json:"team"`
	Position int      `json:"pos"`
}

// RacePodium lists one race's top three resolved finishers.
type RacePodium struct {
	Race    int           `json:"race"`
	Entries []PodiumEntry `json:"entries"`
}

// RaceFastestLap is the single fastest-lap holder of a race.
type RaceFastestLap struct {
	Race     int      `json:"race"`
	PlayerID PlayerID `json:"player_id"`
	Driver   string   `json:"driver"`
	Team     Team     `json:"team"`
	LapTime  string   `json:"lap_time"`
}

// RacePole is the single pole sitter of a race.
type RacePole struct {
	Race     int      `json:"race"`
	PlayerID PlayerID `json:"player_id"`
	Driver   string   `json:"driver"`
	Team     Team     `json:"team"`
}

// PositionGain records places gained from grid to flag in one race.
type PositionGain struct {
	Race     int      `json:"race"`
	PlayerID PlayerID `json:"player_id"`
	Driver   string   `json:"driver"`
	Team     Team     `json:"team"`
	Gained   int      `json:"gained"`
}

func (DriverStanding) Category() Category { return CategoryDriverStandings }
func (TeamStanding) Category() Category   { return CategoryTeamStandings }
func (e CountEntry) Category() Category   { return e.Kind }
func (RacePodium) Category() Category     { return CategoryPodiums }
func (RaceFastestLap) Category() Category { return CategoryFastestLaps }
func (RacePole) Category() Category       { return CategoryPoles }
func (PositionGain) Category() Category   { return CategoryPositionsGained }

func (DriverStanding) record() {}
func (TeamStanding) record()   {}
func (CountEntry) record()     {}
func (RacePodium) record()     {}
func (RaceFastestLap) record() {}
func (RacePole) record()       {}
func (PositionGain) record()   {}

// Bundle is the season result. It is assembled once and not modified
// afterwards.
type Bundle struct {
	DriverStandings []DriverStanding `json:"standings"`
	TeamStandings   []TeamStanding   `json:"team_standings"`
	MostWins        []CountEntry     `json:"most_wins"`
	MostFastestLaps []CountEntry     `json:"most_fastest_laps"`
	MostPoles       []CountEntry     `json:"most_pole_positions"`
	MostPodiums     []CountEntry     `json:"most_podium_finishes"`
	TotalPenalties  []CountEntry     `json:"total_penalties"`
	Podiums         []RacePodium     `json:"podiums"`
	FastestLaps     []RaceFastestLap `json:"fastest_lap_per_race"`
	Poles           []RacePole       `json:"pole_positions_per_race"`
	PositionsGained []PositionGain   `json:"positions_gained"`
	Diagnostics     Diagnostics      `json:"diagnostics"`

	Races       int `json:"races"`
	RowsRead    int `json:"rows_read"`
	RowsCounted int `json:"rows_counted"`
}

// Section is one category of a bundle with its records in display order.
type Section struct {
	Category Category
	Records  []Record
}

// Sections returns every category of b in display order.
func (b Bundle) Sections() []Section {
	return []Section{
		{CategoryDriverStandings, records(b.DriverStandings)},
		{CategoryTeamStandings, records(b.TeamStandings)},
		{CategoryMostWins, records(b.MostWins)},
		{CategoryMostFastestLaps, records(b.MostFastestLaps)},
		{CategoryMostPoles, records(b.MostPoles)},
		{CategoryMostPodiums, records(b.MostPodiums)},
		{CategoryTotalPenalties, records(b.TotalPenalties)},
		{CategoryPodiums, records(b.Podiums)},
		{CategoryFastestLaps, records(b.FastestLaps)},
		{CategoryPoles, records(b.Poles)},
		{CategoryPositionsGained, records(b.PositionsGained)},
	}
}

func records[T Record](in []T) []Record {
	out := make([]Record, len(in))
	for i, r := range in {
		out[i] = r
	}
	return out
}
