package model

// WarningKind classifies a per-race data integrity warning.
type WarningKind string

const (
	WarnDuplicateFastestLap WarningKind = "duplicate_fastest_lap"
	WarnDuplicatePole       WarningKind = "duplicate_pole"
)

// UnmappedDriver is a raw identity no player config claims.
type UnmappedDriver struct {
	RawDriver  string `json:"raw_driver"`
	RawTeam    string `json:"raw_team"`
	Races      []int  `json:"races"`
	Rows       int    `json:"rows"`
	Suggestion string `json:"suggestion,omitempty"`
}

// AmbiguousDriver is a raw identity whose name matches several players and
// whose team does not disambiguate.
type AmbiguousDriver struct {
	RawDriver  string     `json:"raw_driver"`
	RawTeam    string     `json:"raw_team"`
	Races      []int      `json:"races"`
	Candidates []PlayerID `json:"candidates"`
}

// RowIssue is a race row rejected before resolution.
type RowIssue struct {
	Race      int    `json:"race"`
	Row       int    `json:"row"` // 1-based index in the input stream
	RawDriver string `json:"raw_driver"`
	Source    string `json:"source,omitempty"`
	Reason    string `json:"reason"`
}

// RaceWarning flags a race whose data breaks a one-per-race expectation.
// Drivers lists every claimant in row order; the first one was kept.
type RaceWarning struct {
	Race    int         `json:"race"`
	Kind    WarningKind `json:"kind"`
	Drivers []string    `json:"drivers"`
}

// Diagnostics collects everything excluded or questionable in a run.
type Diagnostics struct {
	Unmapped  []UnmappedDriver  `json:"unmapped"`
	Ambiguous []AmbiguousDriver `json:"ambiguous"`
	Malformed []RowIssue        `json:"malformed"`
	Warnings  []RaceWarning     `json:"warnings"`
}

// Empty reports whether nothing was flagged.
func (d Diagnostics) Empty() bool {
	return len(d.Unmapped) == 0 && len(d.Ambiguous) == 0 &&
		len(d.Malformed) == 0 && len(d.Warnings) == 0
}
