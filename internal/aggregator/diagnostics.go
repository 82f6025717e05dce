package aggregator

import (
	"errors"
	"slices"
	"strings"

	"github.com/pable/go-season-merge/internal/identity"
	"github.com/pable/go-season-merge/internal/model"
)

type rawKey struct{ name, team string }

// diagnosticsBuilder deduplicates unresolved identities by their normalized
// (name, team), keeping first-appearance order.
type diagnosticsBuilder struct {
	suggest   suggester
	out       model.Diagnostics
	unmapped  map[rawKey]int
	ambiguous map[rawKey]int
}

func newDiagnosticsBuilder(idx Resolver) *diagnosticsBuilder {
	s, _ := idx.(suggester)
	return &diagnosticsBuilder{
		suggest:   s,
		unmapped:  make(map[rawKey]int),
		ambiguous: make(map[rawKey]int),
	}
}

func (b *diagnosticsBuilder) malformed(rowNum int, row model.RaceRow, reason string) {
	b.out.Malformed = append(b.out.Malformed, model.RowIssue{
		Race:      row.Race,
		Row:       rowNum,
		RawDriver: row.RawDriver,
		Source:    row.Source,
		Reason:    reason,
	})
}

func (b *diagnosticsBuilder) unresolved(row model.RaceRow, err error) {
	var uerr *identity.UnresolvedError
	if !errors.As(err, &uerr) {
		uerr = &identity.UnresolvedError{
			Kind: identity.KindUnmapped,
			Name: strings.TrimSpace(row.RawDriver),
			Team: strings.TrimSpace(row.RawTeam),
		}
	}
	k := rawKey{uerr.Name, uerr.Team}

	if uerr.Kind == identity.KindAmbiguous {
		i, ok := b.ambiguous[k]
		if !ok {
			i = len(b.out.Ambiguous)
			b.ambiguous[k] = i
			b.out.Ambiguous = append(b.out.Ambiguous, model.AmbiguousDriver{
				RawDriver:  uerr.Name,
				RawTeam:    uerr.Team,
				Candidates: slices.Clone(uerr.Candidates),
			})
		}
		a := &b.out.Ambiguous[i]
		a.Races = appendRace(a.Races, row.Race)
		return
	}

	i, ok := b.unmapped[k]
	if !ok {
		i = len(b.out.Unmapped)
		b.unmapped[k] = i
		u := model.UnmappedDriver{RawDriver: uerr.Name, RawTeam: uerr.Team}
		if b.suggest != nil {
			u.Suggestion = b.suggest.Suggest(uerr.Name)
		}
		b.out.Unmapped = append(b.out.Unmapped, u)
	}
	u := &b.out.Unmapped[i]
	u.Races = appendRace(u.Races, row.Race)
	u.Rows++
}

func (b *diagnosticsBuilder) warn(race int, kind model.WarningKind, drivers []string) {
	b.out.Warnings = append(b.out.Warnings, model.RaceWarning{
		Race:    race,
		Kind:    kind,
		Drivers: slices.Clone(drivers),
	})
}

func (b *diagnosticsBuilder) build() model.Diagnostics {
	return b.out
}

// appendRace adds race unless it is already the last entry. Rows arrive in
// race order, so that is enough to keep the list distinct.
func appendRace(races []int, race int) []int {
	if n := len(races); n > 0 && races[n-1] == race {
		return races
	}
	return append(races, race)
}
