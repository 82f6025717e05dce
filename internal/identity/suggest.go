package identity

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
)

// Suggest returns the registered name closest to rawName, for telling the
// user which config an unmapped driver probably belongs to. Names further
// than a third of their length away (minimum one edit) are not suggested.
func (ix *Index) Suggest(rawName string) string {
	fold := cases.Fold()
	target := fold.String(normalizeName(rawName))
	if target == "" {
		return ""
	}

	best, bestDist := "", -1
	for _, id := range ix.identities {
		d := levenshtein.ComputeDistance(target, fold.String(id.Name))
		if bestDist < 0 || d < bestDist {
			best, bestDist = id.Name, d
		}
	}
	if bestDist < 0 {
		return ""
	}
	limit := utf8.RuneCountInString(target) / 3
	if limit < 1 {
		limit = 1
	}
	if bestDist > limit {
		return ""
	}
	return best
}
