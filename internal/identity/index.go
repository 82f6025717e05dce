// Package identity maps the volatile (name, team) pairs found in race
// exports onto the canonical players configured for a season.
package identity

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"

	"github.com/pable/go-season-merge/internal/model"
)

// Confidence reports how a raw identity was matched.
type Confidence int

const (
	ConfidenceNone Confidence = iota
	ConfidenceExact
	ConfidenceNameOnly
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceExact:
		return "exact"
	case ConfidenceNameOnly:
		return "name-only"
	default:
		return "none"
	}
}

// ConflictPolicy decides what happens when two players register the same
// (name, team) pair.
type ConflictPolicy string

const (
	ConflictReject   ConflictPolicy = "reject"
	ConflictLastWins ConflictPolicy = "last_wins"
)

// Option configures Build.
type Option func(*buildOptions)

type buildOptions struct {
	conflicts ConflictPolicy
}

// WithConflictPolicy overrides the default ConflictReject.
func WithConflictPolicy(p ConflictPolicy) Option {
	return func(o *buildOptions) {
		if p == ConflictLastWins || p == ConflictReject {
			o.conflicts = p
		}
	}
}

// Identity is one registered (name, team) pair.
type Identity struct {
	Name    string
	Team    string
	Player  model.PlayerID
	Current bool
}

type pairKey struct {
	name string
	team string
}

// Index resolves raw identities. It is built once and read-only afterwards,
// so a single Index may be shared between goroutines.
type Index struct {
	players    []model.CanonicalPlayer
	pairs      map[pairKey]model.PlayerID
	names      map[string]mapset.Set[model.PlayerID]
	identities []Identity
}

// Build registers every config's current identity and aliases.
func Build(configs []model.PlayerConfig, opts ...Option) (*Index, error) {
	o := buildOptions{conflicts: ConflictReject}
	for _, opt := range opts {
		opt(&o)
	}

	ix := &Index{
		players: make([]model.CanonicalPlayer, 0, len(configs)),
		pairs:   make(map[pairKey]model.PlayerID),
		names:   make(map[string]mapset.Set[model.PlayerID]),
	}

	var registered []Identity
	register := func(id model.PlayerID, name, team string, current bool) error {
		k := pairKey{normalizeName(name), normalizeTeam(team)}
		if owner, ok := ix.pairs[k]; ok && owner != id && o.conflicts == ConflictReject {
			return &ConfigError{
				Player: int(id),
				Field:  fmt.Sprintf("%s/%s", k.name, k.team),
				Err:    fmt.Errorf("%w (already player %d)", ErrAliasConflict, owner),
			}
		}
		ix.pairs[k] = id
		registered = append(registered, Identity{Name: k.name, Team: k.team, Player: id, Current: current})
		return nil
	}

	for i, cfg := range configs {
		id := model.PlayerID(i + 1)
		if err := validateConfig(i+1, cfg); err != nil {
			return nil, err
		}
		team, _ := model.ParseTeam(cfg.CurrentTeam)
		ix.players = append(ix.players, model.CanonicalPlayer{
			ID:   id,
			Name: normalizeName(cfg.CurrentName),
			Team: team,
		})
		if err := register(id, cfg.CurrentName, string(team), true); err != nil {
			return nil, err
		}
		for _, a := range cfg.Aliases {
			if strings.TrimSpace(a.Name) == "" || strings.TrimSpace(a.Team) == "" {
				continue
			}
			if err := register(id, a.Name, a.Team, false); err != nil {
				return nil, err
			}
		}
	}

	// Under ConflictLastWins a pair may have changed hands; only the final
	// owner keeps it, for both the listing and the name fallback.
	seen := make(map[pairKey]bool, len(ix.pairs))
	for _, r := range registered {
		k := pairKey{r.Name, r.Team}
		if ix.pairs[k] != r.Player || seen[k] {
			continue
		}
		seen[k] = true
		ix.identities = append(ix.identities, r)
		set, ok := ix.names[r.Name]
		if !ok {
			set = mapset.NewThreadUnsafeSet[model.PlayerID]()
			ix.names[r.Name] = set
		}
		set.Add(r.Player)
	}
	slices.SortStableFunc(ix.identities, func(a, b Identity) int {
		return int(a.Player) - int(b.Player)
	})
	return ix, nil
}

func validateConfig(player int, cfg model.PlayerConfig) error {
	err := model.ValidateStruct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &ConfigError{
			Player: player,
			Field:  fe.Field(),
			Err:    fmt.Errorf("%w: failed %q check", ErrInvalidConfig, fe.Tag()),
		}
	}
	return &ConfigError{Player: player, Err: fmt.Errorf("%w: %v", ErrInvalidConfig, err)}
}

// Resolve maps a raw identity to its canonical player. An exact (name, team)
// match wins; otherwise the name alone must point at exactly one player.
func (ix *Index) Resolve(rawName, rawTeam string) (model.CanonicalPlayer, Confidence, error) {
	name, team := normalizeName(rawName), normalizeTeam(rawTeam)
	if id, ok := ix.pairs[pairKey{name, team}]; ok {
		return ix.Player(id), ConfidenceExact, nil
	}

	cands, ok := ix.names[name]
	if !ok || cands.Cardinality() == 0 {
		return model.CanonicalPlayer{}, ConfidenceNone, &UnresolvedError{Kind: KindUnmapped, Name: name, Team: team}
	}
	ids := cands.ToSlice()
	if len(ids) > 1 {
		slices.Sort(ids)
		return model.CanonicalPlayer{}, ConfidenceNone, &UnresolvedError{
			Kind:       KindAmbiguous,
			Name:       name,
			Team:       team,
			Candidates: ids,
		}
	}
	return ix.Player(ids[0]), ConfidenceNameOnly, nil
}

// Player returns the canonical player with the given id, or the zero value.
func (ix *Index) Player(id model.PlayerID) model.CanonicalPlayer {
	i := int(id) - 1
	if i < 0 || i >= len(ix.players) {
		return model.CanonicalPlayer{}
	}
	return ix.players[i]
}

// Players returns every canonical player in id order.
func (ix *Index) Players() []model.CanonicalPlayer {
	return slices.Clone(ix.players)
}

// Identities returns every registered pair, grouped by player.
func (ix *Index) Identities() []Identity {
	return slices.Clone(ix.identities)
}

func normalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// normalizeTeam snaps known team names onto the enumeration so exports that
// differ only in case still match. Unknown teams pass through trimmed.
func normalizeTeam(s string) string {
	if t, ok := model.ParseTeam(s); ok {
		return string(t)
	}
	return norm.NFC.String(strings.TrimSpace(s))
}
