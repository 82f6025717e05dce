package identity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pable/go-season-merge/internal/model"
)

var (
	// ErrInvalidConfig rejects a whole run: some player config is incomplete.
	ErrInvalidConfig = errors.New("invalid player config")
	// ErrAliasConflict is returned when two players claim the same
	// (name, team) pair under ConflictReject.
	ErrAliasConflict = fmt.Errorf("%w: identity claimed by two players", ErrInvalidConfig)
	// ErrUnresolvedIdentity marks a raw identity that maps to no player or
	// to more than one.
	ErrUnresolvedIdentity = errors.New("unresolved identity")
)

// ConfigError points at the offending player config (1-based).
type ConfigError struct {
	Player int
	Field  string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("player %d: %v", e.Player, e.Err)
	}
	return fmt.Sprintf("player %d: %s: %v", e.Player, e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// UnresolvedKind tells why a raw identity did not resolve.
type UnresolvedKind int

const (
	KindUnmapped UnresolvedKind = iota
	KindAmbiguous
)

func (k UnresolvedKind) String() string {
	if k == KindAmbiguous {
		return "ambiguous"
	}
	return "unmapped"
}

// UnresolvedError carries the normalized raw identity that failed to
// resolve. Candidates is set for ambiguous name-only matches.
type UnresolvedError struct {
	Kind       UnresolvedKind
	Name       string
	Team       string
	Candidates []model.PlayerID
}

func (e *UnresolvedError) Error() string {
	if e.Kind == KindAmbiguous {
		ids := make([]string, len(e.Candidates))
		for i, id := range e.Candidates {
			ids[i] = fmt.Sprint(int(id))
		}
		return fmt.Sprintf("%s %q (team %q) matches players %s", e.Kind, e.Name, e.Team, strings.Join(ids, ","))
	}
	return fmt.Sprintf("%s driver %q (team %q)", e.Kind, e.Name, e.Team)
}

func (e *UnresolvedError) Unwrap() error { return ErrUnresolvedIdentity }
