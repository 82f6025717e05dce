package model

import (
	"errors"
	"fmt"
)

// ErrMalformedRow marks a race row with a missing or out-of-range field.
var ErrMalformedRow = errors.New("malformed row")

// RowError describes a rejected race row.
type RowError struct {
	Race   int
	Driver string
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("race %d, driver %q: %s", e.Race, e.Driver, e.Reason)
}

func (e *RowError) Unwrap() error { return ErrMalformedRow }
