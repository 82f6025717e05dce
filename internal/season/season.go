// Package season runs the whole merge: resolve identities, fold the rows,
// rank the totals. Each call is independent; nothing is kept between runs.
package season

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pable/go-season-merge/internal/aggregator"
	"github.com/pable/go-season-merge/internal/identity"
	"github.com/pable/go-season-merge/internal/logger"
	"github.com/pable/go-season-merge/internal/model"
	"github.com/pable/go-season-merge/internal/ranking"
)

// Options tunes a run. The zero value uses the standard points table, rejects
// alias conflicts and logs nothing.
type Options struct {
	Points         aggregator.PointsTable
	ConflictPolicy identity.ConflictPolicy
	Logger         logrus.FieldLogger
}

// Result is one computed season.
type Result struct {
	RunID  uuid.UUID
	Bundle model.Bundle
	Index  *identity.Index
}

// Compute merges rows into a season bundle for the configured players. It
// fails only on an invalid player config (identity.ErrInvalidConfig) or a
// context that is already done; bad rows end up in the bundle diagnostics.
func Compute(ctx context.Context, configs []model.PlayerConfig, rows []model.RaceRow, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	runID := uuid.New()
	log = log.WithField("run_id", runID.String())

	var buildOpts []identity.Option
	if opts.ConflictPolicy != "" {
		buildOpts = append(buildOpts, identity.WithConflictPolicy(opts.ConflictPolicy))
	}
	idx, err := identity.Build(configs, buildOpts...)
	if err != nil {
		return nil, fmt.Errorf("build identity index: %w", err)
	}

	totals := aggregator.Aggregate(rows, idx, aggregator.WithPointsTable(opts.Points))
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bundle := ranking.Rank(totals)

	logDiagnostics(log, bundle.Diagnostics)
	log.WithFields(logrus.Fields{
		"players":      len(configs),
		"races":        bundle.Races,
		"rows_read":    bundle.RowsRead,
		"rows_counted": bundle.RowsCounted,
	}).Info("season computed")

	return &Result{RunID: runID, Bundle: bundle, Index: idx}, nil
}

func logDiagnostics(log logrus.FieldLogger, d model.Diagnostics) {
	for _, u := range d.Unmapped {
		entry := log.WithFields(logrus.Fields{
			"driver": u.RawDriver,
			"team":   u.RawTeam,
			"races":  u.Races,
		})
		if u.Suggestion != "" {
			entry = entry.WithField("did_you_mean", u.Suggestion)
		}
		entry.Warn("unmapped driver")
	}
	for _, a := range d.Ambiguous {
		log.WithFields(logrus.Fields{
			"driver":     a.RawDriver,
			"team":       a.RawTeam,
			"races":      a.Races,
			"candidates": a.Candidates,
		}).Warn("ambiguous driver")
	}
	for _, m := range d.Malformed {
		log.WithFields(logrus.Fields{
			"race":   m.Race,
			"row":    m.Row,
			"driver": m.RawDriver,
			"source": m.Source,
		}).Warnf("malformed row: %s", m.Reason)
	}
	for _, w := range d.Warnings {
		log.WithFields(logrus.Fields{
			"race":    w.Race,
			"drivers": w.Drivers,
		}).Warn(string(w.Kind))
	}
}
