package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-season-merge/internal/model"
	"github.com/pable/go-season-merge/internal/parser"
	"github.com/pable/go-season-merge/internal/report"
	"github.com/pable/go-season-merge/internal/season"
)

var standingsOnly bool

var standingsCmd = &cobra.Command{
	Use:   "standings <race1.csv> [race2.csv ...]",
	Short: "Print season standings and leaderboards",
	Long: `Parse the race exports in the given order (first file is race 1) and print
the drivers' and constructors' standings, the per-category leaderboards and
the per-race podiums, fastest laps, poles and positions gained.

Drivers that no configured player claims are listed under DIAGNOSTICS with
the closest configured name, if any.

Example:
  seasonmerge standings --config season.yaml bahrain.csv jeddah.csv melbourne.csv`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStandings,
}

func init() {
	standingsCmd.Flags().BoolVar(&standingsOnly, "standings-only", false, "print only the drivers' and constructors' standings")
}

func runStandings(cmd *cobra.Command, args []string) error {
	res, err := compute(cmd.Context(), args)
	if err != nil {
		return err
	}

	b := res.Bundle
	if standingsOnly {
		report.PrintSummary(os.Stdout, b)
		for _, s := range b.Sections() {
			if s.Category == model.CategoryDriverStandings || s.Category == model.CategoryTeamStandings {
				report.PrintSection(os.Stdout, s)
			}
		}
		report.PrintDiagnostics(os.Stdout, b.Diagnostics)
		return nil
	}
	report.PrintBundle(os.Stdout, b)
	return nil
}

// compute parses paths and merges them with the configured players.
func compute(ctx context.Context, paths []string) (*season.Result, error) {
	if err := requirePlayers(); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	rows, err := parser.ParseFiles(ctx, paths)
	if err != nil {
		return nil, fmt.Errorf("parse exports: %w", err)
	}
	return season.Compute(ctx, cfg.Players, rows, cfg.SeasonOptions(log.WithField("component", "season")))
}
