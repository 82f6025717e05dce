package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-season-merge/internal/report"
	"github.com/pable/go-season-merge/internal/storage"
)

var sqlDB string

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against an exported season file",
	Long: `Run an arbitrary SQL query against a file written by 'seasonmerge export --out'
and print results as a table.

Schema overview (every table carries run_id):
  runs(run_id, created_at, races, rows_read, rows_counted)
  driver_standings(position, player_id, driver, team, points, wins)
  team_standings(position, team, points, wins)
  category_leaders(category, rank, player_id, driver, team, count)
    category: most_wins, most_fastest_laps, most_pole_positions,
              most_podium_finishes, total_penalties
  race_podiums(race, slot, pos, player_id, driver, team)
  race_fastest_laps(race, player_id, driver, team, lap_time)
  race_poles(race, player_id, driver, team)
  race_position_gains(seq, race, player_id, driver, team, gained)
  unmapped_drivers(raw_driver, raw_team, races, row_count, suggestion)
  ambiguous_drivers(raw_driver, raw_team, races, candidates)
  malformed_rows(race, row_number, raw_driver, source, reason)
  race_warnings(race, kind, drivers)

Example:
  seasonmerge sql --db season.db "SELECT driver, count FROM category_leaders WHERE category = 'most_wins'"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func init() {
	sqlCmd.Flags().StringVar(&sqlDB, "db", "season.db", "exported SQLite file")
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	if _, err := os.Stat(sqlDB); err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	db, err := storage.Open(sqlDB)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	report.PrintRows(os.Stdout, cols, rows)
	return nil
}
