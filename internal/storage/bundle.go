package storage

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pable/go-season-merge/internal/model"
)

// SaveBundle writes every section and the diagnostics of b under runID in
// one transaction. Saving the same run twice fails on the primary keys.
func (db *DB) SaveBundle(runID uuid.UUID, createdAt time.Time, b model.Bundle) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	id := runID.String()
	_, err = tx.Exec(`
		INSERT INTO runs(run_id, created_at, races, rows_read, rows_counted)
		VALUES (?, ?, ?, ?, ?)`,
		id, createdAt.UTC().Format(time.RFC3339), b.Races, b.RowsRead, b.RowsCounted,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, s := range b.Sections() {
		for i, r := range s.Records {
			if err := insertRecord(tx, id, i+1, r); err != nil {
				return fmt.Errorf("insert %s: %w", s.Category, err)
			}
		}
	}
	if err := insertDiagnostics(tx, id, b.Diagnostics); err != nil {
		return err
	}
	return tx.Commit()
}

// insertRecord writes one section record. rank is its 1-based place in the
// section; count leaderboards store it as rank, position gains as seq.
func insertRecord(tx *sql.Tx, runID string, rank int, r model.Record) error {
	var err error
	switch v := r.(type) {
	case model.DriverStanding:
		_, err = tx.Exec(`
			INSERT INTO driver_standings(run_id, position, player_id, driver, team, points, wins)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, v.Position, int(v.PlayerID), v.Driver, v.Team.String(), v.Points, v.Wins)
	case model.TeamStanding:
		_, err = tx.Exec(`
			INSERT INTO team_standings(run_id, position, team, points, wins)
			VALUES (?, ?, ?, ?, ?)`,
			runID, v.Position, v.Team.String(), v.Points, v.Wins)
	case model.CountEntry:
		_, err = tx.Exec(`
			INSERT INTO category_leaders(run_id, category, rank, player_id, driver, team, count)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, v.Kind.String(), rank, int(v.PlayerID), v.Driver, v.Team.String(), v.Count)
	case model.RacePodium:
		for slot, e := range v.Entries {
			_, err = tx.Exec(`
				INSERT INTO race_podiums(run_id, race, slot, pos, player_id, driver, team)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				runID, v.Race, slot+1, e.Position, int(e.PlayerID), e.Driver, e.Team.String())
			if err != nil {
				return err
			}
		}
	case model.RaceFastestLap:
		_, err = tx.Exec(`
			INSERT INTO race_fastest_laps(run_id, race, player_id, driver, team, lap_time)
			VALUES (?, ?, ?, ?, ?, ?)`,
			runID, v.Race, int(v.PlayerID), v.Driver, v.Team.String(), nullString(v.LapTime))
	case model.RacePole:
		_, err = tx.Exec(`
			INSERT INTO race_poles(run_id, race, player_id, driver, team)
			VALUES (?, ?, ?, ?, ?)`,
			runID, v.Race, int(v.PlayerID), v.Driver, v.Team.String())
	case model.PositionGain:
		_, err = tx.Exec(`
			INSERT INTO race_position_gains(run_id, seq, race, player_id, driver, team, gained)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, rank, v.Race, int(v.PlayerID), v.Driver, v.Team.String(), v.Gained)
	default:
		err = fmt.Errorf("unknown record %T", r)
	}
	return err
}

func insertDiagnostics(tx *sql.Tx, runID string, d model.Diagnostics) error {
	for _, u := range d.Unmapped {
		_, err := tx.Exec(`
			INSERT INTO unmapped_drivers(run_id, raw_driver, raw_team, races, row_count, suggestion)
			VALUES (?, ?, ?, ?, ?, ?)`,
			runID, u.RawDriver, u.RawTeam, joinInts(u.Races), u.Rows, nullString(u.Suggestion))
		if err != nil {
			return fmt.Errorf("insert unmapped driver: %w", err)
		}
	}
	for _, a := range d.Ambiguous {
		ids := make([]int, len(a.Candidates))
		for i, c := range a.Candidates {
			ids[i] = int(c)
		}
		_, err := tx.Exec(`
			INSERT INTO ambiguous_drivers(run_id, raw_driver, raw_team, races, candidates)
			VALUES (?, ?, ?, ?, ?)`,
			runID, a.RawDriver, a.RawTeam, joinInts(a.Races), joinInts(ids))
		if err != nil {
			return fmt.Errorf("insert ambiguous driver: %w", err)
		}
	}
	for _, m := range d.Malformed {
		_, err := tx.Exec(`
			INSERT INTO malformed_rows(run_id, race, row_number, raw_driver, source, reason)
			VALUES (?, ?, ?, ?, ?, ?)`,
			runID, m.Race, m.Row, nullString(m.RawDriver), nullString(m.Source), m.Reason)
		if err != nil {
			return fmt.Errorf("insert malformed row: %w", err)
		}
	}
	for _, w := range d.Warnings {
		_, err := tx.Exec(`
			INSERT INTO race_warnings(run_id, race, kind, drivers)
			VALUES (?, ?, ?, ?)`,
			runID, w.Race, string(w.Kind), strings.Join(w.Drivers, ","))
		if err != nil {
			return fmt.Errorf("insert race warning: %w", err)
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}
