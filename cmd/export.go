package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-season-merge/internal/model"
	"github.com/pable/go-season-merge/internal/storage"
)

var (
	exportDB   string
	exportJSON string
)

// exportFile is the JSON written by --json.
type exportFile struct {
	RunID       string `json:"run_id"`
	GeneratedAt string `json:"generated_at"`
	model.Bundle
}

var exportCmd = &cobra.Command{
	Use:   "export <race1.csv> [race2.csv ...]",
	Short: "Write the season result to a SQLite file and/or JSON",
	Long: `Compute the season like 'standings' and write the result bundle instead of
printing it.

--out writes a fresh SQLite file (any previous file at that path is replaced)
with one table per section, queryable with 'seasonmerge sql'.
--json writes the bundle as JSON; use "-" for stdout.

Example:
  seasonmerge export --config season.yaml --out season.db --json season.json r1.csv r2.csv`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportDB, "out", "o", "", "SQLite file to write")
	exportCmd.Flags().StringVar(&exportJSON, "json", "", `JSON file to write ("-" for stdout)`)
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportDB == "" && exportJSON == "" {
		return errors.New("nothing to export: pass --out and/or --json")
	}

	res, err := compute(cmd.Context(), args)
	if err != nil {
		return err
	}
	now := time.Now()

	if exportDB != "" {
		db, err := storage.Create(exportDB)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		defer db.Close()
		if err := db.SaveBundle(res.RunID, now, res.Bundle); err != nil {
			return fmt.Errorf("save bundle: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", exportDB)
	}

	if exportJSON != "" {
		data, err := json.MarshalIndent(exportFile{
			RunID:       res.RunID.String(),
			GeneratedAt: now.UTC().Format(time.RFC3339),
			Bundle:      res.Bundle,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("encode JSON: %w", err)
		}
		if exportJSON == "-" {
			fmt.Println(string(data))
			return nil
		}
		if err := os.WriteFile(exportJSON, append(data, '\n'), 0644); err != nil {
			return fmt.Errorf("write %s: %w", exportJSON, err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", exportJSON)
	}
	return nil
}
