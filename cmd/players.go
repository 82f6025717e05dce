package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-season-merge/internal/identity"
	"github.com/pable/go-season-merge/internal/report"
)

var playersCmd = &cobra.Command{
	Use:   "players [name team]",
	Short: "List configured players and their identities, or resolve one",
	Long: `Without arguments, list every (name, team) pair the config registers,
grouped by player; the current identity is marked with *.

With a name and a team, show which player that raw identity resolves to.

Example:
  seasonmerge players --config season.yaml
  seasonmerge players --config season.yaml Al3x Williams`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 2 {
			return fmt.Errorf("want no arguments or <name> <team>, got %d", len(args))
		}
		return nil
	},
	RunE: runPlayers,
}

func runPlayers(cmd *cobra.Command, args []string) error {
	if err := requirePlayers(); err != nil {
		return err
	}
	idx, err := identity.Build(cfg.Players, identity.WithConflictPolicy(identity.ConflictPolicy(cfg.AliasConflicts)))
	if err != nil {
		return fmt.Errorf("build identity index: %w", err)
	}

	if len(args) == 0 {
		report.PrintIdentities(os.Stdout, idx.Players(), idx.Identities())
		return nil
	}

	p, conf, err := idx.Resolve(args[0], args[1])
	if err != nil {
		fmt.Fprintln(os.Stdout, err)
		if s := idx.Suggest(args[0]); s != "" {
			fmt.Fprintf(os.Stdout, "did you mean %q?\n", s)
		}
		return nil
	}
	fmt.Fprintf(os.Stdout, "%s (%s) -> player %d: %s, %s [%s]\n", args[0], args[1], p.ID, p.Name, p.Team, conf)
	return nil
}
