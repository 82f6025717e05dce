package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-season-merge/internal/report"
)

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "List the team names accepted in player configs",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		report.PrintTeams(os.Stdout)
	},
}
