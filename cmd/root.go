package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pable/go-season-merge/internal/config"
	"github.com/pable/go-season-merge/internal/logger"
)

var (
	configPath string
	logLevel   string

	cfg *config.Config
	log *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "seasonmerge",
	Short: "F1 game season standings merger",
	Long: `Merge per-race result exports of an F1 game league into season standings.

Players who changed their name or team during the season are listed once,
under their current identity, as long as the old (name, team) pairs are
configured as aliases.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to season YAML config (default $SEASONMERGE_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(standingsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(teamsCmd)
	rootCmd.AddCommand(serveCmd)
}

// setup loads the config and builds the logger. Logs go to stderr so the
// tables on stdout can be piped.
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	l, err := logger.New(c.LogLevel, os.Stderr)
	if err != nil {
		return err
	}
	cfg, log = c, l
	return nil
}

func requirePlayers() error {
	if len(cfg.Players) == 0 {
		return fmt.Errorf("%w: no players configured; pass --config", config.ErrInvalidConfig)
	}
	return nil
}
