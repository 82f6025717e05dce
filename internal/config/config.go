// Package config loads the season configuration: who the players are, how
// points are scored and how the upload server runs.
package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/pable/go-season-merge/internal/aggregator"
	"github.com/pable/go-season-merge/internal/identity"
	"github.com/pable/go-season-merge/internal/model"
	"github.com/pable/go-season-merge/internal/season"
)

// Server configures `seasonmerge serve`.
type Server struct {
	// Addr is the HTTP listen address, e.g. ":5000".
	Addr string `koanf:"addr" validate:"required"`

	// MaxUploadMB caps the multipart body of POST /upload.
	MaxUploadMB int `koanf:"max_upload_mb" validate:"min=1,max=512"`

	// Metrics exposes GET /metrics.
	Metrics bool `koanf:"metrics"`
}

// Config is the whole season configuration.
type Config struct {
	// LogLevel controls verbosity: trace, debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=trace debug info warn warning error"`

	// Points overrides the 25-18-15-12-10-8-6-4-2-1 table when non-empty.
	Points []int `koanf:"points" validate:"max=40,dive,min=0"`

	// AliasConflicts is "reject" or "last_wins"; see identity.ConflictPolicy.
	AliasConflicts string `koanf:"alias_conflicts" validate:"oneof=reject last_wins"`

	Players []model.PlayerConfig `koanf:"players" validate:"dive"`

	Server Server `koanf:"server"`
}

// New returns the defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		AliasConflicts: "reject",
		Server: Server{
			Addr:        ":5000",
			MaxUploadMB: 32,
			Metrics:     true,
		},
	}
}

// Validate checks every field, players included.
func (c *Config) Validate() error {
	err := model.ValidateStruct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("%w: %s failed %q check", ErrInvalidConfig, fe.Namespace(), fe.Tag())
	}
	return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
}

// SeasonOptions maps the scoring settings onto season.Options.
func (c *Config) SeasonOptions(log logrus.FieldLogger) season.Options {
	return season.Options{
		Points:         aggregator.PointsTable(c.Points),
		ConflictPolicy: identity.ConflictPolicy(c.AliasConflicts),
		Logger:         log,
	}
}
