// Package server exposes season computation over HTTP. Clients upload race
// exports together with the player mapping and get the result bundle back.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/pable/go-season-merge/internal/config"
	"github.com/pable/go-season-merge/internal/identity"
	"github.com/pable/go-season-merge/internal/metrics"
	"github.com/pable/go-season-merge/internal/model"
	"github.com/pable/go-season-merge/internal/parser"
	"github.com/pable/go-season-merge/internal/season"
)

// Routes.
const (
	PathUpload  = "/upload"
	PathTeams   = "/teams"
	PathHealth  = "/healthz"
	PathMetrics = "/metrics"
)

// Form field names of POST /upload.
const (
	fieldFile    = "file"
	fieldMapping = "mapping"
)

var (
	errNoFile    = errors.New("no file part")
	errNoMapping = errors.New("no players mapped: send a mapping or configure players")
)

type Server struct {
	app *fiber.App
	cfg *config.Config
	log *logrus.Entry
	rec *metrics.Recorder
}

// New wires the routes. rec and gatherer may be nil, in which case no
// metrics are recorded and /metrics is not served.
func New(cfg *config.Config, log *logrus.Entry, rec *metrics.Recorder, gatherer prometheus.Gatherer) *Server {
	s := &Server{cfg: cfg, log: log, rec: rec}

	app := fiber.New(fiber.Config{
		AppName:               "seasonmerge",
		BodyLimit:             cfg.Server.MaxUploadMB << 20,
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	app.Use(s.observe)
	app.Post(PathUpload, s.handleUpload)
	app.Get(PathTeams, s.handleTeams)
	app.Get(PathHealth, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if gatherer != nil && cfg.Server.Metrics {
		h := fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
		app.Get(PathMetrics, func(c *fiber.Ctx) error {
			h(c.Context())
			return nil
		})
	}
	s.app = app
	return s
}

// Serve listens on the configured address until Shutdown.
func (s *Server) Serve() error {
	s.log.WithField("addr", s.cfg.Server.Addr).Info("listening")
	return s.app.Listen(s.cfg.Server.Addr)
}

// Shutdown stops accepting connections and waits up to timeout for
// in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	return s.app.ShutdownWithTimeout(timeout)
}

func (s *Server) handleUpload(c *fiber.Ctx) error {
	start := time.Now()

	form, err := c.MultipartForm()
	if err != nil {
		s.failed()
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("read form: %v", err))
	}
	files := form.File[fieldFile]
	if len(files) == 0 {
		s.failed()
		return fiber.NewError(fiber.StatusBadRequest, errNoFile.Error())
	}

	players, err := s.players(form.Value[fieldMapping])
	if err != nil {
		s.failed()
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	sources := make([]parser.Source, len(files))
	for i, fh := range files {
		sources[i] = parser.Source{
			Name: fh.Filename,
			Open: func() (io.ReadCloser, error) { return fh.Open() },
		}
	}
	ctx := c.UserContext()
	rows, err := parser.ParseAll(ctx, sources)
	if err != nil {
		s.failed()
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}

	res, err := season.Compute(ctx, players, rows, s.cfg.SeasonOptions(s.log))
	if err != nil {
		s.failed()
		if errors.Is(err, identity.ErrInvalidConfig) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return err
	}
	if s.rec != nil {
		s.rec.ObserveRun(res.Bundle, time.Since(start))
	}

	return c.JSON(newUploadResponse(res))
}

// players returns the uploaded mapping, or the configured players when the
// request carries none. Aliases with a blank name or team are dropped, as
// the upload form does before sending.
func (s *Server) players(mapping []string) ([]model.PlayerConfig, error) {
	if len(mapping) == 0 || mapping[0] == "" {
		if len(s.cfg.Players) == 0 {
			return nil, errNoMapping
		}
		return s.cfg.Players, nil
	}

	var players []model.PlayerConfig
	if err := json.Unmarshal([]byte(mapping[0]), &players); err != nil {
		return nil, fmt.Errorf("decode mapping: %w", err)
	}
	if len(players) == 0 {
		return nil, errNoMapping
	}
	for i := range players {
		kept := players[i].Aliases[:0]
		for _, a := range players[i].Aliases {
			if a.Name != "" && a.Team != "" {
				kept = append(kept, a)
			}
		}
		players[i].Aliases = kept
	}
	return players, nil
}

func (s *Server) handleTeams(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"teams": model.Teams})
}

func (s *Server) failed() {
	if s.rec != nil {
		s.rec.RunFailed()
	}
}

// observe logs and measures every request.
func (s *Server) observe(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		status = fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}
	}
	took := time.Since(start)
	route := c.Route().Path

	if s.rec != nil {
		s.rec.ObserveRequest(route, status, took)
	}
	entry := s.log.WithFields(logrus.Fields{
		"method":  c.Method(),
		"path":    c.Path(),
		"status":  status,
		"latency": took.String(),
	})
	if status >= fiber.StatusInternalServerError {
		entry.WithError(err).Error("request failed")
	} else {
		entry.Debug("request")
	}
	return err
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
