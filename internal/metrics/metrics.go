// Package metrics holds the Prometheus collectors of the upload service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pable/go-season-merge/internal/model"
)

const namespace = "seasonmerge"

// Row outcomes, used as the "outcome" label of rows_total.
const (
	RowCounted   = "counted"
	RowUnmapped  = "unmapped"
	RowAmbiguous = "ambiguous"
	RowMalformed = "malformed"
)

// Recorder records season runs and HTTP requests.
type Recorder struct {
	runs          *prometheus.CounterVec
	runDuration   prometheus.Histogram
	rows          *prometheus.CounterVec
	races         prometheus.Histogram
	unmapped      prometheus.Counter
	warnings      *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDurations *prometheus.HistogramVec
}

// NewRecorder registers every collector on reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Season computations by result.",
		}, []string{"result"}),
		runDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Time to parse, merge and rank one season.",
			Buckets:   prometheus.DefBuckets,
		}),
		rows: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_total",
			Help:      "Race rows read, by outcome.",
		}, []string{"outcome"}),
		races: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "races_per_run",
			Help:      "Races per computed season.",
			Buckets:   []float64{1, 2, 4, 8, 12, 16, 20, 24},
		}),
		unmapped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unmapped_drivers_total",
			Help:      "Distinct unmapped driver identities reported.",
		}),
		warnings: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "race_warnings_total",
			Help:      "Per-race data warnings by kind.",
		}, []string{"kind"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"route", "status"}),
		httpDurations: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// ObserveRun records a successful season computation.
func (r *Recorder) ObserveRun(b model.Bundle, took time.Duration) {
	r.runs.WithLabelValues("ok").Inc()
	r.runDuration.Observe(took.Seconds())
	r.races.Observe(float64(b.Races))

	d := b.Diagnostics
	r.rows.WithLabelValues(RowCounted).Add(float64(b.RowsCounted))
	r.rows.WithLabelValues(RowMalformed).Add(float64(len(d.Malformed)))
	var unmappedRows int
	for _, u := range d.Unmapped {
		unmappedRows += u.Rows
	}
	ambiguousRows := b.RowsRead - b.RowsCounted - len(d.Malformed) - unmappedRows
	r.rows.WithLabelValues(RowUnmapped).Add(float64(unmappedRows))
	if ambiguousRows > 0 {
		r.rows.WithLabelValues(RowAmbiguous).Add(float64(ambiguousRows))
	}
	r.unmapped.Add(float64(len(d.Unmapped)))
	for _, w := range d.Warnings {
		r.warnings.WithLabelValues(string(w.Kind)).Inc()
	}
}

// RunFailed records a computation rejected before ranking, e.g. on an
// invalid mapping.
func (r *Recorder) RunFailed() {
	r.runs.WithLabelValues("error").Inc()
}

// ObserveRequest records one served HTTP request.
func (r *Recorder) ObserveRequest(route string, status int, took time.Duration) {
	r.httpRequests.WithLabelValues(route, statusClass(status)).Inc()
	r.httpDurations.WithLabelValues(route).Observe(took.Seconds())
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
