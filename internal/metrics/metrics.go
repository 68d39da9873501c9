// Package metrics exposes loop and session counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vovakirdan/cli-games/internal/core"
)

// Collector implements engine.Observer on its own registry so several
// collectors can coexist in tests.
type Collector struct {
	registry  *prometheus.Registry
	started   *prometheus.CounterVec
	completed *prometheus.CounterVec
	faults    *prometheus.CounterVec
	active    *prometheus.GaugeVec
	frames    *prometheus.HistogramVec
	scores    *prometheus.HistogramVec
	played    *prometheus.HistogramVec
	conns     prometheus.Gauge
	rejected  prometheus.Counter
}

// New creates a collector. withRuntime adds the Go and process collectors.
func New(withRuntime bool) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		started: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arcade",
			Name:      "sessions_started_total",
			Help:      "Sessions that finished initializing.",
		}, []string{"game", "mode"}),
		completed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arcade",
			Name:      "sessions_completed_total",
			Help:      "Sessions that completed and produced a score report.",
		}, []string{"game", "mode", "outcome"}),
		faults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arcade",
			Name:      "session_faults_total",
			Help:      "Sessions discarded after a panic in game code.",
		}, []string{"game", "stage"}),
		active: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "arcade",
			Name:      "sessions_active",
			Help:      "Sessions currently running.",
		}, []string{"game"}),
		frames: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "arcade",
			Name:      "frame_seconds",
			Help:      "Time spent handling input, updating and rendering one frame.",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05},
		}, []string{"game"}),
		scores: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "arcade",
			Name:      "final_score",
			Help:      "Final scores of completed sessions.",
			Buckets:   prometheus.ExponentialBuckets(10, 4, 7),
		}, []string{"game"}),
		played: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "arcade",
			Name:      "session_seconds",
			Help:      "Simulated play time of completed sessions.",
			Buckets:   []float64{10, 30, 60, 120, 300, 600, 1800},
		}, []string{"game"}),
		conns: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "arcade",
			Name:      "ssh_connections",
			Help:      "Open SSH sessions.",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "arcade",
			Name:      "ssh_rejected_total",
			Help:      "SSH sessions turned away because the server was full.",
		}),
	}

	c.registry.MustRegister(c.started, c.completed, c.faults, c.active, c.frames, c.scores, c.played, c.conns, c.rejected)
	if withRuntime {
		c.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return c
}

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) SessionStarted(gameID string, mode core.Mode) {
	c.started.WithLabelValues(gameID, mode.String()).Inc()
	c.active.WithLabelValues(gameID).Inc()
}

func (c *Collector) FrameRendered(gameID string, took time.Duration) {
	c.frames.WithLabelValues(gameID).Observe(took.Seconds())
}

func (c *Collector) SessionEnded(r core.ScoreReport) {
	c.completed.WithLabelValues(r.GameID, r.Mode.String(), r.Outcome.String()).Inc()
	c.active.WithLabelValues(r.GameID).Dec()
	c.scores.WithLabelValues(r.GameID).Observe(float64(r.Score))
	c.played.WithLabelValues(r.GameID).Observe(r.Elapsed)
}

func (c *Collector) SessionFaulted(gameID, stage string) {
	c.faults.WithLabelValues(gameID, stage).Inc()
	if stage != "initialize" {
		c.active.WithLabelValues(gameID).Dec()
	}
}

// ConnectionOpened counts an SSH session in.
func (c *Collector) ConnectionOpened() { c.conns.Inc() }

// ConnectionClosed counts an SSH session out.
func (c *Collector) ConnectionClosed() { c.conns.Dec() }

// ConnectionRejected counts a session refused at capacity.
func (c *Collector) ConnectionRejected() { c.rejected.Inc() }
