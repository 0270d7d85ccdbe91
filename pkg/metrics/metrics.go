// Package metrics turns protocol log events into Prometheus counters.
//
// A Collector is a log.Logger: attach it to a decoder, a filter or a frame
// reader directly, or next to other loggers through log.NewMultiLogger.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Parrot-Developers/libARCommands-sub000/pkg/log"
)

const namespace = "arcommands"

// ResultOK labels commands handled without error.
const ResultOK = "ok"

// Collector counts commands, filter verdicts, frames and errors.
// Each Collector owns its registry so several can coexist in one process.
type Collector struct {
	registry *prometheus.Registry

	commands *prometheus.CounterVec
	verdicts *prometheus.CounterVec
	frames   *prometheus.HistogramVec
	errors   *prometheus.CounterVec
}

// New creates a Collector with its metrics registered on a fresh registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "codec",
				Name:      "commands_total",
				Help:      "Commands generated or decoded, by feature and result.",
			},
			[]string{"direction", "feature", "result"},
		),
		verdicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "filter",
				Name:      "verdicts_total",
				Help:      "Filter verdicts by status.",
			},
			[]string{"status"},
		),
		frames: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "transport",
				Name:      "frame_bytes",
				Help:      "Transport frame size in bytes, length prefix included.",
				Buckets:   prometheus.ExponentialBuckets(8, 4, 7),
			},
			[]string{"direction"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Error events by layer.",
			},
			[]string{"layer"},
		),
	}
	c.registry.MustRegister(c.commands, c.verdicts, c.frames, c.errors)
	return c
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Log records the event. Events without a payload are ignored.
func (c *Collector) Log(event log.Event) {
	dir := event.Direction.String()
	switch {
	case event.Command != nil:
		result := event.Command.Result
		if event.Command.OK() {
			result = ResultOK
		}
		feature := strconv.Itoa(int(event.Command.Feature))
		c.commands.WithLabelValues(dir, feature, result).Inc()
	case event.Filter != nil:
		c.verdicts.WithLabelValues(event.Filter.Status).Inc()
	case event.Frame != nil:
		c.frames.WithLabelValues(dir).Observe(float64(event.Frame.Size))
	case event.Error != nil:
		c.errors.WithLabelValues(event.Error.Layer.String()).Inc()
	}
}

// WriteTextfile writes the current metrics in the Prometheus text format,
// for node exporter's textfile collector or offline inspection.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}

var _ log.Logger = (*Collector)(nil)
