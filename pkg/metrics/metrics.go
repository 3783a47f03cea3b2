// Package metrics provides Prometheus metrics export for debrief.
// All Record methods are safe on a nil *Registry, which records nothing.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "debrief"

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Registry holds all debrief metrics on a private Prometheus registry.
type Registry struct {
	reg         *prometheus.Registry
	events      *prometheus.CounterVec
	parses      *prometheus.CounterVec
	polls       prometheus.Counter
	callbacks   prometheus.Counter
	watchErrors prometheus.Counter
}

// NewRegistry creates a new metrics registry.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Debriefing events seen by the death tally, by outcome.",
		}, []string{"outcome"}),
		parses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parses_total",
			Help:      "Debriefing logs parsed, by matched dialect.",
		}, []string{"dialect"}),
		polls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "watch_polls_total",
			Help:      "Directory snapshot comparisons performed by the log watcher.",
		}),
		callbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "watch_callbacks_total",
			Help:      "Debriefings delivered by the log watcher.",
		}),
		watchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "watch_errors_total",
			Help:      "Watch sessions that ended with an error.",
		}),
	}
	r.reg.MustRegister(r.events, r.parses, r.polls, r.callbacks, r.watchErrors)
	return r
}

// RecordEvent counts one event by outcome ("counted", "ignored_type" or a skip reason).
func (r *Registry) RecordEvent(outcome string) {
	if r == nil {
		return
	}
	r.events.WithLabelValues(outcome).Inc()
}

// RecordParse counts one parsed log by dialect ("table", "multiplayer", "none").
func (r *Registry) RecordParse(dialect string) {
	if r == nil {
		return
	}
	r.parses.WithLabelValues(dialect).Inc()
}

// RecordPoll counts one snapshot comparison.
func (r *Registry) RecordPoll() {
	if r == nil {
		return
	}
	r.polls.Inc()
}

// RecordCallback counts one delivered debriefing.
func (r *Registry) RecordCallback() {
	if r == nil {
		return
	}
	r.callbacks.Inc()
}

// RecordWatchError counts one failed watch session.
func (r *Registry) RecordWatchError() {
	if r == nil {
		return
	}
	r.watchErrors.Inc()
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
