// Package debriefing recovers unit losses from an event table and reconciles
// them against the pre-mission roster.
package debriefing

import (
	"github.com/dcsl-project/debrief/pkg/logging"
	"github.com/dcsl-project/debrief/pkg/metrics"
)

type options struct {
	logger        *logging.Logger
	metrics       *metrics.Registry
	clampNegative bool
}

// Option configures ExtractDeaths and Reconcile.
type Option func(*options)

// WithLogger sets the logger for skip and anomaly diagnostics.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics sets the registry that counts event outcomes.
func WithMetrics(m *metrics.Registry) Option {
	return func(o *options) { o.metrics = m }
}

// WithClampNegative makes Reconcile report zero instead of a negative alive
// count when more units died than the roster held.
func WithClampNegative(clamp bool) Option {
	return func(o *options) { o.clampNegative = clamp }
}

func buildOptions(opts []Option) options {
	o := options{logger: logging.Global()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
