// Package eventlog turns raw debriefing text into an event table.
//
// Debriefing logs come in two dialects. Single-player sessions write a Lua
// table assignment that the generic table decoder understands. Multiplayer
// sessions write a line-oriented variant that is scanned by hand. Dialects are
// tried in order; each one either produces a table or declines with
// ErrNotDialect.
package eventlog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dcsl-project/debrief/pkg/logging"
	"github.com/dcsl-project/debrief/pkg/metrics"
	"github.com/dcsl-project/debrief/pkg/model"
)

// ErrNotDialect is returned by a Dialect that does not recognise the text.
var ErrNotDialect = errors.New("eventlog: not this dialect")

// DialectNone names the outcome where every dialect declined.
const DialectNone = "none"

// byteOrderMark is stripped from the start of a log before any dialect sees it.
const byteOrderMark = "\ufeff"

// DefaultDecodeTimeout bounds the table dialect's decode.
const DefaultDecodeTimeout = 5 * time.Second

// Dialect decodes one serialization of a debriefing log.
type Dialect interface {
	Name() string
	Decode(ctx context.Context, text string) (model.EventTable, error)
}

// Result is the outcome of a parse.
type Result struct {
	Events  model.EventTable
	Dialect string
}

// Parser dispatches text to its dialects.
type Parser struct {
	dialects []Dialect
	timeout  time.Duration
	logger   *logging.Logger
	metrics  *metrics.Registry
}

// Option configures a Parser.
type Option func(*Parser)

// WithDialects replaces the default dialect order.
func WithDialects(d ...Dialect) Option {
	return func(p *Parser) { p.dialects = d }
}

// WithDecodeTimeout bounds each parse.
func WithDecodeTimeout(d time.Duration) Option {
	return func(p *Parser) { p.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(p *Parser) { p.logger = l }
}

// WithMetrics sets the metrics registry.
func WithMetrics(m *metrics.Registry) Option {
	return func(p *Parser) { p.metrics = m }
}

// NewParser creates a parser trying the table dialect, then the multiplayer one.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		dialects: []Dialect{TableDialect{}, MultiplayerDialect{}},
		timeout:  DefaultDecodeTimeout,
		logger:   logging.Global(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse returns the event table for text. It never fails: unrecognised or
// truncated text yields an empty table.
func (p *Parser) Parse(text string) model.EventTable {
	return p.ParseDetailed(text).Events
}

// ParseDetailed is Parse that also reports which dialect matched.
func (p *Parser) ParseDetailed(text string) Result {
	text = strings.TrimPrefix(text, byteOrderMark)

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	for _, d := range p.dialects {
		events, err := d.Decode(ctx, text)
		if err == nil {
			p.metrics.RecordParse(d.Name())
			p.logger.Debug("debriefing decoded", map[string]any{
				"dialect": d.Name(),
				"events":  len(events),
			})
			return Result{Events: events, Dialect: d.Name()}
		}
		if !errors.Is(err, ErrNotDialect) {
			p.logger.Debug("dialect failed", map[string]any{"dialect": d.Name(), "error": err.Error()})
		}
	}

	p.metrics.RecordParse(DialectNone)
	p.logger.Debug("no dialect matched, using empty event table")
	return Result{Events: make(model.EventTable), Dialect: DialectNone}
}
