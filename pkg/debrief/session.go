package debrief

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/dcsl-project/debrief/internal/catalog"
	"github.com/dcsl-project/debrief/internal/debriefing"
	"github.com/dcsl-project/debrief/internal/eventlog"
	"github.com/dcsl-project/debrief/internal/mission"
	"github.com/dcsl-project/debrief/internal/watcher"
	"github.com/dcsl-project/debrief/pkg/errclass"
	"github.com/dcsl-project/debrief/pkg/logging"
	"github.com/dcsl-project/debrief/pkg/metrics"
	"github.com/dcsl-project/debrief/pkg/model"
)

// Session reconciles debriefings for one mission.
type Session struct {
	catalog *catalog.Catalog
	sides   model.Sides
	rosters map[string]model.RosterCount
	parser  *eventlog.Parser
	opts    options
}

type options struct {
	logger        *logging.Logger
	metrics       *metrics.Registry
	decodeTimeout time.Duration
	clampNegative bool
}

// Option configures a Session.
type Option func(*options)

// WithLogger sets the logger shared by every stage.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics sets the metrics registry shared by every stage.
func WithMetrics(m *metrics.Registry) Option {
	return func(o *options) { o.metrics = m }
}

// WithDecodeTimeout bounds the table decoder per parse.
func WithDecodeTimeout(d time.Duration) Option {
	return func(o *options) { o.decodeTimeout = d }
}

// WithClampNegative reports zero alive units instead of negative counts.
func WithClampNegative(clamp bool) Option {
	return func(o *options) { o.clampNegative = clamp }
}

// NewSession resolves the two side names against the mission and counts
// their rosters.
func NewSession(m *mission.Mission, cat *catalog.Catalog, playerName, enemyName string, opts ...Option) (*Session, error) {
	o := options{
		logger:        logging.Global(),
		decodeTimeout: eventlog.DefaultDecodeTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if playerName == enemyName {
		return nil, errclass.ErrSidesInvalid.WithMessagef("player and enemy are both %q", playerName)
	}
	player, err := m.Country(playerName)
	if err != nil {
		return nil, fmt.Errorf("player side: %w", err)
	}
	enemy, err := m.Country(enemyName)
	if err != nil {
		return nil, fmt.Errorf("enemy side: %w", err)
	}

	rosters := make(map[string]model.RosterCount, 2)
	for _, c := range []*mission.Country{player, enemy} {
		rc, err := debriefing.CountRoster(c, cat)
		if err != nil {
			return nil, err
		}
		rosters[c.Name] = rc
	}

	return &Session{
		catalog: cat,
		sides:   model.Sides{Player: player.Side(), Enemy: enemy.Side()},
		rosters: rosters,
		parser: eventlog.NewParser(
			eventlog.WithDecodeTimeout(o.decodeTimeout),
			eventlog.WithLogger(o.logger),
			eventlog.WithMetrics(o.metrics),
		),
		opts: o,
	}, nil
}

// Sides returns the resolved player and enemy.
func (s *Session) Sides() model.Sides { return s.sides }

// Rosters returns a copy of the per-side roster counts.
func (s *Session) Rosters() map[string]model.RosterCount {
	out := make(map[string]model.RosterCount, len(s.rosters))
	for k, v := range s.rosters {
		out[k] = v.Clone()
	}
	return out
}

// Events decodes text without reconciling it.
func (s *Session) Events(text string) eventlog.Result {
	return s.parser.ParseDetailed(text)
}

// Parse reconciles the debriefing log text.
func (s *Session) Parse(text string) (*model.Debriefing, error) {
	events := s.parser.Parse(text)
	tally := debriefing.ExtractDeaths(events, s.catalog,
		debriefing.WithLogger(s.opts.logger),
		debriefing.WithMetrics(s.opts.metrics),
	)
	return debriefing.Reconcile(tally, s.rosters, s.sides,
		debriefing.WithLogger(s.opts.logger),
		debriefing.WithClampNegative(s.opts.clampNegative),
	)
}

// ParseFile reads and reconciles the log at path. A missing file is returned
// as an error wrapping fs.ErrNotExist; other read failures are E_LOG_UNREADABLE.
func (s *Session) ParseFile(ctx context.Context, path string) (*model.Debriefing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read debriefing log: %w", err)
	}
	if err != nil {
		return nil, errclass.ErrLogUnreadable.WithMessagef("%s: %v", path, err)
	}
	d, err := s.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("reconcile %s: %w", path, err)
	}
	return d, nil
}

// Watch waits in the background for a new log in dir and delivers its
// debriefing to cb once.
func (s *Session) Watch(ctx context.Context, dir string, cb watcher.Callback, opts ...watcher.Option) (*watcher.Handle, error) {
	base := []watcher.Option{
		watcher.WithLogger(s.opts.logger),
		watcher.WithMetrics(s.opts.metrics),
	}
	w := watcher.New(dir, s.ParseFile, append(base, opts...)...)
	return w.Start(ctx, cb)
}
