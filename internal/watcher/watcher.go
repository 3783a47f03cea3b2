// Package watcher waits for a new debriefing log to appear in a directory.
//
// A Watcher records a baseline snapshot of the directory, then compares fresh
// snapshots against it on a fixed interval. The first new or modified file is
// processed, the callback receives the result, and the watch ends. The
// callback fires at most once per Start.
package watcher

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/dcsl-project/debrief/pkg/errclass"
	"github.com/dcsl-project/debrief/pkg/fsutil"
	"github.com/dcsl-project/debrief/pkg/logging"
	"github.com/dcsl-project/debrief/pkg/metrics"
	"github.com/dcsl-project/debrief/pkg/model"
)

const (
	// DefaultInterval is the time between snapshot comparisons.
	DefaultInterval = 3 * time.Second
	// DefaultExtension selects debriefing logs.
	DefaultExtension = "log"
)

// Processor turns the log at path into a debriefing.
// Returning an error wrapping fs.ErrNotExist means the file vanished and the
// watcher should look again on the next tick.
type Processor func(ctx context.Context, path string) (*model.Debriefing, error)

// Callback receives the debriefing. It runs on the watch goroutine and must
// not call Handle.Stop.
type Callback func(*model.Debriefing)

// Watcher polls one directory.
type Watcher struct {
	dir           string
	process       Processor
	interval      time.Duration
	ext           string
	notify        bool
	requireStable bool
	logger        *logging.Logger
	metrics       *metrics.Registry
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithInterval sets the poll interval.
func WithInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithExtension restricts the watch to files with extension ext. Empty
// watches every file.
func WithExtension(ext string) Option {
	return func(w *Watcher) { w.ext = ext }
}

// WithNotify adds filesystem notifications as an extra trigger for a
// comparison. Polling continues regardless.
func WithNotify(enabled bool) Option {
	return func(w *Watcher) { w.notify = enabled }
}

// WithRequireStable delays processing until a changed file looks the same on
// two consecutive comparisons.
func WithRequireStable(enabled bool) Option {
	return func(w *Watcher) { w.requireStable = enabled }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// WithMetrics sets the metrics registry.
func WithMetrics(m *metrics.Registry) Option {
	return func(w *Watcher) { w.metrics = m }
}

// New creates a Watcher for dir.
func New(dir string, process Processor, opts ...Option) *Watcher {
	w := &Watcher{
		dir:      dir,
		process:  process,
		interval: DefaultInterval,
		ext:      DefaultExtension,
		logger:   logging.Global(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string { return w.dir }

// Handle controls a running watch.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
	fired  atomic.Bool

	mu  sync.Mutex
	err error
}

// Stop cancels the watch and waits for the goroutine to exit. Safe to call
// more than once and after the watch ended on its own.
func (h *Handle) Stop() {
	h.cancel()
	<-h.done
}

// Done is closed when the watch goroutine has exited.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Wait blocks until the watch ends and returns Err.
func (h *Handle) Wait() error {
	<-h.done
	return h.Err()
}

// Err reports why the watch ended: nil after a delivered debriefing or a
// stop, otherwise the processing or filesystem error.
func (h *Handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// Fired reports whether the callback has been invoked.
func (h *Handle) Fired() bool { return h.fired.Load() }

func (h *Handle) setErr(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}

// Start creates the directory if needed, records the baseline snapshot and
// begins polling in the background. It returns immediately.
func (w *Watcher) Start(ctx context.Context, cb Callback) (*Handle, error) {
	if cb == nil {
		return nil, errors.New("watcher: nil callback")
	}
	if w.process == nil {
		return nil, errors.New("watcher: nil processor")
	}

	logger := w.logger.WithFields(map[string]any{
		"session": uuid.NewString(),
		"dir":     w.dir,
	})

	created, err := fsutil.EnsureDir(w.dir)
	if err != nil {
		return nil, errclass.ErrWatchDirUnavailable.WithMessage(err.Error())
	}
	if created {
		logger.Info("created debriefing directory")
	}

	baseline, err := TakeSnapshot(w.dir, w.ext)
	if err != nil {
		return nil, errclass.ErrWatchDirUnavailable.WithMessagef("%s: %v", w.dir, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}

	var fsw *fsnotify.Watcher
	if w.notify {
		fsw = w.openNotify(logger)
	}

	logger.Info("watching for debriefing", map[string]any{
		"baseline_files": len(baseline),
		"interval":       w.interval.String(),
		"notify":         fsw != nil,
	})
	go w.run(ctx, h, baseline, cb, fsw, logger)
	return h, nil
}

// openNotify returns nil when notifications are unavailable; polling still works.
func (w *Watcher) openNotify(logger *logging.Logger) *fsnotify.Watcher {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn("filesystem notifications unavailable", map[string]any{"error": err.Error()})
		return nil
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close()
		logger.Warn("filesystem notifications unavailable", map[string]any{"error": err.Error()})
		return nil
	}
	return fsw
}

func (w *Watcher) run(ctx context.Context, h *Handle, baseline Snapshot, cb Callback, fsw *fsnotify.Watcher, logger *logging.Logger) {
	defer close(h.done)
	defer h.cancel()

	var (
		events <-chan fsnotify.Event
		errs   <-chan error
	)
	if fsw != nil {
		defer fsw.Close()
		events, errs = fsw.Events, fsw.Errors
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var lastSeen Snapshot
	for {
		select {
		case <-ctx.Done():
			logger.Info("watch stopped")
			return
		case <-ticker.C:
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if !matchesExt(filepath.Base(ev.Name), w.ext) {
				continue
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Warn("filesystem notification error", map[string]any{"error": err.Error()})
			continue
		}

		finished, err := w.check(ctx, h, baseline, &lastSeen, cb, logger)
		if err != nil {
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				logger.Info("watch stopped during processing")
				return
			}
			h.setErr(err)
			w.metrics.RecordWatchError()
			logger.ErrorErr("watch failed", err)
			return
		}
		if finished {
			return
		}
	}
}

// check compares a fresh snapshot with the baseline and processes the first
// eligible file. It reports whether the watch is over.
func (w *Watcher) check(ctx context.Context, h *Handle, baseline Snapshot, lastSeen *Snapshot, cb Callback, logger *logging.Logger) (bool, error) {
	fresh, err := TakeSnapshot(w.dir, w.ext)
	if err != nil {
		return false, errclass.ErrWatchDirUnavailable.WithMessagef("%s: %v", w.dir, err)
	}
	w.metrics.RecordPoll()

	candidates := baseline.Changed(fresh)
	if w.requireStable {
		candidates = stable(candidates, fresh, *lastSeen)
		*lastSeen = fresh
	}
	if len(candidates) == 0 {
		return false, nil
	}

	name := candidates[0]
	path := filepath.Join(w.dir, name)
	logger.Info("debriefing log detected", map[string]any{"file": name, "changed": len(candidates)})

	d, err := w.process(ctx, path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("debriefing log vanished before it could be read", map[string]any{"file": name})
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if h.fired.CompareAndSwap(false, true) {
		cb(d)
		w.metrics.RecordCallback()
		logger.Info("debriefing delivered", map[string]any{"file": name})
	}
	return true, nil
}

// stable keeps the candidates whose state matches the previous comparison.
func stable(candidates []string, fresh, prev Snapshot) []string {
	var out []string
	for _, name := range candidates {
		old, ok := prev[name]
		if ok && old.ModTime.Equal(fresh[name].ModTime) && old.Size == fresh[name].Size {
			out = append(out, name)
		}
	}
	return out
}
