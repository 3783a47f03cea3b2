package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dcsl-project/debrief/internal/watcher"
	"github.com/dcsl-project/debrief/pkg/errclass"
	"github.com/dcsl-project/debrief/pkg/logging"
	"github.com/dcsl-project/debrief/pkg/metrics"
	"github.com/dcsl-project/debrief/pkg/model"
	"github.com/dcsl-project/debrief/pkg/webhook"
)

var (
	watchFlags       missionFlags
	watchDir         string
	watchTimeout     time.Duration
	watchMetricsAddr string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Wait for the next debriefing log and reconcile it",
	Long: `Watch the debriefing directory until a new or modified log appears, then
reconcile it and print the result. Files present when the watch starts are
ignored unless they are modified afterwards.

With --metrics-addr the watch serves Prometheus metrics at /metrics while it
runs.

Examples:
  debrief watch --roster mission.yaml --player USA --enemy Russia
  debrief watch --dir ./liberation_debriefings --timeout 2h
  debrief watch --metrics-addr :2112`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchFlags.register(watchCmd)
	watchCmd.Flags().StringVar(&watchDir, "dir", "", "directory to watch (overrides debriefing_dir)")
	watchCmd.Flags().DurationVar(&watchTimeout, "timeout", 0, "give up after this long (0 waits forever)")
	watchCmd.Flags().StringVar(&watchMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (overrides metrics.addr)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	watchFlags.apply(&cfg.Mission)
	if watchDir != "" {
		cfg.DebriefingDir = watchDir
	}
	if watchMetricsAddr != "" {
		cfg.Metrics.Addr = watchMetricsAddr
	}
	interval, err := cfg.PollIntervalDuration()
	if err != nil {
		return err
	}

	reg := metrics.Default()
	s, err := openSession(cfg, logger, reg)
	if err != nil {
		return err
	}
	hooks, err := webhook.NewClient(cfg.Webhooks, logger)
	if err != nil {
		return err
	}
	sides := s.Sides()
	notify := func(ev webhook.Event) {
		if hooks.Len() == 0 {
			return
		}
		ev.Dir = cfg.DebriefingDir
		ev.Sides = &sides
		// Delivery failures are logged by the client and do not fail the watch.
		hooks.Send(cmd.Context(), ev)
	}

	if cfg.Metrics.Addr != "" {
		shutdown, err := serveMetrics(cfg.Metrics.Addr, reg, logger)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results := make(chan *model.Debriefing, 1)
	h, err := s.Watch(ctx, cfg.DebriefingDir, func(d *model.Debriefing) { results <- d },
		watcher.WithInterval(interval),
		watcher.WithExtension(cfg.Extension),
		watcher.WithNotify(cfg.Notify),
		watcher.WithRequireStable(cfg.RequireStable),
	)
	if err != nil {
		return err
	}
	defer h.Stop()

	var timeout <-chan time.Time
	if watchTimeout > 0 {
		timer := time.NewTimer(watchTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	if !jsonOutput {
		fmt.Printf("Watching %s for a new debriefing...\n", cfg.DebriefingDir)
	}

	d, err := awaitDebriefing(h, results, timeout)
	switch {
	case d != nil:
		notify(webhook.Event{Event: webhook.EventDebriefingReady, Debriefing: d})
		return showWatchResult(d, sides)
	case errors.Is(err, errWatchTimedOut):
		err := errclass.ErrWatchTimeout.WithMessagef("no debriefing in %s after %s", cfg.DebriefingDir, watchTimeout)
		notify(webhook.Event{Event: webhook.EventWatchTimeout, Error: err.Error()})
		return err
	case err != nil:
		notify(webhook.Event{Event: webhook.EventWatchFailed, Error: err.Error()})
		return err
	}
	return nil
}

var errWatchTimedOut = errors.New("watch timed out")

// watchHandle is the part of *watcher.Handle that awaitDebriefing needs.
type watchHandle interface {
	Stop()
	Done() <-chan struct{}
	Err() error
}

// awaitDebriefing blocks until the watch delivers, ends or times out. A
// debriefing already in results always wins over the other outcomes. It
// returns nil, nil when the watch was stopped without a result.
func awaitDebriefing(h watchHandle, results <-chan *model.Debriefing, timeout <-chan time.Time) (*model.Debriefing, error) {
	pending := func() *model.Debriefing {
		select {
		case d := <-results:
			return d
		default:
			return nil
		}
	}

	select {
	case d := <-results:
		return d, nil
	case <-h.Done():
		if d := pending(); d != nil {
			return d, nil
		}
		return nil, h.Err()
	case <-timeout:
		h.Stop()
		<-h.Done()
		if d := pending(); d != nil {
			return d, nil
		}
		return nil, errWatchTimedOut
	}
}

func showWatchResult(d *model.Debriefing, sides model.Sides) error {
	if jsonOutput {
		return outputJSON(d)
	}
	printDebriefing("Debriefing", d, sides)
	return nil
}

// serveMetrics listens on addr and returns a function that shuts the server
// down.
func serveMetrics(addr string, reg *metrics.Registry, logger *logging.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", reg.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorErr("metrics server stopped", err)
		}
	}()
	logger.Info("serving metrics", map[string]any{"addr": ln.Addr().String()})

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}, nil
}
