package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dcsl-project/debrief/internal/catalog"
	"github.com/dcsl-project/debrief/internal/mission"
	"github.com/dcsl-project/debrief/pkg/config"
	"github.com/dcsl-project/debrief/pkg/debrief"
	"github.com/dcsl-project/debrief/pkg/errclass"
	"github.com/dcsl-project/debrief/pkg/logging"
	"github.com/dcsl-project/debrief/pkg/metrics"
)

// missionFlags override the mission section of the config file.
type missionFlags struct {
	roster  string
	catalog string
	player  string
	enemy   string
}

func (f *missionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.roster, "roster", "", "mission roster YAML (overrides mission.roster)")
	cmd.Flags().StringVar(&f.catalog, "catalog", "", "unit-type catalog YAML (default built-in)")
	cmd.Flags().StringVar(&f.player, "player", "", "player country name (overrides mission.player)")
	cmd.Flags().StringVar(&f.enemy, "enemy", "", "enemy country name (overrides mission.enemy)")
	f.registerCompletions(cmd)
}

func (f *missionFlags) apply(m *config.MissionConfig) {
	if f.roster != "" {
		m.Roster = f.roster
	}
	if f.catalog != "" {
		m.Catalog = f.catalog
	}
	if f.player != "" {
		m.Player = f.player
	}
	if f.enemy != "" {
		m.Enemy = f.enemy
	}
}

// loadConfig reads --config (or ./debrief.yaml), applies --log-level and
// installs the configured logger as the global one.
func loadConfig() (*config.Config, *logging.Logger, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	logger, err := cfg.Logger()
	if err != nil {
		return nil, nil, err
	}
	logging.SetGlobal(logger)
	return cfg, logger, nil
}

// openSession loads the roster and catalog named by cfg and binds the sides.
func openSession(cfg *config.Config, logger *logging.Logger, reg *metrics.Registry) (*debrief.Session, error) {
	mc := cfg.Mission
	if mc.Roster == "" {
		return nil, errclass.ErrConfigInvalid.WithMessage("no mission roster: set mission.roster or pass --roster")
	}
	if mc.Player == "" || mc.Enemy == "" {
		return nil, errclass.ErrConfigInvalid.WithMessage("both sides are required: set mission.player/enemy or pass --player and --enemy")
	}

	m, err := mission.Load(mc.Roster)
	if err != nil {
		return nil, err
	}
	cat := catalog.Default()
	if mc.Catalog != "" {
		if cat, err = catalog.Load(mc.Catalog); err != nil {
			return nil, err
		}
	}
	timeout, err := cfg.DecodeTimeoutDuration()
	if err != nil {
		return nil, err
	}

	s, err := debrief.NewSession(m, cat, mc.Player, mc.Enemy,
		debrief.WithLogger(logger),
		debrief.WithMetrics(reg),
		debrief.WithDecodeTimeout(timeout),
		debrief.WithClampNegative(cfg.ClampAlive),
	)
	if errors.Is(err, errclass.ErrSideUnknown) {
		return nil, fmt.Errorf("%w\n%s", err, suggestSides(m, mc.Player, mc.Enemy))
	}
	return s, err
}
