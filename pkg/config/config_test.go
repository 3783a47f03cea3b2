package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcsl-project/debrief/pkg/errclass"
	"github.com/dcsl-project/debrief/pkg/logging"
	"github.com/dcsl-project/debrief/pkg/webhook"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "liberation_debriefings", cfg.DebriefingDir)
	assert.Equal(t, "log", cfg.Extension)
	assert.True(t, cfg.Notify)
	assert.False(t, cfg.ClampAlive)
	require.NoError(t, cfg.Validate())

	d, err := cfg.PollIntervalDuration()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, d)
}

func TestLoad_NotExists(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Exists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debrief.yaml")
	content := `
debriefing_dir: /var/dcs/debriefings
poll_interval: 500ms
require_stable: true
clamp_alive: true
mission:
  roster: mission.yaml
  player: USA
  enemy: Russia
logging:
  level: debug
  format: text
webhooks:
  hooks:
    - url: http://localhost:9000/debrief
      events: [debriefing.ready]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/dcs/debriefings", cfg.DebriefingDir)
	assert.True(t, cfg.RequireStable)
	assert.True(t, cfg.ClampAlive)
	assert.Equal(t, "USA", cfg.Mission.Player)
	assert.Equal(t, "Russia", cfg.Mission.Enemy)
	// Unset keys keep their defaults.
	assert.Equal(t, "log", cfg.Extension)
	assert.Equal(t, "5s", cfg.DecodeTimeout)
	require.Len(t, cfg.Webhooks.Hooks, 1)
	assert.Equal(t, "http://localhost:9000/debrief", cfg.Webhooks.Hooks[0].URL)
	assert.Equal(t, 3, cfg.Webhooks.MaxRetries)

	d, err := cfg.PollIntervalDuration()
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, d)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debrief.yaml")
	require.NoError(t, os.WriteFile(path, []byte("poll_interval: [unclosed"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"bad duration":     "poll_interval: soon\n",
		"zero duration":    "poll_interval: 0s\n",
		"negative timeout": "decode_timeout: -1s\n",
		"bad level":        "logging:\n  level: loud\n",
		"bad format":       "logging:\n  format: xml\n",
		"same side twice":  "mission:\n  player: USA\n  enemy: USA\n",
		"hook without url": "webhooks:\n  hooks:\n    - secret: x\n",
		"bad retry delay":  "webhooks:\n  retry_delay: later\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "debrief.yaml")
			require.NoError(t, os.WriteFile(path, []byte(content), 0644))

			_, err := Load(path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errclass.ErrConfigInvalid), "got %v", err)
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "debrief.yaml")
	cfg := Default()
	cfg.Mission.Roster = "roster.yaml"
	cfg.Metrics.Addr = ":9464"

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
	assert.Nil(t, loaded.Webhooks.Hooks)
}

func TestSave_RoundTripWithHooks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debrief.yaml")
	cfg := Default()
	cfg.Webhooks.Hooks = []webhook.HookConfig{
		{URL: "http://localhost:9000/hook", Secret: "s", Events: []webhook.EventType{webhook.EventDebriefingReady}},
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestConfig_Logger(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "warn"
	l, err := cfg.Logger()
	require.NoError(t, err)
	assert.False(t, l.Enabled(logging.LevelInfo))
	assert.True(t, l.Enabled(logging.LevelWarn))

	cfg.Logging.Format = "yaml"
	_, err = cfg.Logger()
	assert.True(t, errors.Is(err, errclass.ErrConfigInvalid))
}
