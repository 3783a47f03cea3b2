// Package webhook posts debrief events to HTTP endpoints.
package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dcsl-project/debrief/pkg/logging"
	"github.com/dcsl-project/debrief/pkg/model"
)

// EventType names what happened.
type EventType string

const (
	EventDebriefingReady EventType = "debriefing.ready"
	EventWatchFailed     EventType = "watch.failed"
	EventWatchTimeout    EventType = "watch.timeout"
)

// Event is the JSON payload posted to every matching hook.
type Event struct {
	Event      EventType         `json:"event"`
	Timestamp  string            `json:"timestamp"`
	Dir        string            `json:"dir,omitempty"`
	Sides      *model.Sides      `json:"sides,omitempty"`
	Debriefing *model.Debriefing `json:"debriefing,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// HookConfig is one endpoint.
type HookConfig struct {
	URL    string      `yaml:"url" json:"url"`
	Secret string      `yaml:"secret,omitempty" json:"-"`
	Events []EventType `yaml:"events" json:"events"` // empty or "*": every event
}

// Config lists the endpoints and the retry policy.
type Config struct {
	Hooks      []HookConfig `yaml:"hooks,omitempty" json:"hooks,omitempty"`
	MaxRetries int          `yaml:"max_retries" json:"max_retries"`
	RetryDelay string       `yaml:"retry_delay" json:"retry_delay"`
	Timeout    string       `yaml:"timeout" json:"timeout"`
}

// DefaultConfig returns a config with no hooks.
func DefaultConfig() Config {
	return Config{
		MaxRetries: 3,
		RetryDelay: "2s",
		Timeout:    "10s",
	}
}

// Client sends events synchronously with retries.
type Client struct {
	hooks      []HookConfig
	maxRetries int
	retryDelay time.Duration
	http       *http.Client
	logger     *logging.Logger
}

// NewClient validates cfg and builds a client. A nil logger logs to the
// global logger.
func NewClient(cfg Config, logger *logging.Logger) (*Client, error) {
	if logger == nil {
		logger = logging.Global()
	}
	retryDelay, err := time.ParseDuration(cfg.RetryDelay)
	if err != nil {
		return nil, fmt.Errorf("webhooks.retry_delay: %w", err)
	}
	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("webhooks.timeout: %w", err)
	}
	if cfg.MaxRetries < 0 {
		return nil, fmt.Errorf("webhooks.max_retries must not be negative, got %d", cfg.MaxRetries)
	}
	for i, h := range cfg.Hooks {
		if h.URL == "" {
			return nil, fmt.Errorf("webhooks.hooks[%d]: url is required", i)
		}
	}
	return &Client{
		hooks:      cfg.Hooks,
		maxRetries: cfg.MaxRetries,
		retryDelay: retryDelay,
		http:       &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// Len reports how many hooks are configured.
func (c *Client) Len() int { return len(c.hooks) }

// Send posts event to every hook subscribed to its type. Every hook is
// attempted; the last failure is returned.
func (c *Client) Send(ctx context.Context, event Event) error {
	if event.Timestamp == "" {
		event.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	var lastErr error
	for _, hook := range c.hooks {
		if !matchesEvent(hook, event.Event) {
			continue
		}
		if err := c.post(ctx, hook, payload); err != nil {
			c.logger.Warn("webhook delivery failed", map[string]any{
				"url":   hook.URL,
				"event": string(event.Event),
				"error": err.Error(),
			})
			lastErr = err
			continue
		}
		c.logger.Debug("webhook delivered", map[string]any{"url": hook.URL, "event": string(event.Event)})
	}
	return lastErr
}

func (c *Client) post(ctx context.Context, hook HookConfig, payload []byte) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, hook.URL, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", "debrief-webhook/1.0")
		if hook.Secret != "" {
			req.Header.Set("X-Debrief-Signature", sign(payload, hook.Secret))
		}

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("http request: %w", err)
			continue
		}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}
		lastErr = fmt.Errorf("http %d: %s", resp.StatusCode, bytes.TrimSpace(body))
		// Client errors will not succeed on retry.
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return lastErr
		}
	}
	return lastErr
}

// sign returns the HMAC-SHA256 signature of payload.
func sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func matchesEvent(hook HookConfig, event EventType) bool {
	if len(hook.Events) == 0 {
		return true
	}
	for _, e := range hook.Events {
		if e == event || e == "*" {
			return true
		}
	}
	return false
}
