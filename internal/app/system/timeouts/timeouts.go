// Package timeouts holds the deadlines handlers put on database reads,
// analytics snapshot fetches and assistant provider calls.
//
//   - Ping: health checks
//   - Short: single-document reads and writes
//   - Medium: list queries
//   - Fetch: the concurrent snapshot read behind every analytics view
//   - Assistant: one round trip to the chat provider
//
// Values start at the defaults below and may be changed once at startup.
package timeouts

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPing      = 2 * time.Second
	DefaultShort     = 5 * time.Second
	DefaultMedium    = 10 * time.Second
	DefaultFetch     = 20 * time.Second
	DefaultAssistant = 60 * time.Second
)

// Config holds timeout overrides. Zero values keep the current setting.
type Config struct {
	Ping      time.Duration
	Short     time.Duration
	Medium    time.Duration
	Fetch     time.Duration
	Assistant time.Duration
}

var (
	mu  sync.RWMutex
	cur = defaults()
)

func defaults() Config {
	return Config{
		Ping:      DefaultPing,
		Short:     DefaultShort,
		Medium:    DefaultMedium,
		Fetch:     DefaultFetch,
		Assistant: DefaultAssistant,
	}
}

func get(pick func(Config) time.Duration) time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return pick(cur)
}

func Ping() time.Duration      { return get(func(c Config) time.Duration { return c.Ping }) }
func Short() time.Duration     { return get(func(c Config) time.Duration { return c.Short }) }
func Medium() time.Duration    { return get(func(c Config) time.Duration { return c.Medium }) }
func Fetch() time.Duration     { return get(func(c Config) time.Duration { return c.Fetch }) }
func Assistant() time.Duration { return get(func(c Config) time.Duration { return c.Assistant }) }

// Configure applies the non-zero fields of cfg.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	set := func(dst *time.Duration, v time.Duration) {
		if v > 0 {
			*dst = v
		}
	}
	set(&cur.Ping, cfg.Ping)
	set(&cur.Short, cfg.Short)
	set(&cur.Medium, cfg.Medium)
	set(&cur.Fetch, cfg.Fetch)
	set(&cur.Assistant, cfg.Assistant)
}

// Reset restores the defaults. Tests use it.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	cur = defaults()
}

// Current returns a copy of the active settings.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cur
}

// ConfigureFromEnv reads INCUBAHUB_TIMEOUT_{PING,SHORT,MEDIUM,FETCH,ASSISTANT}
// as Go durations ("2s", "500ms"). Invalid or non-positive values are
// ignored. It returns how many values were applied.
func ConfigureFromEnv() int {
	var cfg Config
	n := 0
	for name, dst := range map[string]*time.Duration{
		"INCUBAHUB_TIMEOUT_PING":      &cfg.Ping,
		"INCUBAHUB_TIMEOUT_SHORT":     &cfg.Short,
		"INCUBAHUB_TIMEOUT_MEDIUM":    &cfg.Medium,
		"INCUBAHUB_TIMEOUT_FETCH":     &cfg.Fetch,
		"INCUBAHUB_TIMEOUT_ASSISTANT": &cfg.Assistant,
	} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			*dst = d
			n++
		}
	}
	Configure(cfg)
	return n
}

// WithTimeout derives a context with the given timeout. The returned cancel
// logs a warning when the deadline, rather than the caller, ended the work.
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Fetch(), h.Log, "analytics snapshot")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
