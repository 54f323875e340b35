// Package wait polls a condition until it holds or a deadline passes.
package wait

import (
	"errors"
	"fmt"
	"time"
)

const (
	DefaultTimeout  = 10 * time.Second
	DefaultInterval = 200 * time.Millisecond
)

// ErrTimeout is the only error class a wait produces. Errors returned
// by Until and For wrap it and carry the wait's label.
var ErrTimeout = errors.New("condition wait timed out")

// Config bounds a single wait. Zero fields fall back to the defaults.
type Config struct {
	Timeout  time.Duration
	Interval time.Duration
}

func Defaults() Config {
	return Config{
		Timeout:  DefaultTimeout,
		Interval: DefaultInterval,
	}
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	return c
}

// Until evaluates cond every Interval until it reports true. The
// condition is always evaluated at least once. On timeout the error
// names the awaited condition via label.
func Until(label string, cond func() bool, cfg Config) error {
	cfg = cfg.withDefaults()
	deadline := time.Now().Add(cfg.Timeout)
	for {
		if cond() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%w after %v: %s", ErrTimeout, cfg.Timeout, label)
		}
		time.Sleep(cfg.Interval)
	}
}

// For is Until for conditions that yield a value: check is polled
// until its second result is true, and the satisfying value is
// returned.
func For[T any](label string, check func() (T, bool), cfg Config) (T, error) {
	cfg = cfg.withDefaults()
	deadline := time.Now().Add(cfg.Timeout)
	for {
		v, ok := check()
		if ok {
			return v, nil
		}
		if time.Now().After(deadline) {
			var zero T
			return zero, fmt.Errorf("%w after %v: %s", ErrTimeout, cfg.Timeout, label)
		}
		time.Sleep(cfg.Interval)
	}
}
