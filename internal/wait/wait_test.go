package wait

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUntil(t *testing.T) {
	t.Run("already satisfied", func(t *testing.T) {
		calls := 0
		err := Until("noop", func() bool {
			calls++
			return true
		}, Config{Timeout: time.Second, Interval: time.Millisecond})

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("satisfied after polling", func(t *testing.T) {
		calls := 0
		err := Until("third attempt succeeds", func() bool {
			calls++
			return calls >= 3
		}, Config{Timeout: time.Second, Interval: time.Millisecond})

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("times out with labeled error", func(t *testing.T) {
		start := time.Now()
		err := Until("never happens", func() bool { return false },
			Config{Timeout: 50 * time.Millisecond, Interval: 5 * time.Millisecond})

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrTimeout)
		assert.Contains(t, err.Error(), "never happens")
		assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("evaluates at least once on a tiny budget", func(t *testing.T) {
		calls := 0
		err := Until("instant", func() bool {
			calls++
			return true
		}, Config{Timeout: time.Nanosecond, Interval: time.Nanosecond})

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})
}

func TestFor(t *testing.T) {
	t.Run("returns the satisfying value", func(t *testing.T) {
		calls := 0
		got, err := For("errors appear", func() ([]string, bool) {
			calls++
			if calls < 2 {
				return nil, false
			}
			return []string{"first", "second"}, true
		}, Config{Timeout: time.Second, Interval: time.Millisecond})

		require.NoError(t, err)
		assert.Equal(t, []string{"first", "second"}, got)
	})

	t.Run("returns the zero value on timeout", func(t *testing.T) {
		got, err := For("never yields", func() (string, bool) {
			return "partial", false
		}, Config{Timeout: 30 * time.Millisecond, Interval: 5 * time.Millisecond})

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrTimeout)
		assert.Empty(t, got)
	})
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultInterval, cfg.Interval)

	// A zero config picks up defaults instead of spinning hot.
	err := Until("zero config", func() bool { return true }, Config{})
	assert.NoError(t, err)
}
