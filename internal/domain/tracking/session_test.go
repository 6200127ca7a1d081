package tracking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusIsTerminal(t *testing.T) {
	assert.False(t, StatusIdle.IsTerminal())
	assert.False(t, StatusActive.IsTerminal())
	assert.False(t, StatusPaused.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusAbandoned.IsTerminal())
}

func TestElapsedSeconds(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	s := NewSession(7)
	assert.Equal(t, int64(0), s.ElapsedSeconds(base), "idle session accrues nothing")

	s.Status = StatusActive
	s.StartedAt = base
	assert.Equal(t, int64(9), s.ElapsedSeconds(base.Add(9*time.Second)))

	// Clock going backwards must not produce negative durations.
	assert.Equal(t, int64(0), s.ElapsedSeconds(base.Add(-time.Second)))

	s.Status = StatusPaused
	assert.Equal(t, int64(0), s.ElapsedSeconds(base.Add(time.Minute)), "paused session accrues nothing")
}

func TestLiveDurationSeconds(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	s := NewSession(7)
	s.Status = StatusActive
	s.StartedAt = base
	s.AccumulatedDurationSeconds = 30

	assert.Equal(t, int64(35), s.LiveDurationSeconds(base.Add(5*time.Second)))
}

func TestClampProgress(t *testing.T) {
	assert.Equal(t, 0.0, ClampProgress(-3))
	assert.Equal(t, 42.5, ClampProgress(42.5))
	assert.Equal(t, 100.0, ClampProgress(101))
}

func TestActionIsValid(t *testing.T) {
	for _, a := range []Action{ActionStart, ActionPause, ActionResume, ActionSeek, ActionComplete, ActionAbandon} {
		assert.True(t, a.IsValid(), string(a))
	}
	assert.False(t, Action("rewind").IsValid())
	assert.False(t, Action("").IsValid())
}
