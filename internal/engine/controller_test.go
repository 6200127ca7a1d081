package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DSR124124/edugen-tracking-go/internal/domain/tracking"
	"github.com/DSR124124/edugen-tracking-go/internal/domain/user"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fakeDispatcher struct {
	mu     sync.Mutex
	events []tracking.Event
	closed bool
}

func (d *fakeDispatcher) Dispatch(evt tracking.Event) {
	d.mu.Lock()
	d.events = append(d.events, evt)
	d.mu.Unlock()
}

func (d *fakeDispatcher) ServerSessionID() int64 { return 0 }

func (d *fakeDispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
}

func (d *fakeDispatcher) Events() []tracking.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]tracking.Event, len(d.events))
	copy(out, d.events)
	return out
}

func (d *fakeDispatcher) Actions() []tracking.Action {
	var actions []tracking.Action
	for _, evt := range d.Events() {
		actions = append(actions, evt.Action)
	}
	return actions
}

func newTestController(t *testing.T) (*Controller, *fakeDispatcher, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	dispatcher := &fakeDispatcher{}
	controller := NewController(dispatcher, ControllerConfig{
		Role:  user.RoleLearner,
		Clock: clock,
	})
	return controller, dispatcher, clock
}

func TestStartDispatchesAndActivates(t *testing.T) {
	c, d, _ := newTestController(t)

	c.Start(42)

	assert.Equal(t, tracking.StatusActive, c.Status())
	events := d.Events()
	require.Len(t, events, 1)
	assert.Equal(t, tracking.ActionStart, events[0].Action)
	assert.Equal(t, int64(42), events[0].MaterialID)
	assert.Equal(t, 0.0, events[0].ProgressPercentage)
}

func TestStartTwiceIsNoOp(t *testing.T) {
	c, d, _ := newTestController(t)

	c.Start(42)
	c.Start(43)

	require.Len(t, d.Events(), 1)
	assert.Equal(t, int64(42), d.Events()[0].MaterialID)
}

func TestPauseExcludedFromDuration(t *testing.T) {
	c, d, clock := newTestController(t)

	c.Start(42)
	clock.Advance(5 * time.Second)
	c.Pause()

	clock.Advance(4 * time.Second) // paused time must not count
	c.Resume()
	clock.Advance(4 * time.Second)
	c.Complete()

	events := d.Events()
	require.Len(t, events, 4)
	assert.Equal(t, []tracking.Action{
		tracking.ActionStart, tracking.ActionPause, tracking.ActionResume, tracking.ActionComplete,
	}, d.Actions())

	assert.Equal(t, int64(5), events[1].DurationSeconds, "pause reports time so far")
	assert.Equal(t, int64(9), events[3].DurationSeconds, "complete excludes paused interval")
	assert.Equal(t, 100.0, events[3].ProgressPercentage)
	assert.Equal(t, tracking.StatusCompleted, c.Status())
}

func TestPauseBeforeStartIsNoOp(t *testing.T) {
	c, d, _ := newTestController(t)

	c.Pause()
	c.Resume()
	c.UpdateProgress(50)
	c.Complete()

	assert.Empty(t, d.Events())
	assert.Equal(t, tracking.StatusIdle, c.Status())
}

func TestResumeWhileActiveIsNoOp(t *testing.T) {
	c, d, _ := newTestController(t)

	c.Start(42)
	c.Resume()

	require.Len(t, d.Events(), 1)
}

func TestUpdateProgressThreshold(t *testing.T) {
	c, d, _ := newTestController(t)

	c.Start(42)

	c.UpdateProgress(9.9)
	assert.Equal(t, 9.9, c.ProgressPercentage(), "local progress always updates")
	require.Len(t, d.Events(), 1, "below seek threshold dispatches nothing")

	c.UpdateProgress(10)
	events := d.Events()
	require.Len(t, events, 2)
	assert.Equal(t, tracking.ActionSeek, events[1].Action)
	assert.Equal(t, 10.0, events[1].ProgressPercentage)
	assert.Equal(t, 10.0, events[1].Metadata[tracking.MetadataProgressDelta])
}

func TestUpdateProgressBeforeStartUpdatesLocally(t *testing.T) {
	c, d, _ := newTestController(t)

	c.UpdateProgress(35)

	assert.Equal(t, 35.0, c.ProgressPercentage(), "local progress is live before Start")
	assert.Equal(t, tracking.StatusIdle, c.Status())
	assert.Empty(t, d.Events(), "no session open, nothing to report")

	c.Start(42)
	assert.Equal(t, 0.0, c.ProgressPercentage(), "Start resets progress")
}

func TestUpdateProgressClampsInput(t *testing.T) {
	c, _, _ := newTestController(t)

	c.Start(42)
	c.UpdateProgress(150)

	assert.Equal(t, 100.0, c.ProgressPercentage())
}

func TestSeekDeltaMeasuredFromLastReported(t *testing.T) {
	c, d, _ := newTestController(t)

	c.Start(42)
	c.UpdateProgress(50)
	c.UpdateProgress(55) // only 5 past last report, below seek threshold
	c.UpdateProgress(62) // 12 past last report

	events := d.Events()
	require.Len(t, events, 3)
	assert.Equal(t, 50.0, events[1].Metadata[tracking.MetadataProgressDelta])
	assert.Equal(t, 12.0, events[2].Metadata[tracking.MetadataProgressDelta])
}

func TestTerminalStatesAreClosed(t *testing.T) {
	c, d, _ := newTestController(t)

	c.Start(42)
	c.Complete()

	c.Pause()
	c.Resume()
	c.UpdateProgress(50)
	c.Abandon()
	c.Complete()

	require.Len(t, d.Events(), 2)
	assert.Equal(t, tracking.StatusCompleted, c.Status())
}

func TestAbandonIsIdempotent(t *testing.T) {
	c, d, clock := newTestController(t)

	c.Start(42)
	clock.Advance(3 * time.Second)
	c.Abandon()
	c.Abandon()

	events := d.Events()
	require.Len(t, events, 2)
	assert.Equal(t, tracking.ActionAbandon, events[1].Action)
	assert.Equal(t, int64(3), events[1].DurationSeconds)
}

func TestCloseAbandonsOpenSession(t *testing.T) {
	c, d, _ := newTestController(t)

	c.Start(42)
	c.Close()

	assert.Equal(t, tracking.StatusAbandoned, c.Status())
	assert.Equal(t, []tracking.Action{tracking.ActionStart, tracking.ActionAbandon}, d.Actions())
	d.mu.Lock()
	defer d.mu.Unlock()
	assert.True(t, d.closed)
}

func TestCloseAfterCompleteDoesNotAbandon(t *testing.T) {
	c, d, _ := newTestController(t)

	c.Start(42)
	c.Complete()
	c.Close()

	assert.Equal(t, tracking.StatusCompleted, c.Status())
	require.Len(t, d.Events(), 2)
}

func TestNonLearnerProducesNoTraffic(t *testing.T) {
	clock := newFakeClock()
	dispatcher := &fakeDispatcher{}
	c := NewController(dispatcher, ControllerConfig{
		Role:  user.RoleProfessor,
		Clock: clock,
	})

	c.Start(42)
	c.UpdateProgress(50)
	c.Pause()
	c.Complete()

	assert.Empty(t, dispatcher.Events())
	assert.Equal(t, tracking.StatusIdle, c.Status())
}

func TestAccumulatedDurationIncludesLiveInterval(t *testing.T) {
	c, _, clock := newTestController(t)

	c.Start(42)
	clock.Advance(7 * time.Second)

	assert.Equal(t, int64(7), c.AccumulatedDurationSeconds())
}

func heartbeatStop(c *Controller) chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopHeartbeat
}

func TestHeartbeatTickReportsMovedProgress(t *testing.T) {
	c, d, clock := newTestController(t)

	c.Start(42)
	c.UpdateProgress(7) // past the heartbeat threshold but below the seek threshold
	clock.Advance(10 * time.Second)

	c.tick(heartbeatStop(c))

	events := d.Events()
	require.Len(t, events, 2)
	assert.Equal(t, tracking.ActionResume, events[1].Action)
	assert.Equal(t, 7.0, events[1].ProgressPercentage)
	assert.Equal(t, int64(10), events[1].DurationSeconds)
}

func TestHeartbeatTickBelowThresholdStaysQuiet(t *testing.T) {
	c, d, clock := newTestController(t)

	c.Start(42)
	c.UpdateProgress(3)
	clock.Advance(10 * time.Second)

	stop := heartbeatStop(c)
	c.tick(stop)
	require.Len(t, d.Events(), 1, "3 points of movement is below the heartbeat threshold")

	// The quiet tick still rolled the interval into accumulated duration.
	clock.Advance(2 * time.Second)
	assert.Equal(t, int64(12), c.AccumulatedDurationSeconds())
}

func TestHeartbeatThresholdResetsAfterReport(t *testing.T) {
	c, d, clock := newTestController(t)

	c.Start(42)
	c.UpdateProgress(6)
	clock.Advance(10 * time.Second)
	c.tick(heartbeatStop(c))
	require.Len(t, d.Events(), 2)

	// No further movement: next tick reports nothing.
	clock.Advance(10 * time.Second)
	c.tick(heartbeatStop(c))
	require.Len(t, d.Events(), 2)
}

func TestStaleTickIsDiscarded(t *testing.T) {
	c, d, clock := newTestController(t)

	c.Start(42)
	c.UpdateProgress(6)
	stale := heartbeatStop(c)

	clock.Advance(5 * time.Second)
	c.Pause()
	before := len(d.Events())

	// A tick from the timer generation cancelled by Pause must not fire.
	c.tick(stale)
	assert.Len(t, d.Events(), before)
	assert.Equal(t, tracking.StatusPaused, c.Status())
}

func TestHeartbeatTimerLifecycle(t *testing.T) {
	c, _, _ := newTestController(t)

	assert.Nil(t, heartbeatStop(c), "no timer while idle")

	c.Start(42)
	assert.NotNil(t, heartbeatStop(c), "timer armed while active")

	c.Pause()
	assert.Nil(t, heartbeatStop(c), "timer cancelled on pause")

	c.Resume()
	assert.NotNil(t, heartbeatStop(c), "timer re-armed on resume")

	c.Complete()
	assert.Nil(t, heartbeatStop(c), "timer cancelled on completion")
}
