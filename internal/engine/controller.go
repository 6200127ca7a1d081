// Package engine implements the media engagement tracking engine: the
// session state machine, heartbeat scheduling, and best-effort event
// dispatch. A host embeds one Controller per playback surface and forwards
// raw media events to its lifecycle operations.
package engine

import (
	"log/slog"
	"sync"
	"time"

	"github.com/DSR124124/edugen-tracking-go/internal/domain/tracking"
	"github.com/DSR124124/edugen-tracking-go/internal/domain/user"
)

// ControllerConfig holds construction options for a session controller.
type ControllerConfig struct {
	Role              user.Role // injected explicitly; only learners produce telemetry
	Policy            tracking.Policy
	HeartbeatInterval time.Duration // <= 0 selects 10s
	Clock             Clock
	Logger            *slog.Logger
}

// Controller orchestrates one engagement session for one playback surface.
// All operations are guarded by the session state machine: calls invalid for
// the current state are silent no-ops, which keeps the controller robust
// against UI races such as a pause arriving after teardown.
//
// A mutex serializes caller operations against heartbeat ticks; nothing here
// ever blocks on the network.
type Controller struct {
	mu         sync.Mutex
	session    *tracking.Session
	policy     tracking.Policy
	dispatcher Dispatcher
	clock      Clock
	role       user.Role
	interval   time.Duration
	logger     *slog.Logger

	stopHeartbeat chan struct{}
}

// NewController creates a controller bound to a dispatcher. The controller
// owns the heartbeat scheduler and, on Close, the dispatcher.
func NewController(dispatcher Dispatcher, cfg ControllerConfig) *Controller {
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = 10 * time.Second
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Policy == (tracking.Policy{}) {
		cfg.Policy = tracking.DefaultPolicy()
	}

	return &Controller{
		session:    tracking.NewSession(0),
		policy:     cfg.Policy,
		dispatcher: dispatcher,
		clock:      cfg.Clock,
		role:       cfg.Role,
		interval:   cfg.HeartbeatInterval,
		logger:     cfg.Logger,
	}
}

// Start begins tracking the given material. Valid only from the idle state.
func (c *Controller) Start(materialID int64) {
	if !c.role.CanTrack() {
		return
	}

	c.mu.Lock()
	if c.session.Status != tracking.StatusIdle {
		c.mu.Unlock()
		return
	}

	c.session.MaterialID = materialID
	c.session.ProgressPercentage = 0
	c.session.AccumulatedDurationSeconds = 0
	c.session.LastReportedProgress = 0
	c.session.StartedAt = c.clock.Now()
	c.session.Status = tracking.StatusActive

	evt := c.buildEventLocked(tracking.ActionStart, 0, 0, nil)
	c.armHeartbeatLocked()
	c.mu.Unlock()

	c.logger.Debug("Tracking session started", "materialId", materialID)
	c.dispatcher.Dispatch(evt)
}

// Pause freezes duration accounting. Valid only while active.
func (c *Controller) Pause() {
	if !c.role.CanTrack() {
		return
	}

	c.mu.Lock()
	if c.session.Status != tracking.StatusActive {
		c.mu.Unlock()
		return
	}

	c.cancelHeartbeatLocked()
	c.session.AccumulatedDurationSeconds += c.session.ElapsedSeconds(c.clock.Now())
	c.session.Status = tracking.StatusPaused
	c.session.StartedAt = time.Time{}

	evt := c.buildEventLocked(tracking.ActionPause, c.session.ProgressPercentage, c.session.AccumulatedDurationSeconds, nil)
	c.mu.Unlock()

	c.dispatcher.Dispatch(evt)
}

// Resume restarts duration accounting after a pause. A resume while already
// active is a no-op.
func (c *Controller) Resume() {
	if !c.role.CanTrack() {
		return
	}

	c.mu.Lock()
	if c.session.Status != tracking.StatusPaused {
		c.mu.Unlock()
		return
	}

	c.session.StartedAt = c.clock.Now()
	c.session.Status = tracking.StatusActive

	evt := c.buildEventLocked(tracking.ActionResume, c.session.ProgressPercentage, c.session.AccumulatedDurationSeconds, nil)
	c.armHeartbeatLocked()
	c.mu.Unlock()

	c.dispatcher.Dispatch(evt)
}

// UpdateProgress records the latest playback position. The local value always
// updates for immediate UI feedback, even before Start; a seek event is
// dispatched only when a session is open and the jump from the last reported
// progress clears the seek threshold.
func (c *Controller) UpdateProgress(newProgress float64) {
	if !c.role.CanTrack() {
		return
	}

	c.mu.Lock()
	if c.session.Status.IsTerminal() {
		c.mu.Unlock()
		return
	}

	newProgress = tracking.ClampProgress(newProgress)
	c.session.ProgressPercentage = newProgress

	if c.session.Status == tracking.StatusIdle {
		// Nothing to report against until Start opens a session.
		c.mu.Unlock()
		return
	}

	if !c.policy.ShouldReportSeek(newProgress, c.session.LastReportedProgress) {
		c.mu.Unlock()
		return
	}

	delta := newProgress - c.session.LastReportedProgress
	c.session.LastReportedProgress = newProgress
	duration := c.session.LiveDurationSeconds(c.clock.Now())
	evt := c.buildEventLocked(tracking.ActionSeek, newProgress, duration, map[string]any{
		tracking.MetadataProgressDelta: delta,
	})
	c.mu.Unlock()

	c.dispatcher.Dispatch(evt)
}

// Complete marks the material as fully consumed. Valid from any non-terminal
// state.
func (c *Controller) Complete() {
	if !c.role.CanTrack() {
		return
	}

	c.mu.Lock()
	if c.session.Status.IsTerminal() || c.session.Status == tracking.StatusIdle {
		c.mu.Unlock()
		return
	}

	c.cancelHeartbeatLocked()
	c.session.AccumulatedDurationSeconds += c.session.ElapsedSeconds(c.clock.Now())
	c.session.StartedAt = time.Time{}
	c.session.ProgressPercentage = 100
	c.session.Status = tracking.StatusCompleted

	evt := c.buildEventLocked(tracking.ActionComplete, 100, c.session.AccumulatedDurationSeconds, nil)
	c.mu.Unlock()

	c.dispatcher.Dispatch(evt)
}

// Abandon closes the session without completion. Valid from any non-terminal
// state; the second call in a row is a no-op, so teardown paths may call it
// unconditionally.
func (c *Controller) Abandon() {
	if !c.role.CanTrack() {
		return
	}

	c.mu.Lock()
	if c.session.Status.IsTerminal() || c.session.Status == tracking.StatusIdle {
		c.mu.Unlock()
		return
	}

	c.cancelHeartbeatLocked()
	c.session.AccumulatedDurationSeconds += c.session.ElapsedSeconds(c.clock.Now())
	c.session.StartedAt = time.Time{}
	c.session.Status = tracking.StatusAbandoned

	evt := c.buildEventLocked(tracking.ActionAbandon, c.session.ProgressPercentage, c.session.AccumulatedDurationSeconds, nil)
	c.mu.Unlock()

	c.dispatcher.Dispatch(evt)
}

// Close is the teardown fallback for when the owning view disappears. It
// abandons a still-open session, stops the scheduler, and shuts down the
// dispatcher after draining queued events.
func (c *Controller) Close() {
	c.Abandon()

	c.mu.Lock()
	c.cancelHeartbeatLocked()
	c.mu.Unlock()

	if c.dispatcher != nil {
		c.dispatcher.Close()
	}
}

// Status returns the current session state.
func (c *Controller) Status() tracking.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Status
}

// ProgressPercentage returns the locally-maintained progress for UI rendering.
// It is always available regardless of network outcome.
func (c *Controller) ProgressPercentage() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.ProgressPercentage
}

// AccumulatedDurationSeconds returns active watch time so far, including the
// in-flight active interval.
func (c *Controller) AccumulatedDurationSeconds() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.LiveDurationSeconds(c.clock.Now())
}

// ServerSessionID returns the backend-assigned session id, 0 when unknown.
func (c *Controller) ServerSessionID() int64 {
	return c.dispatcher.ServerSessionID()
}

func (c *Controller) buildEventLocked(action tracking.Action, progress float64, duration int64, metadata map[string]any) tracking.Event {
	return tracking.Event{
		MaterialID:         c.session.MaterialID,
		Action:             action,
		ProgressPercentage: progress,
		DurationSeconds:    duration,
		Metadata:           metadata,
	}
}
