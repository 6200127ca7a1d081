package engine

import (
	"time"

	"github.com/DSR124124/edugen-tracking-go/internal/domain/tracking"
)

// armHeartbeatLocked starts the periodic heartbeat goroutine. Exactly one
// heartbeat timer is live while the session is active; arming while a timer
// already runs is a no-op. Caller holds c.mu.
func (c *Controller) armHeartbeatLocked() {
	if c.stopHeartbeat != nil {
		return
	}
	stop := make(chan struct{})
	c.stopHeartbeat = stop

	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				c.tick(stop)
			}
		}
	}()
}

// cancelHeartbeatLocked stops the heartbeat goroutine if one is running.
// Caller holds c.mu.
func (c *Controller) cancelHeartbeatLocked() {
	if c.stopHeartbeat == nil {
		return
	}
	close(c.stopHeartbeat)
	c.stopHeartbeat = nil
}

// tick rolls the in-flight active interval into accumulated duration and,
// when progress has moved past the heartbeat threshold, reports it. The stop
// channel identifies which timer generation fired; a tick from a cancelled
// generation is discarded so a pause racing a tick cannot double-count time.
func (c *Controller) tick(stop chan struct{}) {
	c.mu.Lock()
	if c.stopHeartbeat != stop || c.session.Status != tracking.StatusActive {
		c.mu.Unlock()
		return
	}

	now := c.clock.Now()
	c.session.AccumulatedDurationSeconds += c.session.ElapsedSeconds(now)
	c.session.StartedAt = now

	if !c.policy.ShouldReportHeartbeat(c.session.ProgressPercentage, c.session.LastReportedProgress) {
		c.mu.Unlock()
		return
	}

	c.session.LastReportedProgress = c.session.ProgressPercentage
	evt := c.buildEventLocked(tracking.ActionResume, c.session.ProgressPercentage, c.session.AccumulatedDurationSeconds, nil)
	c.mu.Unlock()

	c.logger.Debug("Heartbeat reported",
		"materialId", evt.MaterialID,
		"progress", evt.ProgressPercentage,
		"durationSeconds", evt.DurationSeconds)
	c.dispatcher.Dispatch(evt)
}
