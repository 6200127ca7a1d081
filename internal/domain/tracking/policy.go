package tracking

import "math"

// Default reporting thresholds, in progress percentage points.
const (
	DefaultHeartbeatThreshold = 5.0
	DefaultSeekThreshold      = 10.0
)

// Policy decides whether a progress change is significant enough to report.
// A continuously-updating playback surface fires progress callbacks many
// times per second; these predicates keep the event stream salient instead
// of exhaustive.
type Policy struct {
	HeartbeatThreshold float64
	SeekThreshold      float64
}

// DefaultPolicy returns the standard reporting thresholds.
func DefaultPolicy() Policy {
	return Policy{
		HeartbeatThreshold: DefaultHeartbeatThreshold,
		SeekThreshold:      DefaultSeekThreshold,
	}
}

// ShouldReportHeartbeat reports whether progress has moved enough since the
// last reported value to justify a heartbeat event.
func (p Policy) ShouldReportHeartbeat(current, lastReported float64) bool {
	return math.Abs(current-lastReported) >= p.HeartbeatThreshold
}

// ShouldReportSeek reports whether a progress jump is large enough to be
// reported as a seek event.
func (p Policy) ShouldReportSeek(current, lastReported float64) bool {
	return math.Abs(current-lastReported) >= p.SeekThreshold
}
