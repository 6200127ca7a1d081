package tracking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldReportHeartbeat(t *testing.T) {
	p := DefaultPolicy()

	assert.False(t, p.ShouldReportHeartbeat(4.9, 0), "below threshold")
	assert.True(t, p.ShouldReportHeartbeat(5.0, 0), "exactly at threshold")
	assert.True(t, p.ShouldReportHeartbeat(5.1, 0), "above threshold")

	// Delta is measured from the last reported value, not zero.
	assert.False(t, p.ShouldReportHeartbeat(54.0, 50.0))
	assert.True(t, p.ShouldReportHeartbeat(55.0, 50.0))

	// Backwards movement counts too.
	assert.True(t, p.ShouldReportHeartbeat(45.0, 50.0))
}

func TestShouldReportSeek(t *testing.T) {
	p := DefaultPolicy()

	assert.False(t, p.ShouldReportSeek(9.9, 0), "below threshold")
	assert.True(t, p.ShouldReportSeek(10.0, 0), "exactly at threshold")

	// Backwards seek of equal magnitude reports as well.
	assert.True(t, p.ShouldReportSeek(40.0, 50.0))
	assert.False(t, p.ShouldReportSeek(41.0, 50.0))
}

func TestCustomThresholds(t *testing.T) {
	p := Policy{HeartbeatThreshold: 1, SeekThreshold: 2}

	assert.True(t, p.ShouldReportHeartbeat(1, 0))
	assert.False(t, p.ShouldReportSeek(1, 0))
	assert.True(t, p.ShouldReportSeek(2, 0))
}
