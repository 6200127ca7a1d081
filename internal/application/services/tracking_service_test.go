package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DSR124124/edugen-tracking-go/internal/domain/tracking"
	"github.com/DSR124124/edugen-tracking-go/internal/domain/user"
	"github.com/DSR124124/edugen-tracking-go/internal/infrastructure/messaging"
	"github.com/DSR124124/edugen-tracking-go/internal/infrastructure/observability/logging"
	"github.com/DSR124124/edugen-tracking-go/internal/infrastructure/observability/performance"
)

type fakeRepo struct {
	nextID       int64
	sessions     map[int64]*tracking.SessionRecord
	interactions []*tracking.InteractionRecord
	failCreate   bool
	failStore    bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{sessions: make(map[int64]*tracking.SessionRecord)}
}

func (r *fakeRepo) CreateSession(userID string, materialID int64, startedAt time.Time) (int64, error) {
	if r.failCreate {
		return 0, errors.New("insert failed")
	}
	r.nextID++
	r.sessions[r.nextID] = &tracking.SessionRecord{
		ID:         r.nextID,
		MaterialID: materialID,
		UserID:     userID,
		Status:     tracking.StatusActive,
		StartedAt:  startedAt,
	}
	return r.nextID, nil
}

func (r *fakeRepo) UpdateSession(sessionID int64, status tracking.Status, progress float64, durationSeconds int64, at time.Time) error {
	rec, ok := r.sessions[sessionID]
	if !ok {
		return errors.New("no such session")
	}
	rec.Status = status
	rec.ProgressPercentage = progress
	rec.DurationSeconds = durationSeconds
	rec.LastEventAt = at
	return nil
}

func (r *fakeRepo) GetSession(sessionID int64) (*tracking.SessionRecord, error) {
	return r.sessions[sessionID], nil
}

func (r *fakeRepo) StoreInteraction(rec *tracking.InteractionRecord) error {
	if r.failStore {
		return errors.New("insert failed")
	}
	r.interactions = append(r.interactions, rec)
	return nil
}

func (r *fakeRepo) GetMaterialAnalytics(materialID int64) (*tracking.MaterialAnalytics, error) {
	return &tracking.MaterialAnalytics{MaterialID: materialID}, nil
}

func (r *fakeRepo) ListSessionsByMaterial(materialID int64) ([]*tracking.SessionRecord, error) {
	var out []*tracking.SessionRecord
	for _, rec := range r.sessions {
		if rec.MaterialID == materialID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListInteractionsBySession(sessionID int64) ([]*tracking.InteractionRecord, error) {
	var out []*tracking.InteractionRecord
	for _, rec := range r.interactions {
		if rec.SessionID == sessionID {
			out = append(out, rec)
		}
	}
	return out, nil
}

type fakeBroadcaster struct {
	events []messaging.MonitorEvent
}

func (b *fakeBroadcaster) BroadcastEvent(evt messaging.MonitorEvent) {
	b.events = append(b.events, evt)
}

func (b *fakeBroadcaster) ClientCount() int { return 0 }

func newTestTrackingService(t *testing.T) (*TrackingService, *fakeRepo, *fakeBroadcaster) {
	t.Helper()
	logger, err := logging.NewChanneledLogger(logging.TestLoggerConfig())
	require.NoError(t, err)

	repo := newFakeRepo()
	broadcaster := &fakeBroadcaster{}
	svc := NewTrackingService(logger, performance.NewTracker(nil), repo, broadcaster)
	return svc, repo, broadcaster
}

func TestProcessEventStartOpensSession(t *testing.T) {
	svc, repo, broadcaster := newTestTrackingService(t)

	result := svc.ProcessEvent("learner-1", user.RoleLearner, tracking.Event{
		MaterialID: 5,
		Action:     tracking.ActionStart,
	})

	require.True(t, result.Success, result.Error)
	assert.Equal(t, int64(1), result.SessionID)
	assert.Equal(t, string(tracking.StatusActive), result.Status)

	require.Len(t, repo.interactions, 1)
	assert.Equal(t, tracking.ActionStart, repo.interactions[0].Action)
	assert.Equal(t, "learner-1", repo.interactions[0].UserID)
	assert.NotEmpty(t, repo.interactions[0].ID)

	require.Len(t, broadcaster.events, 1)
	assert.Equal(t, "start", broadcaster.events[0].Action)
}

func TestProcessEventUpdatesExistingSession(t *testing.T) {
	svc, repo, _ := newTestTrackingService(t)

	start := svc.ProcessEvent("learner-1", user.RoleLearner, tracking.Event{
		MaterialID: 5,
		Action:     tracking.ActionStart,
	})
	require.True(t, start.Success)

	result := svc.ProcessEvent("learner-1", user.RoleLearner, tracking.Event{
		SessionID:          start.SessionID,
		MaterialID:         5,
		Action:             tracking.ActionPause,
		ProgressPercentage: 40,
		DurationSeconds:    120,
	})

	require.True(t, result.Success, result.Error)
	assert.Equal(t, start.SessionID, result.SessionID)
	assert.Equal(t, string(tracking.StatusPaused), result.Status)

	session := repo.sessions[start.SessionID]
	assert.Equal(t, tracking.StatusPaused, session.Status)
	assert.Equal(t, 40.0, session.ProgressPercentage)
	assert.Equal(t, int64(120), session.DurationSeconds)
	assert.Len(t, repo.interactions, 2)
}

func TestProcessEventStatusMapping(t *testing.T) {
	cases := map[tracking.Action]tracking.Status{
		tracking.ActionStart:    tracking.StatusActive,
		tracking.ActionResume:   tracking.StatusActive,
		tracking.ActionSeek:     tracking.StatusActive,
		tracking.ActionPause:    tracking.StatusPaused,
		tracking.ActionComplete: tracking.StatusCompleted,
		tracking.ActionAbandon:  tracking.StatusAbandoned,
	}

	for action, want := range cases {
		assert.Equal(t, want, statusForAction(action), string(action))
	}
}

func TestProcessEventUnknownSessionFailsSoft(t *testing.T) {
	svc, repo, _ := newTestTrackingService(t)

	result := svc.ProcessEvent("learner-1", user.RoleLearner, tracking.Event{
		SessionID:          777,
		MaterialID:         5,
		Action:             tracking.ActionSeek,
		ProgressPercentage: 60,
	})

	require.True(t, result.Success, result.Error)
	assert.NotEqual(t, int64(777), result.SessionID, "stale client id replaced with a fresh session")
	assert.NotNil(t, repo.sessions[result.SessionID])
}

func TestProcessEventRejectsInvalidInput(t *testing.T) {
	svc, repo, _ := newTestTrackingService(t)

	result := svc.ProcessEvent("learner-1", user.RoleLearner, tracking.Event{
		MaterialID: 5,
		Action:     tracking.Action("rewind"),
	})
	assert.False(t, result.Success)

	result = svc.ProcessEvent("learner-1", user.RoleLearner, tracking.Event{
		MaterialID: 0,
		Action:     tracking.ActionStart,
	})
	assert.False(t, result.Success)

	result = svc.ProcessEvent("prof-1", user.RoleProfessor, tracking.Event{
		MaterialID: 5,
		Action:     tracking.ActionStart,
	})
	assert.False(t, result.Success, "non-learner roles do not produce telemetry")

	assert.Empty(t, repo.interactions)
}

func TestProcessEventClampsProgress(t *testing.T) {
	svc, repo, _ := newTestTrackingService(t)

	result := svc.ProcessEvent("learner-1", user.RoleLearner, tracking.Event{
		MaterialID:         5,
		Action:             tracking.ActionStart,
		ProgressPercentage: 130,
	})

	require.True(t, result.Success)
	assert.Equal(t, 100.0, repo.interactions[0].ProgressPercentage)
}

func TestProcessEventRepoFailure(t *testing.T) {
	svc, repo, broadcaster := newTestTrackingService(t)
	repo.failCreate = true

	result := svc.ProcessEvent("learner-1", user.RoleLearner, tracking.Event{
		MaterialID: 5,
		Action:     tracking.ActionStart,
	})

	assert.False(t, result.Success)
	assert.Empty(t, broadcaster.events, "nothing broadcast on persistence failure")
}
