package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DSR124124/edugen-tracking-go/internal/domain/tracking"
	"github.com/DSR124124/edugen-tracking-go/internal/infrastructure/observability/logging"
	"github.com/DSR124124/edugen-tracking-go/internal/infrastructure/observability/performance"
)

func newTestAnalyticsService(t *testing.T) (*AnalyticsService, *fakeRepo) {
	t.Helper()
	logger, err := logging.NewChanneledLogger(logging.TestLoggerConfig())
	require.NoError(t, err)

	repo := newFakeRepo()
	return NewAnalyticsService(logger, performance.NewTracker(nil), repo), repo
}

func TestGetMaterialAnalytics(t *testing.T) {
	svc, _ := newTestAnalyticsService(t)

	result := svc.GetMaterialAnalytics(5)
	require.True(t, result.Success)
	assert.Equal(t, int64(5), result.Analytics.MaterialID)

	result = svc.GetMaterialAnalytics(0)
	assert.False(t, result.Success)
}

func TestListMaterialSessions(t *testing.T) {
	svc, repo := newTestAnalyticsService(t)

	_, err := repo.CreateSession("learner-1", 5, time.Now())
	require.NoError(t, err)
	_, err = repo.CreateSession("learner-2", 5, time.Now())
	require.NoError(t, err)
	_, err = repo.CreateSession("learner-1", 9, time.Now())
	require.NoError(t, err)

	result := svc.ListMaterialSessions(5)
	require.True(t, result.Success)
	assert.Len(t, result.Sessions, 2)

	result = svc.ListMaterialSessions(123)
	require.True(t, result.Success)
	assert.NotNil(t, result.Sessions, "empty result is an empty list, not null")
	assert.Empty(t, result.Sessions)
}

func TestListSessionInteractions(t *testing.T) {
	svc, repo := newTestAnalyticsService(t)

	require.NoError(t, repo.StoreInteraction(&tracking.InteractionRecord{
		ID: "01A", SessionID: 1, Action: tracking.ActionStart,
	}))
	require.NoError(t, repo.StoreInteraction(&tracking.InteractionRecord{
		ID: "01B", SessionID: 1, Action: tracking.ActionComplete,
	}))
	require.NoError(t, repo.StoreInteraction(&tracking.InteractionRecord{
		ID: "01C", SessionID: 2, Action: tracking.ActionStart,
	}))

	result := svc.ListSessionInteractions(1)
	require.True(t, result.Success)
	assert.Len(t, result.Interactions, 2)

	result = svc.ListSessionInteractions(0)
	assert.False(t, result.Success)
}
