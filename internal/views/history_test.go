package views_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janyksteenbeek/uppi-mobile-app/internal/models"
	"github.com/janyksteenbeek/uppi-mobile-app/internal/views"
)

func historyAPI() *fakeAPI {
	web := &models.Monitor{ID: "m1", Name: "website", Address: "https://example.com"}
	return &fakeAPI{pages: map[int]*models.Page[models.Anomaly]{
		1: {
			CurrentPage: 1,
			NextPageURL: strPtr("https://uppi.dev/api/anomalies?page=2"),
			Data: []models.Anomaly{
				{ID: "a3", StartedAt: ts(fixedAt.Add(-10 * time.Minute)), Monitor: web},
				{ID: "a2", StartedAt: ts(fixedAt.Add(-3 * time.Hour)), EndedAt: tsPtr(fixedAt.Add(-2 * time.Hour))},
			},
		},
		2: {
			CurrentPage: 2,
			Data: []models.Anomaly{
				{ID: "a1", StartedAt: ts(fixedAt.Add(-72 * time.Hour)), EndedAt: tsPtr(fixedAt.Add(-71*time.Hour - 15*time.Minute))},
			},
		},
	}}
}

func TestHistory_LoadAndLoadMore(t *testing.T) {
	api := historyAPI()
	v := views.NewHistory(api, fixedClock(), testLogger())
	ctx := context.Background()

	require.NoError(t, v.Load(ctx))
	assert.True(t, v.HasMore())

	rows := v.Rows()
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Ongoing)
	assert.Equal(t, "website", rows[0].MonitorName)
	assert.Equal(t, "https://example.com", rows[0].Target)
	assert.Equal(t, "10 minutes ago", rows[0].StartedAgo)
	assert.Equal(t, models.OngoingLabel, rows[0].Duration)
	assert.Equal(t, "3 hours ago", rows[1].StartedAgo)
	assert.Equal(t, "1 hour", rows[1].Duration)
	assert.Empty(t, rows[1].MonitorName)

	require.NoError(t, v.LoadMore(ctx))
	assert.False(t, v.HasMore())
	assert.False(t, v.LoadingMore())

	rows = v.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, "a1", rows[2].ID)
	assert.Equal(t, "45 minutes", rows[2].Duration)

	// no further page: nothing is requested
	require.NoError(t, v.LoadMore(ctx))
	assert.Equal(t, []int{1, 2}, api.pageCalls)
}

func TestHistory_RefreshReplacesList(t *testing.T) {
	api := historyAPI()
	v := views.NewHistory(api, fixedClock(), testLogger())
	ctx := context.Background()

	require.NoError(t, v.Load(ctx))
	require.NoError(t, v.LoadMore(ctx))
	require.Len(t, v.Anomalies(), 3)

	require.NoError(t, v.Refresh(ctx))
	assert.Len(t, v.Anomalies(), 2)
	assert.True(t, v.HasMore())
}

func TestHistory_LoadErrorKeepsItems(t *testing.T) {
	api := historyAPI()
	v := views.NewHistory(api, fixedClock(), testLogger())
	ctx := context.Background()

	require.NoError(t, v.Load(ctx))
	api.failWith(errAPI)

	assert.ErrorIs(t, v.Refresh(ctx), errAPI)
	assert.Len(t, v.Anomalies(), 2)
}
