package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janyksteenbeek/uppi-mobile-app/internal/models"
)

const monitorPayload = `{
	"id": "01HQ",
	"type": "tcp",
	"address": "db.example.com",
	"port": 5432,
	"name": "Database",
	"interval": 1,
	"consecutive_threshold": 3,
	"status": "fail",
	"checks": [
		{"id": "c3", "status": "fail", "response_time": null, "output": "timeout", "checked_at": "2024-01-01T00:02:00.000000Z"},
		{"id": "c2", "status": "ok", "response_time": 40, "output": "ok", "checked_at": "2024-01-01T00:01:00.000000Z"},
		{"id": "c1", "status": "ok", "response_time": 35, "output": "ok", "checked_at": "2024-01-01T00:00:00.000000Z"}
	],
	"anomalies": [
		{"id": "a1", "monitor_id": "01HQ", "started_at": "2024-01-01T00:02:00.000000Z", "ended_at": null}
	]
}`

func TestMonitorDecodeAndHelpers(t *testing.T) {
	var m models.Monitor
	require.NoError(t, json.Unmarshal([]byte(monitorPayload), &m))

	assert.Equal(t, models.MonitorTypeTCP, m.Type)
	assert.Equal(t, "db.example.com:5432", m.Target())
	assert.True(t, m.IsFailing())

	last := m.LastCheck()
	require.NotNil(t, last)
	assert.Equal(t, "c3", last.ID)
	assert.Equal(t, models.StatusFail, m.DisplayStatus())

	series := m.ResponseTimeSeries()
	require.Len(t, series, 3)
	assert.Equal(t, 35, series[0].Milliseconds)
	assert.Equal(t, 40, series[1].Milliseconds)
	assert.Equal(t, 0, series[2].Milliseconds)
	assert.True(t, series[0].At.Before(series[2].At))

	now := time.Date(2024, 1, 1, 0, 7, 0, 0, time.UTC)
	assert.Equal(t, "5 minutes ago", m.DownSince(now))
}

func TestMonitorTargetWithoutPort(t *testing.T) {
	m := models.Monitor{Address: "https://example.com"}
	assert.Equal(t, "https://example.com", m.Target())
	assert.Nil(t, m.LastCheck())
}

func TestMonitorDownSince_Healthy(t *testing.T) {
	m := models.Monitor{
		Status:    models.StatusOK,
		Anomalies: []models.Anomaly{{StartedAt: models.NewTimestamp(time.Now())}},
	}
	assert.Empty(t, m.DownSince(time.Now()))
}

func TestPageHasNextPage(t *testing.T) {
	next := "https://uppi.dev/api/anomalies?page=2"
	empty := ""

	assert.True(t, (&models.Page[models.Anomaly]{NextPageURL: &next}).HasNextPage())
	assert.False(t, (&models.Page[models.Anomaly]{NextPageURL: &empty}).HasNextPage())
	assert.False(t, (&models.Page[models.Anomaly]{}).HasNextPage())
}

func TestProfileHelpers(t *testing.T) {
	var p models.Profile
	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","name":"Ada Lovelace","email":"ada@example.com","email_verified_at":null,"is_admin":true}`), &p))

	assert.False(t, p.IsVerified())
	assert.True(t, p.IsAdmin)
	assert.Equal(t, "https://eu.ui-avatars.com/api/?background=random&name=Ada+Lovelace", p.AvatarURL())
}

func TestMonitorDownSince_FollowsLatestCheck(t *testing.T) {
	started := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := models.Monitor{
		Status:    models.StatusOK,
		Checks:    []models.Check{{ID: "c1", Status: models.StatusFail, CheckedAt: models.NewTimestamp(started)}},
		Anomalies: []models.Anomaly{{StartedAt: models.NewTimestamp(started)}},
	}

	assert.Equal(t, models.StatusFail, m.DisplayStatus())
	assert.True(t, m.IsFailing())
	assert.Equal(t, "3 minutes ago", m.DownSince(started.Add(3*time.Minute)))
}
