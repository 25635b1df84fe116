package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/janyksteenbeek/uppi-mobile-app/internal/models"
)

func names(monitors []models.Monitor) []string {
	out := make([]string, 0, len(monitors))
	for _, m := range monitors {
		out = append(out, m.Name)
	}
	return out
}

func TestSortMonitorsForDisplay(t *testing.T) {
	tests := []struct {
		name     string
		monitors []models.Monitor
		expected []string
	}{
		{
			name: "failing_first_then_by_name",
			monitors: []models.Monitor{
				{Name: "b", Status: models.StatusOK},
				{Name: "a", Status: models.StatusFail},
				{Name: "c", Status: models.StatusFail},
			},
			expected: []string{"a", "c", "b"},
		},
		{
			name: "case_insensitive_primary_order",
			monitors: []models.Monitor{
				{Name: "cherry", Status: models.StatusOK},
				{Name: "Banana", Status: models.StatusOK},
				{Name: "apple", Status: models.StatusOK},
			},
			expected: []string{"apple", "Banana", "cherry"},
		},
		{
			name: "accented_letters_sort_with_base_letter",
			monitors: []models.Monitor{
				{Name: "Zebra", Status: models.StatusFail},
				{Name: "Äpfel", Status: models.StatusFail},
			},
			expected: []string{"Äpfel", "Zebra"},
		},
		{
			name:     "empty",
			monitors: nil,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sorted := models.SortMonitorsForDisplay(tt.monitors, language.English)
			assert.Equal(t, tt.expected, names(sorted))
		})
	}
}

func TestSortMonitorsForDisplay_DoesNotMutateInput(t *testing.T) {
	input := []models.Monitor{
		{Name: "b", Status: models.StatusOK},
		{Name: "a", Status: models.StatusFail},
	}

	_ = models.SortMonitorsForDisplay(input, language.English)

	assert.Equal(t, []string{"b", "a"}, names(input))
}

func TestSortAnomaliesByPrecedence(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ended := models.NewTimestamp(base.Add(3 * time.Hour))

	anomalies := []models.Anomaly{
		{ID: "old-resolved", StartedAt: models.NewTimestamp(base), EndedAt: &ended},
		{ID: "ongoing", StartedAt: models.NewTimestamp(base.Add(time.Hour))},
		{ID: "new-resolved", StartedAt: models.NewTimestamp(base.Add(2 * time.Hour)), EndedAt: &ended},
	}

	sorted := models.SortAnomaliesByPrecedence(anomalies)

	ids := []string{sorted[0].ID, sorted[1].ID, sorted[2].ID}
	assert.Equal(t, []string{"ongoing", "new-resolved", "old-resolved"}, ids)

	active := models.ActiveAnomaly(anomalies)
	require.NotNil(t, active)
	assert.Equal(t, "ongoing", active.ID)
	assert.Nil(t, models.ActiveAnomaly(nil))
}

func TestSortMonitorsForDisplay_LatestCheckDecidesFailing(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	monitors := []models.Monitor{
		{Name: "a", Status: models.StatusOK},
		{Name: "b", Status: models.StatusOK,
			Checks: []models.Check{{ID: "c1", Status: models.StatusFail, CheckedAt: models.NewTimestamp(at)}}},
		{Name: "c", Status: models.StatusFail,
			Checks: []models.Check{{ID: "c2", Status: models.StatusOK, CheckedAt: models.NewTimestamp(at)}}},
	}

	sorted := models.SortMonitorsForDisplay(monitors, language.English)

	assert.Equal(t, []string{"b", "a", "c"}, names(sorted))
	for _, m := range sorted {
		assert.Equal(t, m.DisplayStatus() == models.StatusFail, m.IsFailing(), m.Name)
	}
}
