package views

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/janyksteenbeek/uppi-mobile-app/internal/models"
)

// TriggerRow is one notification event of an anomaly.
type TriggerRow struct {
	Type        models.TriggerType
	TriggeredAt string
	Channels    []string
	AlertName   string
}

// AnomalyDetail backs the screen for a single anomaly.
type AnomalyDetail struct {
	id     string
	source AnomalySource
	logger *logrus.Logger

	mu      sync.RWMutex
	anomaly *models.Anomaly
}

// NewAnomalyDetail creates an AnomalyDetail for the anomaly with id.
func NewAnomalyDetail(id string, source AnomalySource, logger *logrus.Logger) *AnomalyDetail {
	return &AnomalyDetail{id: id, source: source, logger: logger}
}

// Load fetches the anomaly with its monitor, checks and triggers.
func (v *AnomalyDetail) Load(ctx context.Context) error {
	anomaly, err := v.source.GetAnomaly(ctx, v.id)
	if err != nil {
		v.logger.WithError(err).WithField("anomaly_id", v.id).Error("Failed to load anomaly")
		return err
	}

	v.mu.Lock()
	v.anomaly = anomaly
	v.mu.Unlock()
	return nil
}

// Anomaly returns the loaded anomaly, or nil before the first successful Load.
func (v *AnomalyDetail) Anomaly() *models.Anomaly {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.anomaly
}

// StatusLabel is "Active" or "Resolved".
func (v *AnomalyDetail) StatusLabel() string {
	a := v.Anomaly()
	if a == nil {
		return ""
	}
	return a.StatusLabel()
}

// StartedText renders the start time.
func (v *AnomalyDetail) StartedText() string {
	a := v.Anomaly()
	if a == nil {
		return ""
	}
	return formatShort(a.StartedAt.Time)
}

// EndedText renders the end time, or the ongoing label.
func (v *AnomalyDetail) EndedText() string {
	a := v.Anomaly()
	if a == nil {
		return ""
	}
	if a.IsOngoing() {
		return models.OngoingLabel
	}
	return formatShort(a.EndedAt.Time)
}

// DurationText renders how long the anomaly lasted.
func (v *AnomalyDetail) DurationText() string {
	a := v.Anomaly()
	if a == nil {
		return ""
	}
	return a.DurationText()
}

// Triggers renders the notification events in server order.
func (v *AnomalyDetail) Triggers() []TriggerRow {
	a := v.Anomaly()
	if a == nil {
		return nil
	}
	rows := make([]TriggerRow, 0, len(a.Triggers))
	for _, t := range a.Triggers {
		row := TriggerRow{
			Type:        t.Type,
			TriggeredAt: formatShort(t.TriggeredAt.Time),
			Channels:    t.ChannelsNotified,
		}
		if t.Alert != nil {
			row.AlertName = t.Alert.Name
		}
		rows = append(rows, row)
	}
	return rows
}
