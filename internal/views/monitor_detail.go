package views

import (
	"context"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/janyksteenbeek/uppi-mobile-app/internal/models"
)

// ChartPoint is one labelled response time sample.
type ChartPoint struct {
	Label        string
	Milliseconds int
}

// CheckRow is one entry of the recent checks list, most recent first.
type CheckRow struct {
	Status       models.Status
	CheckedAt    string
	ResponseTime string
	Output       string
}

// MonitorDetail backs the screen for a single monitor.
type MonitorDetail struct {
	id     string
	source MonitorSource
	clock  Clock
	logger *logrus.Logger

	mu      sync.RWMutex
	monitor *models.Monitor
}

// NewMonitorDetail creates a MonitorDetail for the monitor with id.
func NewMonitorDetail(id string, source MonitorSource, clock Clock, logger *logrus.Logger) *MonitorDetail {
	return &MonitorDetail{
		id:     id,
		source: source,
		clock:  clock,
		logger: logger,
	}
}

// Load fetches the monitor with its recent checks and anomalies.
func (v *MonitorDetail) Load(ctx context.Context) error {
	monitor, err := v.source.GetMonitor(ctx, v.id)
	if err != nil {
		v.logger.WithError(err).WithField("monitor_id", v.id).Error("Failed to load monitor")
		return err
	}

	v.mu.Lock()
	v.monitor = monitor
	v.mu.Unlock()
	return nil
}

// Monitor returns the loaded monitor, or nil before the first successful Load.
func (v *MonitorDetail) Monitor() *models.Monitor {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.monitor
}

// TypeLabel is the monitor type in upper case, e.g. "HTTP".
func (v *MonitorDetail) TypeLabel() string {
	m := v.Monitor()
	if m == nil {
		return ""
	}
	return strings.ToUpper(string(m.Type))
}

// LastCheckText renders when the most recent check ran, or "" without checks.
func (v *MonitorDetail) LastCheckText() string {
	m := v.Monitor()
	if m == nil {
		return ""
	}
	last := m.LastCheck()
	if last == nil {
		return ""
	}
	return formatShort(last.CheckedAt.Time)
}

// DownSince describes the ongoing outage, or "" while healthy.
func (v *MonitorDetail) DownSince() string {
	m := v.Monitor()
	if m == nil {
		return ""
	}
	return m.DownSince(v.clock.now())
}

// Chart returns the response time series oldest first.
func (v *MonitorDetail) Chart() []ChartPoint {
	m := v.Monitor()
	if m == nil {
		return nil
	}
	series := m.ResponseTimeSeries()
	points := make([]ChartPoint, 0, len(series))
	for _, p := range series {
		points = append(points, ChartPoint{
			Label:        p.At.Local().Format(ChartTimeLayout),
			Milliseconds: p.Milliseconds,
		})
	}
	return points
}

// Checks renders the embedded checks, most recent first.
func (v *MonitorDetail) Checks() []CheckRow {
	m := v.Monitor()
	if m == nil {
		return nil
	}
	rows := make([]CheckRow, 0, len(m.Checks))
	for _, c := range m.Checks {
		row := CheckRow{
			Status:    c.Status,
			CheckedAt: formatShort(c.CheckedAt.Time),
			Output:    c.Output,
		}
		if c.ResponseTime != nil {
			row.ResponseTime = formatMillis(*c.ResponseTime)
		}
		rows = append(rows, row)
	}
	return rows
}

// ActiveAnomaly returns the anomaly shown at the top of the screen, or nil.
func (v *MonitorDetail) ActiveAnomaly() *models.Anomaly {
	m := v.Monitor()
	if m == nil {
		return nil
	}
	return models.ActiveAnomaly(m.Anomalies)
}
