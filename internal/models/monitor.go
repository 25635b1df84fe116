// Package models contains the read projections of Uppi server state, the
// display policies computed from them and the client error taxonomy.
package models

import (
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
)

// MonitorType is the protocol a monitor probes with.
type MonitorType string

const (
	MonitorTypeHTTP MonitorType = "http"
	MonitorTypeTCP  MonitorType = "tcp"
)

// Status is the outcome of the most recent check of a monitor, or of a single check.
type Status string

const (
	StatusOK   Status = "ok"
	StatusFail Status = "fail"
)

// Monitor is a configured network target periodically checked for availability.
type Monitor struct {
	ID                   string      `json:"id"`
	Type                 MonitorType `json:"type"`
	Address              string      `json:"address"`
	Port                 *int        `json:"port"`
	Name                 string      `json:"name"`
	Interval             int         `json:"interval"`
	ConsecutiveThreshold int         `json:"consecutive_threshold"`
	Status               Status      `json:"status"`
	LastCheckedAt        *Timestamp  `json:"last_checked_at,omitempty"`
	// Checks are ordered most recent first.
	Checks []Check `json:"checks,omitempty"`
	// Anomalies are ordered most recent first.
	Anomalies []Anomaly `json:"anomalies,omitempty"`
}

// Check is one probe result for a Monitor.
type Check struct {
	ID           string    `json:"id"`
	MonitorID    string    `json:"monitor_id"`
	Status       Status    `json:"status"`
	ResponseTime *int      `json:"response_time"`
	ResponseCode *int      `json:"response_code,omitempty"`
	Output       string    `json:"output"`
	CheckedAt    Timestamp `json:"checked_at"`
}

// ResponseTimePoint is one point of a monitor's response time series.
type ResponseTimePoint struct {
	At           time.Time
	Milliseconds int
}

// IsFailing reports whether the monitor's current status, as given by
// DisplayStatus, indicates failure.
func (m *Monitor) IsFailing() bool {
	return m.DisplayStatus() == StatusFail
}

// Target renders address[:port].
func (m *Monitor) Target() string {
	if m.Port == nil {
		return m.Address
	}
	return m.Address + ":" + strconv.Itoa(*m.Port)
}

// LastCheck returns the most recent embedded check, or nil when none are embedded.
func (m *Monitor) LastCheck() *Check {
	if len(m.Checks) == 0 {
		return nil
	}
	return &m.Checks[0]
}

// DisplayStatus is the current status shown everywhere: the status of the
// most recent embedded check, falling back to the status reported on the
// monitor when no checks are embedded.
func (m *Monitor) DisplayStatus() Status {
	if last := m.LastCheck(); last != nil && last.Status != "" {
		return last.Status
	}
	return m.Status
}

// DownSince describes how long ago the current outage started, e.g. "5 minutes ago".
// It returns "" for healthy monitors and monitors without an embedded anomaly.
func (m *Monitor) DownSince(now time.Time) string {
	if !m.IsFailing() || len(m.Anomalies) == 0 {
		return ""
	}
	return humanize.RelTime(m.Anomalies[0].StartedAt.Time, now, "ago", "from now")
}

// ResponseTimeSeries returns the embedded checks in chronological order.
// Checks without a response time contribute 0.
func (m *Monitor) ResponseTimeSeries() []ResponseTimePoint {
	points := make([]ResponseTimePoint, 0, len(m.Checks))
	for i := len(m.Checks) - 1; i >= 0; i-- {
		c := m.Checks[i]
		ms := 0
		if c.ResponseTime != nil {
			ms = *c.ResponseTime
		}
		points = append(points, ResponseTimePoint{At: c.CheckedAt.Time, Milliseconds: ms})
	}
	return points
}
