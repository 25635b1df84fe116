package models

import (
	"math"
	"strconv"
	"time"
)

// TriggerType tells whether a trigger announced an outage or a recovery.
type TriggerType string

const (
	TriggerDown TriggerType = "down"
	TriggerUp   TriggerType = "up"
)

// Anomaly is a contiguous span during which a Monitor was failing.
// A nil EndedAt means the anomaly is still ongoing.
type Anomaly struct {
	ID        string     `json:"id"`
	MonitorID string     `json:"monitor_id"`
	StartedAt Timestamp  `json:"started_at"`
	EndedAt   *Timestamp `json:"ended_at"`
	Monitor   *Monitor   `json:"monitor,omitempty"`
	Checks    []Check    `json:"checks,omitempty"`
	Triggers  []Trigger  `json:"triggers,omitempty"`
}

// Trigger is a notification-worthy event tied to an Anomaly.
type Trigger struct {
	ID               string          `json:"id"`
	Type             TriggerType     `json:"type"`
	ChannelsNotified []string        `json:"channels_notified"`
	Metadata         TriggerMetadata `json:"metadata"`
	TriggeredAt      Timestamp       `json:"triggered_at"`
	Alert            *Alert          `json:"alert,omitempty"`
}

// TriggerMetadata snapshots the monitor at trigger time.
type TriggerMetadata struct {
	MonitorName   string `json:"monitor_name"`
	MonitorTarget string `json:"monitor_target"`
}

// Alert is a notification channel configuration.
type Alert struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Destination string `json:"destination"`
	IsEnabled   bool   `json:"is_enabled"`
}

// OngoingLabel is shown instead of a duration for anomalies without an end.
const OngoingLabel = "Ongoing"

// IsOngoing reports whether the anomaly has not ended yet.
func (a *Anomaly) IsOngoing() bool {
	return a.EndedAt == nil
}

// StatusLabel is "Active" while ongoing and "Resolved" afterwards.
func (a *Anomaly) StatusLabel() string {
	if a.IsOngoing() {
		return "Active"
	}
	return "Resolved"
}

// Duration returns the elapsed time between start and end, and false while ongoing.
func (a *Anomaly) Duration() (time.Duration, bool) {
	if a.IsOngoing() {
		return 0, false
	}
	return a.EndedAt.Sub(a.StartedAt.Time), true
}

// DurationText renders the anomaly duration as a strict distance ("1 hour",
// "45 minutes"), or OngoingLabel when the anomaly has not ended.
func (a *Anomaly) DurationText() string {
	d, ok := a.Duration()
	if !ok {
		return OngoingLabel
	}
	return StrictDistance(d)
}

const (
	minutesInDay   = 1440
	minutesInMonth = 43200
	minutesInYear  = 525600
)

// StrictDistance renders d in a single unit, picking the largest unit below
// which d falls and rounding to the nearest whole value:
// seconds under a minute, minutes under an hour, hours under a day,
// days under 30 days, months under a year, then years.
func StrictDistance(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	seconds := d.Seconds()
	minutes := seconds / 60

	switch {
	case minutes < 1:
		return plural(math.Round(seconds), "second")
	case minutes < 60:
		return plural(math.Round(minutes), "minute")
	case minutes < minutesInDay:
		return plural(math.Round(minutes/60), "hour")
	case minutes < minutesInMonth:
		return plural(math.Round(minutes/minutesInDay), "day")
	case minutes < minutesInYear:
		months := math.Round(minutes / minutesInMonth)
		if months == 12 {
			return plural(1, "year")
		}
		return plural(months, "month")
	default:
		return plural(math.Round(minutes/minutesInYear), "year")
	}
}

func plural(n float64, unit string) string {
	v := int64(n)
	if v == 1 {
		return "1 " + unit
	}
	return strconv.FormatInt(v, 10) + " " + unit + "s"
}
