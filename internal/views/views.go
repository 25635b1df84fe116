// Package views holds the state behind each screen of the app: what was
// fetched, whether a fetch is running and the text derived for display.
// A failed fetch is logged and leaves the previously loaded state in place.
package views

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/janyksteenbeek/uppi-mobile-app/internal/models"
)

// ShortTimeLayout renders timestamps on detail screens, e.g. "Mar 4, 09:15".
const ShortTimeLayout = "Jan 2, 15:04"

// ChartTimeLayout labels response time chart points.
const ChartTimeLayout = "15:04"

// MonitorSource is the part of the API the monitor screens read from.
type MonitorSource interface {
	GetMonitors(ctx context.Context) ([]models.Monitor, error)
	GetMonitor(ctx context.Context, id string) (*models.Monitor, error)
}

// AnomalySource is the part of the API the history screens read from.
type AnomalySource interface {
	GetAnomalies(ctx context.Context, page int) (*models.Page[models.Anomaly], error)
	GetAnomaly(ctx context.Context, id string) (*models.Anomaly, error)
}

// ProfileSource fetches the signed-in user's profile.
type ProfileSource interface {
	GetProfile(ctx context.Context) (*models.Profile, error)
}

// Clock returns the current time. Views use it for relative times.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

func formatShort(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(ShortTimeLayout)
}

func formatMillis(ms int) string {
	return humanize.Comma(int64(ms)) + "ms"
}
