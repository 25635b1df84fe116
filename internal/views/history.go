package views

import (
	"context"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/janyksteenbeek/uppi-mobile-app/internal/models"
	"github.com/janyksteenbeek/uppi-mobile-app/internal/pagination"
)

// HistoryRow is one anomaly in the history list.
type HistoryRow struct {
	ID          string
	MonitorName string
	Target      string
	Ongoing     bool
	StartedAgo  string
	Duration    string
}

// History backs the infinite-scroll anomaly history.
type History struct {
	pager *pagination.Pager[models.Anomaly]
	clock Clock
}

// NewHistory creates a History reading pages from source.
func NewHistory(source AnomalySource, clock Clock, logger *logrus.Logger) *History {
	return &History{
		pager: pagination.New[models.Anomaly](source.GetAnomalies, logger),
		clock: clock,
	}
}

// Load fetches the first page.
func (v *History) Load(ctx context.Context) error {
	return v.pager.LoadFirstPage(ctx)
}

// Refresh replaces the list with a fresh first page.
func (v *History) Refresh(ctx context.Context) error {
	return v.pager.Refresh(ctx)
}

// LoadMore appends the next page when there is one and no append is running.
func (v *History) LoadMore(ctx context.Context) error {
	return v.pager.LoadNextPage(ctx)
}

// HasMore reports whether another page can be loaded.
func (v *History) HasMore() bool {
	return v.pager.HasNextPage()
}

// LoadingMore reports whether an append is in flight.
func (v *History) LoadingMore() bool {
	return v.pager.LoadingMore()
}

// Anomalies returns the accumulated anomalies in server order.
func (v *History) Anomalies() []models.Anomaly {
	return v.pager.Items()
}

// Rows renders the accumulated anomalies.
func (v *History) Rows() []HistoryRow {
	items := v.pager.Items()
	now := v.clock.now()

	rows := make([]HistoryRow, 0, len(items))
	for i := range items {
		a := &items[i]
		row := HistoryRow{
			ID:         a.ID,
			Ongoing:    a.IsOngoing(),
			StartedAgo: humanize.RelTime(a.StartedAt.Time, now, "ago", "from now"),
			Duration:   a.DurationText(),
		}
		if a.Monitor != nil {
			row.MonitorName = a.Monitor.Name
			row.Target = a.Monitor.Target()
		}
		rows = append(rows, row)
	}
	return rows
}
