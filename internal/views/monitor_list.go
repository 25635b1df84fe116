package views

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"

	"github.com/janyksteenbeek/uppi-mobile-app/internal/models"
)

// MonitorRow is one line of the monitor list.
type MonitorRow struct {
	ID        string
	Name      string
	Type      string
	Target    string
	Status    models.Status
	Failing   bool
	DownSince string
}

// MonitorList backs the monitor overview: failing monitors first, then by name.
type MonitorList struct {
	source MonitorSource
	lang   language.Tag
	clock  Clock
	logger *logrus.Logger

	mu       sync.RWMutex
	monitors []models.Monitor
	loading  int
	loaded   bool
}

// NewMonitorList creates a MonitorList that collates names for lang.
func NewMonitorList(source MonitorSource, lang language.Tag, clock Clock, logger *logrus.Logger) *MonitorList {
	return &MonitorList{
		source: source,
		lang:   lang,
		clock:  clock,
		logger: logger,
	}
}

// Load fetches all monitors and replaces the list with them in display order.
func (v *MonitorList) Load(ctx context.Context) error {
	v.mu.Lock()
	v.loading++
	v.mu.Unlock()
	defer func() {
		v.mu.Lock()
		v.loading--
		v.mu.Unlock()
	}()

	monitors, err := v.source.GetMonitors(ctx)
	if err != nil {
		v.logger.WithError(err).Error("Failed to load monitors")
		return err
	}

	sorted := models.SortMonitorsForDisplay(monitors, v.lang)

	v.mu.Lock()
	v.monitors = sorted
	v.loaded = true
	v.mu.Unlock()

	v.logger.WithField("count", len(sorted)).Debug("Loaded monitors")
	return nil
}

// Refresh reloads the list.
func (v *MonitorList) Refresh(ctx context.Context) error {
	return v.Load(ctx)
}

// Monitors returns the monitors in display order.
func (v *MonitorList) Monitors() []models.Monitor {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return slices.Clone(v.monitors)
}

// Loading reports whether any fetch is in flight.
func (v *MonitorList) Loading() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.loading > 0
}

// Loaded reports whether at least one fetch succeeded.
func (v *MonitorList) Loaded() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.loaded
}

// Rows renders the current list.
func (v *MonitorList) Rows() []MonitorRow {
	monitors := v.Monitors()
	now := v.clock.now()

	rows := make([]MonitorRow, 0, len(monitors))
	for i := range monitors {
		m := &monitors[i]
		rows = append(rows, MonitorRow{
			ID:        m.ID,
			Name:      m.Name,
			Type:      strings.ToUpper(string(m.Type)),
			Target:    m.Target(),
			Status:    m.DisplayStatus(),
			Failing:   m.IsFailing(),
			DownSince: m.DownSince(now),
		})
	}
	return rows
}
