package views_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/janyksteenbeek/uppi-mobile-app/internal/models"
	"github.com/janyksteenbeek/uppi-mobile-app/internal/views"
)

var (
	errAPI  = errors.New("api down")
	fixedAt = time.Date(2025, 3, 4, 12, 0, 0, 0, time.UTC)
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func fixedClock() views.Clock {
	return func() time.Time { return fixedAt }
}

func ts(t time.Time) models.Timestamp {
	return models.NewTimestamp(t)
}

func tsPtr(t time.Time) *models.Timestamp {
	v := models.NewTimestamp(t)
	return &v
}

func intPtr(v int) *int {
	return &v
}

func strPtr(v string) *string {
	return &v
}

// fakeAPI serves canned responses for every view source.
type fakeAPI struct {
	mu        sync.Mutex
	monitors  []models.Monitor
	monitor   *models.Monitor
	pages     map[int]*models.Page[models.Anomaly]
	anomaly   *models.Anomaly
	profile   *models.Profile
	err       error
	pageCalls []int
}

func (f *fakeAPI) failWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeAPI) GetMonitors(context.Context) ([]models.Monitor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.monitors, nil
}

func (f *fakeAPI) GetMonitor(_ context.Context, id string) (*models.Monitor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.monitor == nil || f.monitor.ID != id {
		return nil, models.NewAPIError(models.ErrRequestFailed, "/monitors/"+id, 404)
	}
	return f.monitor, nil
}

func (f *fakeAPI) GetAnomalies(_ context.Context, page int) (*models.Page[models.Anomaly], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pageCalls = append(f.pageCalls, page)
	if f.err != nil {
		return nil, f.err
	}
	return f.pages[page], nil
}

func (f *fakeAPI) GetAnomaly(_ context.Context, id string) (*models.Anomaly, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.anomaly == nil || f.anomaly.ID != id {
		return nil, models.NewAPIError(models.ErrRequestFailed, "/anomalies/"+id, 404)
	}
	return f.anomaly, nil
}

func (f *fakeAPI) GetProfile(context.Context) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}
