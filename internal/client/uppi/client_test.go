package uppi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janyksteenbeek/uppi-mobile-app/internal/client"
	"github.com/janyksteenbeek/uppi-mobile-app/internal/client/uppi"
	"github.com/janyksteenbeek/uppi-mobile-app/internal/constants"
	"github.com/janyksteenbeek/uppi-mobile-app/internal/models"
	"github.com/janyksteenbeek/uppi-mobile-app/internal/storage"
)

func setupUppiClient(t *testing.T, handler http.HandlerFunc, token string) *uppi.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	store := storage.NewMemoryStore(logger)
	if token != "" {
		require.NoError(t, store.Set(context.Background(), constants.StorageKeyAuthToken, token))
	}

	baseClient := client.NewBaseClient(server.URL, 10*time.Second, logger, nil)
	session := client.NewSession(store, baseClient, constants.UserAgentApple, logger, nil)
	return uppi.NewClient(client.NewAuthClient(baseClient, session), logger)
}

func TestClient_GetProfile(t *testing.T) {
	c := setupUppiClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, uppi.PathProfile, r.URL.Path)
		assert.Equal(t, "Bearer 1|abc", r.Header.Get(constants.HeaderAuthorization))

		_, _ = w.Write([]byte(`{"id":"01H","name":"Ada","email":"ada@example.com","email_verified_at":"2024-01-01T00:00:00.000000Z","is_admin":false}`))
	}, "1|abc")

	profile, err := c.GetProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.Name)
	assert.True(t, profile.IsVerified())
}

func TestClient_GetMonitors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "bare_array", body: `[{"id":"1","name":"b","status":"ok"},{"id":"2","name":"a","status":"fail"}]`},
		{name: "data_envelope", body: `{"data":[{"id":"1","name":"b","status":"ok"},{"id":"2","name":"a","status":"fail"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := setupUppiClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, uppi.PathMonitors, r.URL.Path)
				_, _ = w.Write([]byte(tt.body))
			}, "1|abc")

			monitors, err := c.GetMonitors(context.Background())
			require.NoError(t, err)
			require.Len(t, monitors, 2)
			// server order is kept
			assert.Equal(t, "b", monitors[0].Name)
			assert.Equal(t, models.StatusFail, monitors[1].Status)
		})
	}
}

func TestClient_GetMonitor(t *testing.T) {
	c := setupUppiClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/monitors/01HQ", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"01HQ","name":"API","type":"http","address":"https://example.com","status":"ok","checks":[{"id":"c1","status":"ok","response_time":12,"checked_at":"2024-01-01T00:00:00Z"}]}`))
	}, "1|abc")

	monitor, err := c.GetMonitor(context.Background(), "01HQ")
	require.NoError(t, err)
	assert.Equal(t, "API", monitor.Name)
	require.NotNil(t, monitor.LastCheck())
	assert.Equal(t, "c1", monitor.LastCheck().ID)
}

func TestClient_GetAnomalies(t *testing.T) {
	c := setupUppiClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, uppi.PathAnomalies, r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))

		page := map[string]interface{}{
			"current_page":  2,
			"data":          []map[string]interface{}{{"id": "a3", "started_at": "2024-01-01T00:00:00Z", "ended_at": nil}},
			"next_page_url": nil,
			"per_page":      15,
			"total":         16,
		}
		_ = json.NewEncoder(w).Encode(page)
	}, "1|abc")

	page, err := c.GetAnomalies(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, page.CurrentPage)
	assert.False(t, page.HasNextPage())
	require.Len(t, page.Data, 1)
	assert.True(t, page.Data[0].IsOngoing())
}

func TestClient_GetAnomaly(t *testing.T) {
	c := setupUppiClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/anomalies/a1", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"id":"a1","started_at":"2024-01-01T00:00:00Z","ended_at":"2024-01-01T01:00:00Z",
			"monitor":{"id":"m1","name":"API","address":"https://example.com","status":"ok"},
			"triggers":[{"id":"t1","type":"down","channels_notified":["mail"],"metadata":{"monitor_name":"API","monitor_target":"https://example.com"},"triggered_at":"2024-01-01T00:00:00Z","alert":{"id":"al1","name":"Ops","type":"email","destination":"ops@example.com","is_enabled":true}}]
		}`))
	}, "1|abc")

	anomaly, err := c.GetAnomaly(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "Resolved", anomaly.StatusLabel())
	assert.Equal(t, "1 hour", anomaly.DurationText())
	require.Len(t, anomaly.Triggers, 1)
	assert.Equal(t, models.TriggerDown, anomaly.Triggers[0].Type)
	assert.Equal(t, "ops@example.com", anomaly.Triggers[0].Alert.Destination)
}

func TestClient_PushToken(t *testing.T) {
	var gotMethods []string
	c := setupUppiClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, uppi.PathPushToken, r.URL.Path)
		gotMethods = append(gotMethods, r.Method)

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "device-1", body["device_id"])
		if r.Method == http.MethodPost {
			assert.Equal(t, "ExponentPushToken[x]", body["token"])
			assert.Equal(t, "ios", body["platform"])
		}
		w.WriteHeader(http.StatusNoContent)
	}, "1|abc")

	ctx := context.Background()
	require.NoError(t, c.RegisterPushToken(ctx, "ExponentPushToken[x]", "device-1", "ios"))
	require.NoError(t, c.RemovePushToken(ctx, "device-1"))

	assert.Equal(t, []string{http.MethodPost, http.MethodDelete}, gotMethods)
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		wantErr       error
		authenticated bool
		wantMessage   string
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, wantErr: models.ErrUnauthorized},
		{name: "server_error", status: http.StatusInternalServerError, body: `{"message":"Server Error"}`, wantErr: models.ErrRequestFailed, authenticated: true, wantMessage: "Server Error"},
		{name: "not_found", status: http.StatusNotFound, wantErr: models.ErrRequestFailed, authenticated: true},
		{name: "malformed", status: http.StatusOK, body: `{"id":`, wantErr: models.ErrMalformedResponse, authenticated: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := setupUppiClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}, "1|abc")

			_, err := c.GetProfile(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.authenticated, c.Session().IsAuthenticated())

			if tt.wantMessage != "" {
				var apiErr *models.APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, tt.wantMessage, apiErr.Message)
				assert.Equal(t, tt.status, apiErr.StatusCode)
			}
		})
	}
}

func TestClient_ProtectedCallsWithoutSession(t *testing.T) {
	c := setupUppiClient(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("no request expected without a session")
		w.WriteHeader(http.StatusOK)
	}, "")

	ctx := context.Background()
	_, err := c.GetMonitors(ctx)
	assert.ErrorIs(t, err, models.ErrNoSession)
	_, err = c.GetAnomalies(ctx, 1)
	assert.ErrorIs(t, err, models.ErrNoSession)
	assert.ErrorIs(t, c.RemovePushToken(ctx, "d"), models.ErrNoSession)
}

func TestClient_LoginLogout(t *testing.T) {
	c := setupUppiClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case client.TokenPath:
			_, _ = w.Write([]byte(`{"token":"9|new"}`))
		case uppi.PathProfile:
			assert.Equal(t, "Bearer 9|new", r.Header.Get(constants.HeaderAuthorization))
			_, _ = w.Write([]byte(`{"id":"1","name":"Ada"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}, "")

	ctx := context.Background()
	require.NoError(t, c.Login(ctx, "123456"))
	_, err := c.GetProfile(ctx)
	require.NoError(t, err)

	c.Logout(ctx)
	assert.False(t, c.Session().IsAuthenticated())
}
