// Package uppi is the typed client for the Uppi REST API.
package uppi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/janyksteenbeek/uppi-mobile-app/internal/client"
	"github.com/janyksteenbeek/uppi-mobile-app/internal/models"
)

// API paths.
const (
	PathProfile   = "/profile"
	PathMonitors  = "/monitors"
	PathAnomalies = "/anomalies"
	PathPushToken = "/app/push-token"
)

// Client provides methods for interacting with the Uppi API.
type Client struct {
	*client.AuthClient // Embedded - inherits all AuthClient methods

	logger *logrus.Logger
}

// NewClient creates a new Uppi API client on top of authClient.
func NewClient(authClient *client.AuthClient, logger *logrus.Logger) *Client {
	return &Client{
		AuthClient: authClient,
		logger:     logger,
	}
}

// Login exchanges a one-time code for a session. See client.Session.Authenticate.
func (c *Client) Login(ctx context.Context, code string) error {
	return c.Session().Authenticate(ctx, code)
}

// Logout ends the session.
func (c *Client) Logout(ctx context.Context) {
	c.Session().Deauthenticate(ctx)
}

// GetProfile returns the signed-in user's profile.
func (c *Client) GetProfile(ctx context.Context) (*models.Profile, error) {
	var profile models.Profile
	if err := c.getJSON(ctx, PathProfile, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetMonitors returns every monitor with its last check and recent anomalies embedded.
// The server order is kept; see models.SortMonitorsForDisplay for the list order.
func (c *Client) GetMonitors(ctx context.Context) ([]models.Monitor, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, PathMonitors, &raw); err != nil {
		return nil, err
	}

	monitors, err := decodeList[models.Monitor](raw)
	if err != nil {
		return nil, models.NewAPIError(models.ErrMalformedResponse, PathMonitors, http.StatusOK).WithCause(err)
	}
	return monitors, nil
}

// GetMonitor returns one monitor with its check history embedded.
func (c *Client) GetMonitor(ctx context.Context, id string) (*models.Monitor, error) {
	var monitor models.Monitor
	if err := c.getJSON(ctx, PathMonitors+"/"+url.PathEscape(id), &monitor); err != nil {
		return nil, err
	}
	return &monitor, nil
}

// GetAnomalies returns one page of anomalies, most recent first, each with its
// monitor and checks embedded. Pages start at 1.
func (c *Client) GetAnomalies(ctx context.Context, page int) (*models.Page[models.Anomaly], error) {
	if page < 1 {
		page = 1
	}
	var result models.Page[models.Anomaly]
	if err := c.getJSON(ctx, PathAnomalies+"?page="+strconv.Itoa(page), &result); err != nil {
		return nil, err
	}
	if result.CurrentPage == 0 {
		result.CurrentPage = page
	}
	return &result, nil
}

// GetAnomaly returns one anomaly with its monitor and trigger history embedded.
func (c *Client) GetAnomaly(ctx context.Context, id string) (*models.Anomaly, error) {
	var anomaly models.Anomaly
	if err := c.getJSON(ctx, PathAnomalies+"/"+url.PathEscape(id), &anomaly); err != nil {
		return nil, err
	}
	return &anomaly, nil
}

// RegisterPushToken registers the device's push token so the server can
// deliver alerts to it.
func (c *Client) RegisterPushToken(ctx context.Context, token, deviceID, platform string) error {
	return c.send(ctx, http.MethodPost, PathPushToken, &models.PushTokenRequest{
		Token:    token,
		DeviceID: deviceID,
		Platform: platform,
	})
}

// RemovePushToken stops push delivery to the device.
func (c *Client) RemovePushToken(ctx context.Context, deviceID string) error {
	return c.send(ctx, http.MethodDelete, PathPushToken, &models.PushTokenRemoveRequest{DeviceID: deviceID})
}

// getJSON performs an authenticated GET and decodes a 2xx body into out.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	resp, err := c.DoWithAuth(ctx, http.MethodGet, path, nil)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, path); err != nil {
		return err
	}

	if decodeErr := json.NewDecoder(resp.Body).Decode(out); decodeErr != nil {
		c.logger.WithError(decodeErr).WithField("path", path).Error("Failed to decode response")
		return models.NewAPIError(models.ErrMalformedResponse, path, resp.StatusCode).WithCause(decodeErr)
	}
	return nil
}

// send performs an authenticated request whose response body is ignored.
func (c *Client) send(ctx context.Context, method, path string, body interface{}) error {
	resp, err := c.DoWithAuth(ctx, method, path, body)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	return c.checkStatus(resp, path)
}

func (c *Client) checkStatus(resp *http.Response, path string) error {
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}

	message := c.ParseErrorResponse(resp)
	c.logger.WithFields(logrus.Fields{
		"path":    path,
		"status":  resp.StatusCode,
		"message": message,
	}).Error("Uppi API request failed")

	return models.NewAPIError(models.ErrRequestFailed, path, resp.StatusCode).WithMessage(message)
}

// decodeList accepts both a bare JSON array and a {"data": [...]} envelope.
func decodeList[T any](raw json.RawMessage) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var envelope struct {
			Data []T `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, err
		}
		return envelope.Data, nil
	}

	var items []T
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, err
	}
	return items, nil
}
