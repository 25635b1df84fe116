package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/janyksteenbeek/uppi-mobile-app/internal/constants"
	"github.com/janyksteenbeek/uppi-mobile-app/internal/metrics"
	"github.com/janyksteenbeek/uppi-mobile-app/internal/models"
	"github.com/janyksteenbeek/uppi-mobile-app/pkg/logger"
)

// maxErrorBodyBytes bounds how much of an error body is read for its message.
const maxErrorBodyBytes = 64 << 10

// BaseClient provides core HTTP client functionality for calling the Uppi API.
// It handles request marshaling, request ids, logging and request metrics.
type BaseClient struct {
	httpClient *http.Client
	baseURL    string
	logger     *logrus.Logger
	metrics    *metrics.Metrics
}

// NewBaseClient creates a new BaseClient for HTTP operations.
//
// Parameters:
//   - baseURL: Base URL of the API (e.g., "https://uppi.dev/api")
//   - timeout: HTTP request timeout duration, 0 for none
//   - logger: Structured logger for HTTP operations
//   - m: Request metrics, may be nil
func NewBaseClient(
	baseURL string,
	timeout time.Duration,
	logger *logrus.Logger,
	m *metrics.Metrics,
) *BaseClient {
	return &BaseClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
		metrics: m,
	}
}

// Do executes an HTTP request with JSON marshaling.
//
// Parameters:
//   - ctx: Context for cancellation; its correlation ID is sent as X-Request-ID
//   - method: HTTP method (GET, POST, DELETE, etc.)
//   - path: Path relative to baseURL (e.g., "/monitors")
//   - body: Request body to be JSON-encoded (nil for GET requests)
//   - headers: Headers to send; JSON content headers are used when nil
//
// A transport failure is returned as an *models.APIError classified as
// models.ErrNetworkFailure. Any response, whatever its status, is returned
// as is. Caller is responsible for closing response body.
func (c *BaseClient) Do(
	ctx context.Context,
	method string,
	path string,
	body interface{},
	headers http.Header,
) (*http.Response, error) {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	if headers == nil {
		headers = http.Header{}
		headers.Set(constants.HeaderContentType, constants.ContentTypeJSON)
		headers.Set(constants.HeaderAccept, constants.ContentTypeJSON)
	}
	for name, values := range headers {
		req.Header[name] = append([]string(nil), values...)
	}

	requestID := logger.CorrelationID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
		ctx = logger.SetCorrelationID(ctx, requestID)
	}
	req.Header.Set(constants.HeaderXRequestID, requestID)

	log := logger.WithCorrelationID(ctx, c.logger).WithFields(logrus.Fields{
		"method": method,
		"path":   path,
	})
	log.Debug("Sending HTTP request")

	endpoint := EndpointLabel(path)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(method, endpoint, 0, time.Since(start))
		log.WithError(err).Error("HTTP request failed")
		return nil, models.NewAPIError(models.ErrNetworkFailure, path, 0).WithCause(err)
	}

	c.metrics.ObserveRequest(method, endpoint, resp.StatusCode, time.Since(start))
	log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	}).Debug("Received HTTP response")

	return resp, nil
}

// BaseURL returns the configured base URL for this client.
func (c *BaseClient) BaseURL() string {
	return c.baseURL
}

// ParseErrorResponse extracts the server message from an error response body.
// It returns "" when the body carries no usable message. The body is consumed
// but not closed.
func (c *BaseClient) ParseErrorResponse(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if err != nil || len(data) == 0 {
		return ""
	}

	var errResp models.ErrorResponse
	if err := json.Unmarshal(data, &errResp); err != nil {
		c.logger.WithField("status", resp.StatusCode).Debug("Error response is not JSON")
		return ""
	}
	return errResp.Message
}

// EndpointLabel collapses resource ids in path so it can be used as a metric
// label: "/monitors/01HQ" becomes "/monitors/{id}". Query strings are dropped.
func EndpointLabel(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) == 2 {
		switch segments[0] {
		case "monitors", "anomalies":
			segments[1] = "{id}"
		}
	}
	return "/" + strings.Join(segments, "/")
}
