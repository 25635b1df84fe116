package client

import (
	"context"
	"net/http"

	"github.com/janyksteenbeek/uppi-mobile-app/internal/models"
)

// AuthClient extends BaseClient with the session. Every request made through
// DoWithAuth carries the session headers, and a 401 on any of them ends the
// session before the error reaches the caller.
type AuthClient struct {
	*BaseClient // Embedded - inherits all BaseClient methods

	session *Session
}

// NewAuthClient creates a client that authenticates requests with session.
func NewAuthClient(baseClient *BaseClient, session *Session) *AuthClient {
	return &AuthClient{
		BaseClient: baseClient,
		session:    session,
	}
}

// Session returns the session the client authenticates with.
func (c *AuthClient) Session() *Session {
	return c.session
}

// DoWithAuth executes an HTTP request authenticated by the session.
//
// Without a session no request is sent and models.ErrNoSession is returned.
// A 401 response deauthenticates the session and is returned as
// models.ErrUnauthorized; the response body is closed in that case. Every
// other response is returned for the caller to interpret.
func (c *AuthClient) DoWithAuth(
	ctx context.Context,
	method string,
	path string,
	body interface{},
) (*http.Response, error) {
	headers, err := c.session.BuildRequestHeaders(ctx)
	if err != nil {
		return nil, err
	}
	if !c.session.IsAuthenticated() {
		return nil, models.NewAPIError(models.ErrNoSession, path, 0)
	}

	resp, err := c.Do(ctx, method, path, body, headers)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		_ = resp.Body.Close()

		c.logger.WithField("path", path).Warn("Received 401 Unauthorized, ending session")
		c.session.deauthenticate(ctx, ReasonUnauthorized)

		return nil, models.NewAPIError(models.ErrUnauthorized, path, resp.StatusCode)
	}

	return resp, nil
}
