// Package client provides the HTTP plumbing for the Uppi API: the session
// that owns the bearer token, a base client for JSON requests and an
// authenticated client that applies the session to every call.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/janyksteenbeek/uppi-mobile-app/internal/constants"
	"github.com/janyksteenbeek/uppi-mobile-app/internal/metrics"
	"github.com/janyksteenbeek/uppi-mobile-app/internal/models"
	"github.com/janyksteenbeek/uppi-mobile-app/internal/storage"
)

// TokenPath is the endpoint that exchanges a one-time code for a bearer token.
const TokenPath = "/app/token"

// Reasons reported with a SessionEvent.
const (
	ReasonInitialized  = "initialized"
	ReasonLogin        = "login"
	ReasonLogout       = "logout"
	ReasonUnauthorized = "unauthorized"
)

// SessionEvent is published to subscribers after every session state change.
type SessionEvent struct {
	Authenticated bool
	Reason        string
}

// Session owns the bearer token lifecycle: it loads the token from storage,
// adopts and persists it after login and clears it on logout or after a 401.
//
// One Session is constructed per process and shared by every client that
// talks to the API. It is safe for concurrent use, though a single writer
// at a time is expected.
type Session struct {
	mu          sync.RWMutex
	token       string
	initialized bool

	// initMu serialises storage reads so concurrent Initialize callers share one.
	initMu sync.Mutex

	obsMu     sync.Mutex
	observers map[int]func(SessionEvent)
	nextObs   int

	store     storage.Store
	base      *BaseClient
	userAgent string
	logger    *logrus.Logger
	metrics   *metrics.Metrics
}

// NewSession creates an uninitialized session. The base client is used for the
// token exchange; userAgent identifies the platform on every request.
func NewSession(
	store storage.Store,
	base *BaseClient,
	userAgent string,
	logger *logrus.Logger,
	m *metrics.Metrics,
) *Session {
	return &Session{
		observers: make(map[int]func(SessionEvent)),
		store:     store,
		base:      base,
		userAgent: userAgent,
		logger:    logger,
		metrics:   m,
	}
}

// Initialize loads the persisted token. It is idempotent: once a load has
// succeeded, storage is not read again. A failed read is returned and the
// next call tries again. Whitespace around the stored token is ignored and a
// blank value counts as no session.
func (s *Session) Initialize(ctx context.Context) error {
	s.mu.RLock()
	done := s.initialized
	s.mu.RUnlock()
	if done {
		return nil
	}

	s.initMu.Lock()
	defer s.initMu.Unlock()

	// Another caller may have finished while we waited.
	s.mu.RLock()
	done = s.initialized
	s.mu.RUnlock()
	if done {
		return nil
	}

	stored, err := s.store.Get(ctx, constants.StorageKeyAuthToken)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.logger.WithError(err).Error("Failed to load stored session")
		return err
	}

	token := strings.TrimSpace(stored)

	s.mu.Lock()
	// A login or logout that completed while storage was being read wins.
	if !s.initialized {
		s.token = token
	}
	s.initialized = true
	authenticated := s.token != ""
	s.mu.Unlock()

	s.logger.WithField("authenticated", authenticated).Debug("Session initialized")
	s.publish(SessionEvent{Authenticated: authenticated, Reason: ReasonInitialized})
	return nil
}

// Authenticate exchanges a one-time code for a bearer token. On success the
// token is adopted and persisted. On failure the previous session is left as
// it was and the error classifies as models.ErrInvalidCredential (rejected
// code), models.ErrMalformedResponse (unusable token) or
// models.ErrNetworkFailure.
func (s *Session) Authenticate(ctx context.Context, code string) error {
	headers, err := s.BuildRequestHeaders(ctx)
	if err != nil {
		return err
	}

	resp, err := s.base.Do(ctx, http.MethodPost, TokenPath, &models.TokenRequest{Code: code}, headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.logger.WithField("status", resp.StatusCode).Warn("Token exchange rejected")
		return models.NewAPIError(models.ErrInvalidCredential, TokenPath, resp.StatusCode).
			WithMessage(s.base.ParseErrorResponse(resp))
	}

	var tokenResp models.TokenResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&tokenResp); decodeErr != nil {
		return models.NewAPIError(models.ErrMalformedResponse, TokenPath, resp.StatusCode).WithCause(decodeErr)
	}

	token := strings.TrimSpace(tokenResp.Token)
	if token == "" {
		return models.NewAPIError(models.ErrMalformedResponse, TokenPath, resp.StatusCode).
			WithMessage("empty token")
	}

	s.mu.Lock()
	s.token = token
	s.initialized = true
	s.mu.Unlock()

	if setErr := s.store.Set(ctx, constants.StorageKeyAuthToken, token); setErr != nil {
		s.logger.WithError(setErr).Warn("Failed to persist session, it will not survive a restart")
	}

	s.logger.Info("Signed in")
	s.publish(SessionEvent{Authenticated: true, Reason: ReasonLogin})
	return nil
}

// Deauthenticate clears the token from memory and storage. Storage failures
// are logged; the in-memory session is always cleared.
func (s *Session) Deauthenticate(ctx context.Context) {
	s.deauthenticate(ctx, ReasonLogout)
}

func (s *Session) deauthenticate(ctx context.Context, reason string) {
	s.mu.Lock()
	s.token = ""
	s.initialized = true
	s.mu.Unlock()

	if err := s.store.Delete(ctx, constants.StorageKeyAuthToken); err != nil {
		s.logger.WithError(err).Warn("Failed to remove stored session")
	}

	s.logger.WithField("reason", reason).Info("Signed out")
	s.publish(SessionEvent{Authenticated: false, Reason: reason})
}

// IsAuthenticated reports whether a non-empty token is held.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Initialized reports whether the persisted token has been loaded.
func (s *Session) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// Token returns the current bearer token, or "".
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// BuildRequestHeaders returns the headers for an outgoing request, initializing
// the session first when needed. Authorization is present iff a token is held.
func (s *Session) BuildRequestHeaders(ctx context.Context) (http.Header, error) {
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}

	headers := http.Header{}
	headers.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	headers.Set(constants.HeaderAccept, constants.ContentTypeJSON)
	headers.Set(constants.HeaderUserAgent, s.userAgent)

	if token := s.Token(); token != "" {
		headers.Set(constants.HeaderAuthorization, constants.BearerPrefix+token)
	}
	return headers, nil
}

// Subscribe registers fn to receive every subsequent SessionEvent and returns
// a function that removes it. fn runs on the goroutine that changed the state
// and must not block.
func (s *Session) Subscribe(fn func(SessionEvent)) (unsubscribe func()) {
	s.obsMu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.obsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.obsMu.Lock()
			delete(s.observers, id)
			s.obsMu.Unlock()
		})
	}
}

func (s *Session) publish(event SessionEvent) {
	s.metrics.ObserveSession(event.Reason, event.Authenticated)

	s.obsMu.Lock()
	ids := make([]int, 0, len(s.observers))
	for id := range s.observers {
		ids = append(ids, id)
	}
	observers := make([]func(SessionEvent), 0, len(ids))
	// deliver in subscription order
	slices.Sort(ids)
	for _, id := range ids {
		observers = append(observers, s.observers[id])
	}
	s.obsMu.Unlock()

	for _, fn := range observers {
		fn(event)
	}
}
