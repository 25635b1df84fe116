// Package auth implements the sign-in flow on top of the session: checking a
// stored session at startup, exchanging a one-time code and signing out.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/janyksteenbeek/uppi-mobile-app/internal/models"
	"github.com/janyksteenbeek/uppi-mobile-app/internal/router"
)

// CodeLength is the number of digits in a one-time sign-in code.
const CodeLength = 6

// ErrInvalidCode is returned for codes that do not have exactly CodeLength digits.
var ErrInvalidCode = errors.New("code must have exactly 6 digits")

// SessionController is the part of the session the flow drives.
type SessionController interface {
	Initialize(ctx context.Context) error
	IsAuthenticated() bool
	Authenticate(ctx context.Context, code string) error
	Deauthenticate(ctx context.Context)
}

// ProfileFetcher verifies a session by fetching the profile it belongs to.
type ProfileFetcher interface {
	GetProfile(ctx context.Context) (*models.Profile, error)
}

// Service is the sign-in flow.
type Service interface {
	// CheckAuth loads the stored session and verifies it against the API.
	// A session the API does not accept is signed out. Only a failure to
	// load the session is returned.
	CheckAuth(ctx context.Context) error
	// SignIn exchanges code for a session, verifies it and shows the tabs.
	// Any failure signs out and is returned.
	SignIn(ctx context.Context, code string) (*models.Profile, error)
	// SignOut ends the session and shows the login view.
	SignOut(ctx context.Context)
	// IsLoading reports whether CheckAuth is running.
	IsLoading() bool
}

type service struct {
	session   SessionController
	profiles  ProfileFetcher
	navigator router.Navigator
	logger    *logrus.Logger
	loading   atomic.Bool
}

// NewService creates the sign-in flow.
func NewService(
	session SessionController,
	profiles ProfileFetcher,
	navigator router.Navigator,
	logger *logrus.Logger,
) Service {
	return &service{
		session:   session,
		profiles:  profiles,
		navigator: navigator,
		logger:    logger,
	}
}

// NormalizeCode strips everything but digits from input and checks that
// exactly CodeLength digits remain.
func NormalizeCode(input string) (string, error) {
	code := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, input)

	if len(code) != CodeLength {
		return "", fmt.Errorf("%w: got %d", ErrInvalidCode, len(code))
	}
	return code, nil
}

func (s *service) CheckAuth(ctx context.Context) error {
	s.loading.Store(true)
	defer s.loading.Store(false)

	if err := s.session.Initialize(ctx); err != nil {
		s.logger.WithError(err).Error("Auth check failed")
		return err
	}
	if !s.session.IsAuthenticated() {
		return nil
	}

	if _, err := s.profiles.GetProfile(ctx); err != nil {
		s.logger.WithError(err).Warn("Stored session rejected, signing out")
		s.SignOut(ctx)
	}
	return nil
}

func (s *service) SignIn(ctx context.Context, input string) (*models.Profile, error) {
	code, err := NormalizeCode(input)
	if err != nil {
		return nil, err
	}

	profile, err := s.signIn(ctx, code)
	if err != nil {
		s.logger.WithError(err).Warn("Sign in failed")
		s.SignOut(ctx)
		return nil, err
	}

	s.logger.WithField("user_id", profile.ID).Info("Sign in verified")
	s.navigator.Replace(router.RouteTabs)
	return profile, nil
}

func (s *service) signIn(ctx context.Context, code string) (*models.Profile, error) {
	if err := s.session.Authenticate(ctx, code); err != nil {
		return nil, err
	}
	// verify the token works before showing anything
	profile, err := s.profiles.GetProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("verify session: %w", err)
	}
	return profile, nil
}

func (s *service) SignOut(ctx context.Context) {
	s.session.Deauthenticate(ctx)
	s.navigator.Replace(router.RouteLogin)
}

func (s *service) IsLoading() bool {
	return s.loading.Load()
}
