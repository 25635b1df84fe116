package auth_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janyksteenbeek/uppi-mobile-app/internal/auth"
	"github.com/janyksteenbeek/uppi-mobile-app/internal/models"
	"github.com/janyksteenbeek/uppi-mobile-app/internal/router"
)

type fakeSession struct {
	mu            sync.Mutex
	authenticated bool
	initErr       error
	authErr       error
	codes         []string
	logouts       int
}

func (s *fakeSession) Initialize(context.Context) error { return s.initErr }

func (s *fakeSession) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

func (s *fakeSession) Authenticate(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes = append(s.codes, code)
	if s.authErr != nil {
		return s.authErr
	}
	s.authenticated = true
	return nil
}

func (s *fakeSession) Deauthenticate(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = false
	s.logouts++
}

type fakeProfiles struct {
	profile *models.Profile
	err     error
	calls   int
}

func (p *fakeProfiles) GetProfile(context.Context) (*models.Profile, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.profile, nil
}

func setup(session *fakeSession, profiles *fakeProfiles, start router.Route) (auth.Service, *router.MemoryNavigator) {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	nav := router.NewMemoryNavigator(start, logger)
	return auth.NewService(session, profiles, nav, logger), nav
}

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "123456", want: "123456"},
		{input: "123-456", want: "123456"},
		{input: " 12 34 56 ", want: "123456"},
		{input: "12a34b56", want: "123456"},
		{input: "12345", wantErr: true},
		{input: "1234567", wantErr: true},
		{input: "", wantErr: true},
		{input: "١٢٣٤٥٦", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := auth.NormalizeCode(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, auth.ErrInvalidCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_CheckAuth(t *testing.T) {
	tests := []struct {
		name          string
		session       *fakeSession
		profiles      *fakeProfiles
		wantErr       bool
		wantLogouts   int
		wantAuth      bool
		wantProfileOK int
	}{
		{
			name:     "no_session",
			session:  &fakeSession{},
			profiles: &fakeProfiles{},
		},
		{
			name:          "valid_session",
			session:       &fakeSession{authenticated: true},
			profiles:      &fakeProfiles{profile: &models.Profile{ID: "1"}},
			wantAuth:      true,
			wantProfileOK: 1,
		},
		{
			name:          "rejected_session",
			session:       &fakeSession{authenticated: true},
			profiles:      &fakeProfiles{err: models.ErrUnauthorized},
			wantLogouts:   1,
			wantProfileOK: 1,
		},
		{
			name:     "storage_failure",
			session:  &fakeSession{initErr: errors.New("disk")},
			profiles: &fakeProfiles{},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := setup(tt.session, tt.profiles, router.RouteTabs)

			err := svc.CheckAuth(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			assert.False(t, svc.IsLoading())
			assert.Equal(t, tt.wantLogouts, tt.session.logouts)
			assert.Equal(t, tt.wantAuth, tt.session.IsAuthenticated())
			assert.Equal(t, tt.wantProfileOK, tt.profiles.calls)
		})
	}
}

func TestService_SignIn(t *testing.T) {
	session := &fakeSession{}
	profiles := &fakeProfiles{profile: &models.Profile{ID: "1", Name: "Ada"}}
	svc, nav := setup(session, profiles, router.RouteLogin)

	profile, err := svc.SignIn(context.Background(), "123 456")
	require.NoError(t, err)

	assert.Equal(t, "Ada", profile.Name)
	assert.Equal(t, []string{"123456"}, session.codes)
	assert.Equal(t, router.RouteTabs, nav.Current())
	assert.True(t, session.IsAuthenticated())
}

func TestService_SignInInvalidCodeSendsNothing(t *testing.T) {
	session := &fakeSession{}
	svc, nav := setup(session, &fakeProfiles{}, router.RouteLogin)

	_, err := svc.SignIn(context.Background(), "12")
	assert.ErrorIs(t, err, auth.ErrInvalidCode)
	assert.Empty(t, session.codes)
	assert.Empty(t, nav.History())
}

func TestService_SignInFailuresSignOut(t *testing.T) {
	tests := []struct {
		name     string
		session  *fakeSession
		profiles *fakeProfiles
		wantErr  error
	}{
		{
			name:     "rejected_code",
			session:  &fakeSession{authErr: models.NewAPIError(models.ErrInvalidCredential, "/app/token", 422)},
			profiles: &fakeProfiles{},
			wantErr:  models.ErrInvalidCredential,
		},
		{
			name:     "profile_verification_fails",
			session:  &fakeSession{},
			profiles: &fakeProfiles{err: models.ErrNetworkFailure},
			wantErr:  models.ErrNetworkFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, nav := setup(tt.session, tt.profiles, router.RouteLogin)

			_, err := svc.SignIn(context.Background(), "000000")
			assert.ErrorIs(t, err, tt.wantErr)

			assert.Equal(t, 1, tt.session.logouts)
			assert.False(t, tt.session.IsAuthenticated())
			assert.Equal(t, router.RouteLogin, nav.Current())
		})
	}
}

func TestService_SignOut(t *testing.T) {
	session := &fakeSession{authenticated: true}
	svc, nav := setup(session, &fakeProfiles{}, router.RouteProfile)

	svc.SignOut(context.Background())

	assert.False(t, session.IsAuthenticated())
	assert.Equal(t, []router.Route{router.RouteLogin}, nav.History())
}
