package views

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/janyksteenbeek/uppi-mobile-app/internal/models"
)

// PushToggle reads and changes the push notification preference.
type PushToggle interface {
	Enabled(ctx context.Context) (bool, error)
	Toggle(ctx context.Context, enable bool) (bool, error)
}

// SignOuter ends the current session.
type SignOuter interface {
	SignOut(ctx context.Context)
}

// Profile backs the account screen.
type Profile struct {
	source ProfileSource
	push   PushToggle
	auth   SignOuter
	logger *logrus.Logger

	mu          sync.RWMutex
	profile     *models.Profile
	pushEnabled bool
}

// NewProfile creates a Profile view.
func NewProfile(source ProfileSource, push PushToggle, auth SignOuter, logger *logrus.Logger) *Profile {
	return &Profile{
		source: source,
		push:   push,
		auth:   auth,
		logger: logger,
	}
}

// Load fetches the profile and reads the push preference. A failing
// preference read is logged and shows notifications as off.
func (v *Profile) Load(ctx context.Context) error {
	profile, err := v.source.GetProfile(ctx)
	if err != nil {
		v.logger.WithError(err).Error("Failed to load profile")
		return err
	}

	enabled, err := v.push.Enabled(ctx)
	if err != nil {
		v.logger.WithError(err).Warn("Failed to read push preference")
		enabled = false
	}

	v.mu.Lock()
	v.profile = profile
	v.pushEnabled = enabled
	v.mu.Unlock()
	return nil
}

// Profile returns the loaded profile, or nil.
func (v *Profile) Profile() *models.Profile {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.profile
}

// AvatarURL is the generated avatar for the loaded profile, or "".
func (v *Profile) AvatarURL() string {
	p := v.Profile()
	if p == nil {
		return ""
	}
	return p.AvatarURL()
}

// PushEnabled reports the push switch state.
func (v *Profile) PushEnabled() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.pushEnabled
}

// TogglePush flips the switch to enable. The switch shows whatever state
// the toggle ended in, also when it fails.
func (v *Profile) TogglePush(ctx context.Context, enable bool) error {
	state, err := v.push.Toggle(ctx, enable)

	v.mu.Lock()
	v.pushEnabled = state
	v.mu.Unlock()

	return err
}

// SignOut ends the session and forgets the loaded profile.
func (v *Profile) SignOut(ctx context.Context) {
	v.auth.SignOut(ctx)

	v.mu.Lock()
	v.profile = nil
	v.mu.Unlock()
}
