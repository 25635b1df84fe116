// Package push manages the push notification preference of this device:
// the persisted on/off flag, the device identifier and the registration of
// the device's push token with the Uppi API.
package push

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/janyksteenbeek/uppi-mobile-app/internal/constants"
	"github.com/janyksteenbeek/uppi-mobile-app/internal/storage"
)

// ErrPermissionDenied is returned when the platform refuses notification permission.
var ErrPermissionDenied = errors.New("push notification permission denied")

const (
	flagEnabled  = "true"
	flagDisabled = "false"
)

// PermissionProvider asks the platform for notification permission.
type PermissionProvider interface {
	// Granted reports the current permission without prompting.
	Granted(ctx context.Context) (bool, error)
	// Request prompts for permission when needed and reports the outcome.
	Request(ctx context.Context) (bool, error)
}

// TokenProvider returns the platform push token of this device.
type TokenProvider interface {
	PushToken(ctx context.Context) (string, error)
}

// Notifier shows a local notification. It is used to confirm that delivery works.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// Registrar registers push tokens with the API.
type Registrar interface {
	RegisterPushToken(ctx context.Context, token, deviceID, platform string) error
	RemovePushToken(ctx context.Context, deviceID string) error
}

// Manager toggles push notifications for this device.
type Manager struct {
	store       storage.Store
	registrar   Registrar
	permissions PermissionProvider
	tokens      TokenProvider
	notifier    Notifier
	platform    string
	logger      *logrus.Logger

	// mu serialises toggles and device id creation.
	mu sync.Mutex
}

// NewManager creates a Manager. notifier may be nil.
func NewManager(
	store storage.Store,
	registrar Registrar,
	permissions PermissionProvider,
	tokens TokenProvider,
	notifier Notifier,
	platform string,
	logger *logrus.Logger,
) *Manager {
	return &Manager{
		store:       store,
		registrar:   registrar,
		permissions: permissions,
		tokens:      tokens,
		notifier:    notifier,
		platform:    platform,
		logger:      logger,
	}
}

// DeviceID returns the persisted device identifier, creating one on first use.
func (m *Manager) DeviceID(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deviceID(ctx)
}

func (m *Manager) deviceID(ctx context.Context) (string, error) {
	id, err := m.store.Get(ctx, constants.StorageKeyDeviceID)
	if err == nil && strings.TrimSpace(id) != "" {
		return id, nil
	}
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return "", fmt.Errorf("load device id: %w", err)
	}

	id = uuid.NewString()
	if err := m.store.Set(ctx, constants.StorageKeyDeviceID, id); err != nil {
		return "", fmt.Errorf("store device id: %w", err)
	}
	m.logger.WithField("device_id", id).Debug("Generated device id")
	return id, nil
}

// Enabled reports whether notifications are on: the platform permission is
// granted and the stored preference is "true".
func (m *Manager) Enabled(ctx context.Context) (bool, error) {
	granted, err := m.permissions.Granted(ctx)
	if err != nil {
		return false, fmt.Errorf("check permission: %w", err)
	}

	flag, err := m.store.Get(ctx, constants.StorageKeyPushNotifications)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return false, fmt.Errorf("load preference: %w", err)
	}

	return granted && flag == flagEnabled, nil
}

// Toggle turns notifications on or off and returns the resulting state.
//
// Turning on asks for permission, registers the device's push token and
// stores the preference; a refusal returns ErrPermissionDenied and leaves
// notifications off. Turning off removes the registration and stores the
// preference. On any other failure the previous state is reported back
// together with the error.
func (m *Manager) Toggle(ctx context.Context, enable bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var err error
	if enable {
		err = m.enable(ctx)
	} else {
		err = m.disable(ctx)
	}

	if errors.Is(err, ErrPermissionDenied) {
		m.logger.Warn("Push notifications were denied")
		return false, err
	}
	if err != nil {
		m.logger.WithError(err).Error("Failed to toggle push notifications")
		return !enable, err
	}

	m.logger.WithField("enabled", enable).Info("Push notifications toggled")
	return enable, nil
}

func (m *Manager) enable(ctx context.Context) error {
	granted, err := m.permissions.Request(ctx)
	if err != nil {
		return fmt.Errorf("request permission: %w", err)
	}
	if !granted {
		return ErrPermissionDenied
	}

	token, err := m.tokens.PushToken(ctx)
	if err != nil {
		return fmt.Errorf("get push token: %w", err)
	}

	deviceID, err := m.deviceID(ctx)
	if err != nil {
		return err
	}

	if err := m.registrar.RegisterPushToken(ctx, token, deviceID, m.platform); err != nil {
		return fmt.Errorf("register push token: %w", err)
	}
	if err := m.store.Set(ctx, constants.StorageKeyPushNotifications, flagEnabled); err != nil {
		return fmt.Errorf("store preference: %w", err)
	}

	if m.notifier != nil {
		if err := m.notifier.Notify(ctx, "Test Notification", "Push notifications are working!"); err != nil {
			m.logger.WithError(err).Warn("Failed to send test notification")
		}
	}
	return nil
}

func (m *Manager) disable(ctx context.Context) error {
	deviceID, err := m.deviceID(ctx)
	if err != nil {
		return err
	}

	if err := m.registrar.RemovePushToken(ctx, deviceID); err != nil {
		return fmt.Errorf("remove push token: %w", err)
	}
	if err := m.store.Set(ctx, constants.StorageKeyPushNotifications, flagDisabled); err != nil {
		return fmt.Errorf("store preference: %w", err)
	}
	return nil
}
