package push

import (
	"context"
	"errors"
)

// ErrNoPushToken is returned by StaticToken when no token was configured.
var ErrNoPushToken = errors.New("no push token configured")

// StaticPermissions answers permission requests with a fixed outcome.
// Hosts without a notification permission model use it.
type StaticPermissions bool

// Granted implements PermissionProvider.
func (p StaticPermissions) Granted(context.Context) (bool, error) { return bool(p), nil }

// Request implements PermissionProvider.
func (p StaticPermissions) Request(context.Context) (bool, error) { return bool(p), nil }

// StaticToken is a push token supplied by the user, e.g. on the command line.
type StaticToken string

// PushToken implements TokenProvider.
func (t StaticToken) PushToken(context.Context) (string, error) {
	if t == "" {
		return "", ErrNoPushToken
	}
	return string(t), nil
}
