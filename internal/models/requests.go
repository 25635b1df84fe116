package models

// TokenRequest exchanges a one-time code for a bearer token.
type TokenRequest struct {
	Code string `json:"code"`
}

// TokenResponse carries the issued bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

// PushTokenRequest registers a device push token.
type PushTokenRequest struct {
	Token    string `json:"token"`
	DeviceID string `json:"device_id"`
	Platform string `json:"platform"`
}

// PushTokenRemoveRequest unregisters the push token of a device.
type PushTokenRemoveRequest struct {
	DeviceID string `json:"device_id"`
}

// ErrorResponse is the error body the API returns on failures.
type ErrorResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}
