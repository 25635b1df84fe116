// Package constants contains shared HTTP header names, content types,
// client identification strings and persisted storage keys.
package constants

// Header names commonly used across the application.
const (
	// HeaderAccept is the HTTP "Accept" header name.
	HeaderAccept = "Accept"

	// HeaderAuthorization is the HTTP "Authorization" header name.
	HeaderAuthorization = "Authorization"

	// HeaderContentType is the HTTP "Content-Type" header name.
	HeaderContentType = "Content-Type"

	// HeaderUserAgent is the HTTP "User-Agent" header name.
	HeaderUserAgent = "User-Agent"

	// HeaderXRequestID is the custom request ID header name.
	HeaderXRequestID = "X-Request-ID"
)

// Common media / content types used in requests and responses.
const (
	// ContentTypeJSON represents "application/json".
	ContentTypeJSON = "application/json"

	// ContentTypePlainUTF8 represents "text/plain; charset=utf-8".
	ContentTypePlainUTF8 = "text/plain; charset=utf-8"
)

// BearerPrefix precedes the token in the Authorization header.
const BearerPrefix = "Bearer "

// Client identification strings sent as User-Agent, one per mobile platform.
const (
	UserAgentApple   = "UppiApple/1.0"
	UserAgentAndroid = "UppiAndroid/1.0"
)

// Keys under which client state is persisted.
const (
	// StorageKeyAuthToken holds the bearer token.
	StorageKeyAuthToken = "auth_token"

	// StorageKeyPushNotifications holds "true" or "false".
	StorageKeyPushNotifications = "@uppi_push_notifications"

	// StorageKeyDeviceID holds the generated device identifier.
	StorageKeyDeviceID = "@uppi_device_id"
)
