package models_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/janyksteenbeek/uppi-mobile-app/internal/models"
)

func TestAPIErrorError(t *testing.T) {
	tests := []struct {
		name        string
		err         *models.APIError
		expectedMsg string
	}{
		{
			name:        "kind_only",
			err:         &models.APIError{Kind: models.ErrNetworkFailure},
			expectedMsg: "network failure",
		},
		{
			name:        "with_endpoint_and_status",
			err:         models.NewAPIError(models.ErrUnauthorized, "/profile", http.StatusUnauthorized),
			expectedMsg: "/profile: unauthorized (HTTP 401)",
		},
		{
			name: "with_message",
			err: models.NewAPIError(models.ErrRequestFailed, "/monitors", http.StatusInternalServerError).
				WithMessage("Server Error"),
			expectedMsg: "/monitors: request failed (HTTP 500): Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedMsg, tt.err.Error())
		})
	}
}

func TestAPIErrorClassification(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("fetch monitors: %w",
		models.NewAPIError(models.ErrNetworkFailure, "/monitors", 0).WithCause(cause))

	assert.ErrorIs(t, err, models.ErrNetworkFailure)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, models.ErrUnauthorized)

	var apiErr *models.APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "/monitors", apiErr.Endpoint)
}

func TestAPIErrorChaining(t *testing.T) {
	err := models.NewAPIError(models.ErrRequestFailed, "/x", 500)
	assert.Same(t, err, err.WithMessage("m"))
	assert.Same(t, err, err.WithCause(errors.New("c")))
}

func TestIsAuthError(t *testing.T) {
	assert.True(t, models.IsAuthError(models.NewAPIError(models.ErrUnauthorized, "/profile", 401)))
	assert.True(t, models.IsAuthError(models.ErrNoSession))
	assert.False(t, models.IsAuthError(models.ErrNetworkFailure))
}
