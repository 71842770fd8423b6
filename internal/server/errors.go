package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/coverme/internal/db"
	"github.com/jonathan/coverme/internal/generation"
	"github.com/jonathan/coverme/internal/ingestion"
	"github.com/jonathan/coverme/internal/parsing"
	"github.com/jonathan/coverme/internal/profile"
)

// Account errors returned by the user service.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPasswordMismatch   = errors.New("current password is incorrect")
)

// ErrEmailAlreadyExists is returned when registering a taken address.
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return "email already registered: " + e.Email
}

// ErrUserNotFound reports a token whose subject no longer exists.
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrValidation is a request that failed input checks.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Message
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// sentinelStatus maps errors matched with errors.Is.
var sentinelStatus = []struct {
	target error
	status int
}{
	{ErrInvalidCredentials, http.StatusUnauthorized},
	{ErrPasswordMismatch, http.StatusUnauthorized},
	{db.ErrNotFound, http.StatusNotFound},
	{profile.ErrUserNotFound, http.StatusNotFound},
	{parsing.ErrInputMissing, http.StatusBadRequest},
	{ingestion.ErrInvalidURL, http.StatusBadRequest},
	{ingestion.ErrHTTPRequestFailed, http.StatusBadGateway},
	{ingestion.ErrContentExtractionFailed, http.StatusBadGateway},
	{generation.ErrGenerationFailed, http.StatusInternalServerError},
}

// HTTPStatus returns the HTTP status code for an error, looking through
// wrapping.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var (
		emailExists  *ErrEmailAlreadyExists
		userNotFound *ErrUserNotFound
		validation   *ErrValidation
	)
	switch {
	case errors.As(err, &emailExists):
		return http.StatusConflict
	case errors.As(err, &userNotFound):
		return http.StatusNotFound
	case errors.As(err, &validation):
		return http.StatusBadRequest
	}

	for _, s := range sentinelStatus {
		if errors.Is(err, s.target) {
			return s.status
		}
	}
	return http.StatusInternalServerError
}
