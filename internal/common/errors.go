// Package common defines shared constants and sentinel errors used across
// the carbontrack server layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Service-level errors (access control).
	ErrorUnauthorized = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")

	// Validation errors for submitted activity data.
	ErrValidation = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
