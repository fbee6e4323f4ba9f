// Package common defines shared constants and sentinel errors used across
// the repository, service and transport layers. Callers should use errors.Is
// to match these values; layers add context with fmt.Errorf("%w: ...").
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")

	// Service-level errors.
	ErrInternal   = errors.New("internal error")
	ErrValidation = errors.New("validation error")
	ErrForbidden  = errors.New("forbidden")

	// ErrUnauthorized covers bad credentials, missing or broken tokens and
	// sessions whose user no longer exists.
	ErrUnauthorized = errors.New("unauthorized")

	// Token errors. Both match ErrUnauthorized; ErrTokenExpired is kept apart
	// so callers can attempt a refresh instead of a new login.
	ErrInvalidToken = fmt.Errorf("%w: invalid token", ErrUnauthorized)
	ErrTokenExpired = fmt.Errorf("%w: token expired", ErrUnauthorized)

	// ErrDuplicateUser is returned when registering an email that already exists.
	ErrDuplicateUser = fmt.Errorf("%w: user already registered", ErrConflict)

	// ErrInvalidTerm is returned for vocabulary values outside both enumerations.
	ErrInvalidTerm = fmt.Errorf("%w: invalid term", ErrValidation)
)
