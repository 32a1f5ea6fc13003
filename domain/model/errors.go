package model

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated = errors.New("missing or invalid authorization")
	ErrUnknownProvider = errors.New("unknown provider")
	ErrNotConnected    = errors.New("integration not connected")
	ErrNoRefreshToken  = errors.New("no refresh token available, reconnect the account")
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrInvalidState    = errors.New("invalid oauth state")
)

// ProviderError wraps a failure reported by an upstream provider API.
type ProviderError struct {
	Provider    Provider
	Op          string
	Status      int
	Description string
	// Reason is the first machine-readable reason the provider attached, e.g. "quotaExceeded".
	Reason string
	Err    error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s %s failed", e.Provider, e.Op)
	if e.Description != "" {
		msg += ": " + e.Description
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProviderError) Unwrap() error { return e.Err }

// IsCommentsDisabled reports whether err is YouTube refusing comments for a video.
func IsCommentsDisabled(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Reason == "commentsDisabled"
}

// GenerationErrorKind separates transport failures from unusable output.
type GenerationErrorKind string

const (
	GenerationTransport GenerationErrorKind = "transport"
	GenerationSchema    GenerationErrorKind = "schema"
)

// GenerationError is returned when the text-generation collaborator fails.
type GenerationError struct {
	Kind GenerationErrorKind
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("content generation %s error: %v", e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// IsSchemaViolation reports whether err is a generation output that failed validation.
func IsSchemaViolation(err error) bool {
	var ge *GenerationError
	return errors.As(err, &ge) && ge.Kind == GenerationSchema
}
