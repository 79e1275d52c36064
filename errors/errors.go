// Package errors provides the structured error types used across nanograph.
// Every failure surfaced by the library is a *NanographError carrying a
// category, a human-readable message, a generated reference ID and a map of
// diagnostic details (failing indices, offending content, and so on).
//
// The package also owns the fallback zap logger that the message validator
// uses to emit diagnostics before returning an error. Callers that build
// their own logger should hand it over with SetLogger; everything works the
// same if they never do.
//
// Basic usage:
//
//	if _, ok := msg["role"]; !ok {
//	    return errors.NewInvalidMessageError(i, msg)
//	}
//
// Matching is type-based via errors.Is:
//
//	if stderrors.Is(err, &errors.NanographError{Type: errors.InvalidMessageError}) {
//	    ...
//	}
package errors

import (
	"fmt"

	"go.uber.org/zap"
)

// DefaultLogger is the fallback zap logger for diagnostic output.
// It starts as a production logger and can be replaced with SetLogger.
var DefaultLogger *zap.Logger

func init() {
	var err error
	DefaultLogger, err = zap.NewProduction()
	if err != nil {
		DefaultLogger = zap.NewNop()
	}
}

// SetLogger replaces the package logger. A nil argument is ignored so that
// callers cannot accidentally disable logging.
func SetLogger(logger *zap.Logger) {
	if logger != nil {
		DefaultLogger = logger
	}
}

// ErrorType categorizes a NanographError for programmatic handling.
type ErrorType string

const (
	// InvalidMessageError indicates a mapping that claims to be a chat
	// message but has no "role" key.
	InvalidMessageError ErrorType = "invalid_message"

	// InvalidMessagesFormatError indicates top-level input that is none of
	// the accepted shapes: string, message, thread or batch.
	InvalidMessagesFormatError ErrorType = "invalid_messages_format"

	// InvalidModeError indicates a structured-output mode outside the
	// known set.
	InvalidModeError ErrorType = "invalid_mode"

	// ValidationError indicates an invalid completion request.
	ValidationError ErrorType = "validation_error"

	// ClientError indicates a failure initializing or calling the shared
	// LLM client.
	ClientError ErrorType = "client_error"

	// ConfigError indicates invalid or unloadable configuration.
	ConfigError ErrorType = "config_error"
)

// NanographError is the error type returned by every package in this
// module. It serializes cleanly to JSON while keeping the wrapped error
// available for logging and errors.Is/As chains.
type NanographError struct {
	// Type categorizes the error.
	Type ErrorType `json:"type"`

	// Message is a human-readable description.
	Message string `json:"message"`

	// ReferenceID is a generated identifier for correlating an error with
	// log output.
	ReferenceID string `json:"reference_id"`

	// Details carries diagnostic context such as failing indices.
	Details map[string]interface{} `json:"details,omitempty"`

	// err is the wrapped cause, not exposed in JSON.
	err error
}

// Error implements the error interface.
func (e *NanographError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the wrapped cause, if any.
func (e *NanographError) Unwrap() error {
	return e.err
}

// Is matches errors by Type only, so callers can test categories without
// caring about messages or details.
func (e *NanographError) Is(target error) bool {
	t, ok := target.(*NanographError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithDetail attaches one diagnostic detail and returns the error,
// allowing call-site chaining.
func (e *NanographError) WithDetail(key string, value interface{}) *NanographError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}
