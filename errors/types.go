package errors

import (
	"fmt"

	"github.com/google/uuid"
)

// NewError creates a NanographError with full control over its fields.
// Most call sites should prefer one of the specialized constructors below.
func NewError(errType ErrorType, message string, details map[string]interface{}, err error) *NanographError {
	return &NanographError{
		Type:        errType,
		Message:     message,
		ReferenceID: uuid.NewString(),
		Details:     details,
		err:         err,
	}
}

// NewInvalidMessageError reports a message mapping with no "role" key.
// The failing element's index and content are recorded in Details so the
// caller can locate it in the original thread. Pass a negative index when
// the message was validated on its own rather than as part of a thread.
func NewInvalidMessageError(index int, content interface{}) *NanographError {
	details := map[string]interface{}{
		"message": content,
	}
	if index >= 0 {
		details["index"] = index
	}
	return &NanographError{
		Type:        InvalidMessageError,
		Message:     "message must have a role",
		ReferenceID: uuid.NewString(),
		Details:     details,
	}
}

// NewInvalidMessagesFormatError reports top-level input that cannot be
// coerced into a thread or batch: wrong type, a mapping without a role,
// or a sequence of non-message elements.
func NewInvalidMessagesFormatError(input interface{}) *NanographError {
	return &NanographError{
		Type:        InvalidMessagesFormatError,
		Message:     "messages must be a string, message, thread of messages, or batch of threads",
		ReferenceID: uuid.NewString(),
		Details: map[string]interface{}{
			"input_type": typeName(input),
		},
	}
}

// NewInvalidModeError reports a structured-output mode outside the known
// set.
func NewInvalidModeError(mode string, known []string) *NanographError {
	return &NanographError{
		Type:        InvalidModeError,
		Message:     "invalid structured output mode: " + mode,
		ReferenceID: uuid.NewString(),
		Details: map[string]interface{}{
			"mode":        mode,
			"known_modes": known,
		},
	}
}

// NewValidationError reports an invalid completion request.
func NewValidationError(message string, err error) *NanographError {
	return &NanographError{
		Type:        ValidationError,
		Message:     message,
		ReferenceID: uuid.NewString(),
		err:         err,
	}
}

// NewClientError reports a failure initializing or calling the shared LLM
// client.
func NewClientError(message string, err error) *NanographError {
	return &NanographError{
		Type:        ClientError,
		Message:     message,
		ReferenceID: uuid.NewString(),
		err:         err,
	}
}

// NewConfigError reports invalid or unloadable configuration.
func NewConfigError(message string, err error) *NanographError {
	return &NanographError{
		Type:        ConfigError,
		Message:     message,
		ReferenceID: uuid.NewString(),
		err:         err,
	}
}

func typeName(v interface{}) string {
	if v == nil {
		return "nil"
	}
	switch v.(type) {
	case string:
		return "string"
	case map[string]interface{}:
		return "map"
	case []interface{}:
		return "sequence"
	}
	return fmt.Sprintf("%T", v)
}
