package entities

import (
	"errors"
	"fmt"
)

// Construction errors reported by the entity constructors.
var (
	ErrEmptyID            = errors.New("identifier must not be empty")
	ErrDuplicateAttribute = errors.New("duplicate attribute")
	ErrDuplicateNamespace = errors.New("duplicate namespace")
	ErrNoActions          = errors.New("namespace requires at least one action")
	ErrNoAccounts         = errors.New("application requires at least one account")
	ErrNilAccount         = errors.New("account must not be nil")
	ErrUnknownAction      = errors.New("unknown action")
	ErrUnknownRisk        = errors.New("unknown risk")
)

// IndexOutOfRangeError is returned when an account is requested by an index outside
// the application's bounds.
type IndexOutOfRangeError struct {
	Index int
	Size  int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("index %d out of range [0:%d]", e.Index, e.Size)
}

// ErrorDetail provides structured error information.
// It is the wire form used when a rejected request is reported back to a caller.
// Error Types: "validation", "config", "provisioning", "internal"
type ErrorDetail struct {
	// Wrapped contains a wrapped error for error chains.
	Wrapped *ErrorDetail `json:"wrapped,omitempty"`

	// Details contains additional error context.
	Details map[string]any `json:"details,omitempty"`

	// Message is a human-readable error description.
	Message string `json:"message"`

	// Type categorizes the error.
	Type string `json:"type"`

	// Code is a machine-readable error code.
	Code string `json:"code"`

	// Path locates the offending element inside the request, if any.
	Path string `json:"path,omitempty"`
}

// Error implements the error interface.
func (e *ErrorDetail) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if e.Type != "" && e.Type != "internal" {
		msg = fmt.Sprintf("%s: %s", e.Type, msg)
	}
	if e.Code != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Code)
	}
	if e.Wrapped != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Wrapped.Error())
	}
	return msg
}

// NewErrorDetail creates a new ErrorDetail with the given type and message.
func NewErrorDetail(errorType, message string) *ErrorDetail {
	return &ErrorDetail{
		Type:    errorType,
		Message: message,
	}
}

// WithDetails attaches details and returns e.
func (e *ErrorDetail) WithDetails(details map[string]any) *ErrorDetail {
	e.Details = details
	return e
}

// WithCode attaches a code and returns e.
func (e *ErrorDetail) WithCode(code string) *ErrorDetail {
	e.Code = code
	return e
}

// WithPath attaches the element path and returns e.
func (e *ErrorDetail) WithPath(path string) *ErrorDetail {
	e.Path = path
	return e
}
