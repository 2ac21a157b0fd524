// Package errors provides domain-specific error types for the SDK.
// All error types support error unwrapping via errors.As() and errors.Is().
package errors

import (
	stdErrors "errors"
	"fmt"

	"github.com/reglet-dev/provisioning-sdk/domain/entities"
)

// ErrorDetail is an alias to entities.ErrorDetail for convenience.
type ErrorDetail = entities.ErrorDetail

// DetailedError is an interface for custom error types that can convert themselves
// to a structured ErrorDetail. New error types only need to implement this interface
// without modifying ToErrorDetail.
type DetailedError interface {
	error
	ToErrorDetail() *entities.ErrorDetail
}

// ToErrorDetail converts a Go error to our structured ErrorDetail.
// This function recognizes custom error types and categorizes them appropriately.
func ToErrorDetail(err error) *entities.ErrorDetail {
	if err == nil {
		return nil
	}

	// If the error is already a *ErrorDetail (entity), use it directly.
	var e *entities.ErrorDetail
	if stdErrors.As(err, &e) {
		return e
	}

	var de DetailedError
	if stdErrors.As(err, &de) {
		return de.ToErrorDetail()
	}

	// Generic error - categorize as internal
	return &entities.ErrorDetail{
		Message: err.Error(),
		Type:    "internal",
	}
}

// Kind classifies a SchemaError.
type Kind int

const (
	// MissingField means a required key is absent.
	MissingField Kind = iota + 1
	// InvalidAction means an account or entitlement action is not recognized.
	InvalidAction
	// MalformedRequest means the structural shape is wrong: wrong JSON type,
	// empty required array, duplicate key, unknown risk level or unparsable document.
	MalformedRequest
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case MissingField:
		return "MissingField"
	case InvalidAction:
		return "InvalidAction"
	case MalformedRequest:
		return "MalformedRequest"
	default:
		return "Unknown"
	}
}

func (k Kind) code() string {
	switch k {
	case MissingField:
		return "missing_field"
	case InvalidAction:
		return "invalid_action"
	case MalformedRequest:
		return "malformed_request"
	default:
		return "schema"
	}
}

// Sentinels matching every SchemaError of the corresponding kind with errors.Is.
var (
	ErrMissingField     = &SchemaError{Kind: MissingField}
	ErrInvalidAction    = &SchemaError{Kind: InvalidAction}
	ErrMalformedRequest = &SchemaError{Kind: MalformedRequest}
)

// SchemaError reports a request that does not conform to the wire format.
// Path locates the offending key, e.g. "accounts[1].entitlements[0].actions[2].action".
type SchemaError struct {
	Err  error
	Path string
	Kind Kind
}

// NewSchemaError creates a SchemaError with a formatted cause.
func NewSchemaError(kind Kind, path, format string, args ...any) *SchemaError {
	return &SchemaError{Kind: kind, Path: path, Err: fmt.Errorf(format, args...)}
}

func (e *SchemaError) Error() string {
	msg := "schema violated"
	if e.Path != "" {
		msg = fmt.Sprintf("schema violated for element [%s]", e.Path)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", msg, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", msg, e.Kind)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// Is matches any SchemaError of the same kind, so callers can test against the sentinels.
func (e *SchemaError) Is(target error) bool {
	t, ok := target.(*SchemaError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// ToErrorDetail implements DetailedError.
func (e *SchemaError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "validation", Code: e.Kind.code(), Path: e.Path}
}

// KindOf returns the kind of the first SchemaError in err's chain.
func KindOf(err error) (Kind, bool) {
	var se *SchemaError
	if stdErrors.As(err, &se) {
		return se.Kind, true
	}
	return 0, false
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Err   error
	Field string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config validation failed for field '%s': %v", e.Field, e.Err)
	}
	return fmt.Sprintf("config validation failed: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ConfigError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "config", Code: e.Field}
}

// WireFormatError represents a wire format encoding/decoding error.
type WireFormatError struct {
	Err       error
	Operation string
	Type      string
}

func (e *WireFormatError) Error() string {
	return fmt.Sprintf("wire format %s failed for %s: %v", e.Operation, e.Type, e.Err)
}

func (e *WireFormatError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *WireFormatError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "internal", Code: "wire_format"}
}

// ProvisioningError represents a connector failure while applying one account operation.
type ProvisioningError struct {
	Err         error
	Application string
	Account     string
	Action      entities.AccountAction
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("%s of account %s in %s failed: %v", e.Action, e.Account, e.Application, e.Err)
}

func (e *ProvisioningError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ProvisioningError) ToErrorDetail() *entities.ErrorDetail {
	detail := &entities.ErrorDetail{
		Message: e.Error(),
		Type:    "provisioning",
		Code:    e.Action.String(),
		Details: map[string]any{"application": e.Application, "account": e.Account},
	}
	if e.Err != nil {
		detail.Wrapped = ToErrorDetail(e.Err)
	}
	return detail
}

// PolicyError reports a request denied by a RequestPolicy.
type PolicyError struct {
	Violations []entities.ValidationError
}

func (e *PolicyError) Error() string {
	if len(e.Violations) == 0 {
		return "request denied by policy"
	}
	v := e.Violations[0]
	msg := fmt.Sprintf("request denied by policy: %s", v.Message)
	if v.Field != "" {
		msg = fmt.Sprintf("request denied by policy at [%s]: %s", v.Field, v.Message)
	}
	if n := len(e.Violations) - 1; n > 0 {
		msg += fmt.Sprintf(" (and %d more)", n)
	}
	return msg
}

// ToErrorDetail implements DetailedError.
func (e *PolicyError) ToErrorDetail() *entities.ErrorDetail {
	violations := make([]map[string]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		violations = append(violations, map[string]string{"path": v.Field, "reason": v.Message})
	}
	return &entities.ErrorDetail{
		Message: e.Error(),
		Type:    "policy",
		Code:    "denied",
		Details: map[string]any{"violations": violations},
	}
}
