package wirebind

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DefinitionCode classifies an endpoint definition failure.
type DefinitionCode string

const (
	CodeNoName                   DefinitionCode = "no_name"
	CodeNoMethod                 DefinitionCode = "no_method"
	CodeNoPath                   DefinitionCode = "no_path"
	CodeInvalidTemplate          DefinitionCode = "invalid_template"
	CodeInvalidLifecycle         DefinitionCode = "invalid_lifecycle"
	CodeConflictingBodyPlacement DefinitionCode = "conflicting_body_placement"
	CodeUnsupportedPlacement     DefinitionCode = "unsupported_placement"
	CodeUnboundPathField         DefinitionCode = "unbound_path_field"
	CodeUnboundPlaceholder       DefinitionCode = "unbound_placeholder"
	CodeInvalidTag               DefinitionCode = "invalid_tag"
	CodeInvalidType              DefinitionCode = "invalid_type"
)

// DefinitionError reports that an endpoint definition is broken. It is
// raised once, when the endpoint is compiled, and is a programmer error:
// a definition that fails to compile can never be exercised.
type DefinitionError struct {
	Code     DefinitionCode
	Endpoint string // spec name, when known
	Detail   string
}

func (e *DefinitionError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("wirebind: endpoint %q: %s: %s", e.Endpoint, e.Code, e.Detail)
	}
	return fmt.Sprintf("wirebind: %s: %s", e.Code, e.Detail)
}

func defErr(code DefinitionCode, format string, args ...any) *DefinitionError {
	return &DefinitionError{Code: code, Detail: fmt.Sprintf(format, args...)}
}

// DecodeCode classifies a per-call wire conversion failure.
type DecodeCode string

const (
	// CodeMissingField marks a required field with no wire data: a query
	// or header entry that is absent, or a path that matches no template.
	CodeMissingField DecodeCode = "missing_field"

	// CodeInvalidValue marks a field whose wire data exists but does not
	// decode; the underlying urlenc error is wrapped.
	CodeInvalidValue DecodeCode = "invalid_value"

	// CodeInvalidBody marks a structured body that the body codec rejects.
	CodeInvalidBody DecodeCode = "invalid_body"

	// CodeValidationFailed marks a decoded request that violates its
	// `validate` tag rules.
	CodeValidationFailed DecodeCode = "validation_failed"
)

// DecodeError reports a wire conversion failure. Unlike a DefinitionError
// it is recoverable: the caller rejects the one message and carries on.
type DecodeError struct {
	Code    DecodeCode
	Field   string // wire name of the offending field, when known
	Message string
	Details map[string]any // per-field messages for validation failures
	err     error
}

func (e *DecodeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("wirebind: %s: field %q: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("wirebind: %s: %s", e.Code, e.Message)
}

func (e *DecodeError) Unwrap() error { return e.err }

func decodeErr(code DecodeCode, field, format string, args ...any) *DecodeError {
	return &DecodeError{Code: code, Field: field, Message: fmt.Sprintf(format, args...)}
}

// wrapDecodeErr carries an underlying codec error with field context.
func wrapDecodeErr(code DecodeCode, field string, err error) *DecodeError {
	return &DecodeError{Code: code, Field: field, Message: err.Error(), err: err}
}

// validationError maps validator violations onto a DecodeError with one
// detail entry per failed field.
func validationError(err error) *DecodeError {
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return &DecodeError{Code: CodeValidationFailed, Message: err.Error(), err: err}
	}
	details := make(map[string]any, len(valErrs))
	messages := make([]string, 0, len(valErrs))
	for _, ve := range valErrs {
		msg := formatValidationError(ve)
		details[ve.Field()] = msg
		messages = append(messages, ve.Field()+": "+msg)
	}
	return &DecodeError{
		Code:    CodeValidationFailed,
		Message: strings.Join(messages, "; "),
		Details: details,
		err:     err,
	}
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", ve.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", ve.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", ve.Param())
	case "eq":
		return fmt.Sprintf("must equal %s", ve.Param())
	case "ne":
		return fmt.Sprintf("must not equal %s", ve.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", ve.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", ve.Param())
	case "lt":
		return fmt.Sprintf("must be less than %s", ve.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", ve.Param())
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", ve.Param())
	default:
		if ve.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", ve.Tag(), ve.Param())
		}
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}
