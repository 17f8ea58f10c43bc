package urlenc

import (
	"errors"
	"fmt"
)

var (
	errTruncatedEscape = errors.New("truncated percent escape")
	errBadEscape       = errors.New("invalid percent escape")
)

// Code classifies a codec failure.
type Code string

const (
	// Decode failures.
	CodeMalformed           Code = "malformed"             // bad percent escape or invalid UTF-8
	CodeInvalidScalar       Code = "invalid_scalar"        // value failed a primitive parse
	CodeUnknownVariant      Code = "unknown_variant"       // value matched no declared enum variant
	CodeExpectedUnitVariant Code = "expected_unit_variant" // matched variant carries a payload
	CodeUnexpectedData      Code = "unexpected_data"       // entries remained for an empty target
	CodeShapeMismatch       Code = "shape_mismatch"        // value shape incompatible with the target

	// Encode failures.
	CodeUnsupportedType  Code = "unsupported_type"
	CodeUnsupportedValue Code = "unsupported_value"
)

// Error reports a decode failure. Key names the wire key being decoded when
// one is known.
type Error struct {
	Code    Code
	Key     string
	Message string
}

func (e *Error) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("urlenc: %s: key %q: %s", e.Code, e.Key, e.Message)
	}
	return fmt.Sprintf("urlenc: %s: %s", e.Code, e.Message)
}

func newError(code Code, key, format string, args ...any) *Error {
	return &Error{Code: code, Key: key, Message: fmt.Sprintf(format, args...)}
}

// EncodeError reports that a value cannot be represented in the flat
// key-value wire format.
type EncodeError struct {
	Code    Code
	Key     string
	Message string
}

func (e *EncodeError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("urlenc: %s: key %q: %s", e.Code, e.Key, e.Message)
	}
	return fmt.Sprintf("urlenc: %s: %s", e.Code, e.Message)
}

func newEncodeError(code Code, key, format string, args ...any) *EncodeError {
	return &EncodeError{Code: code, Key: key, Message: fmt.Sprintf(format, args...)}
}
