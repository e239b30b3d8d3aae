package intelmesh

import (
	"errors"
	"fmt"
)

// ErrMissingField reports that a required key is absent (or null) in the
// document backing a view. It is always wrapped in a *DecodeError; match it
// with errors.Is.
var ErrMissingField = errors.New("missing field")

// DecodeError reports that a view accessor could not produce its value from
// the backing document. View names the view type, Field the offending key.
type DecodeError struct {
	View  string
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: field %q: %s", e.View, e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// UnknownEnumValueError reports a string outside a closed vocabulary.
// It is returned by ParseX constructors and by view accessors decoding
// enum-typed fields (wrapped in a *DecodeError in the latter case).
type UnknownEnumValueError struct {
	Enum  string
	Value string
}

func (e *UnknownEnumValueError) Error() string {
	return fmt.Sprintf("unknown %s value %q", e.Enum, e.Value)
}

// SemanticErrorCode is a machine-readable reason attached to a semantic
// error response.
type SemanticErrorCode string

const (
	SemanticErrorDuplicatedEntityAttribute SemanticErrorCode = "DuplicatedEntityAttribute"
	SemanticErrorInvalidAttribute          SemanticErrorCode = "InvalidAttribute"
	SemanticErrorInvalidAttributeValue     SemanticErrorCode = "InvalidAttributeValue"
	SemanticErrorInvalidKeySet             SemanticErrorCode = "InvalidKeySet"
	SemanticErrorInvalidRelationship       SemanticErrorCode = "InvalidRelationship"
	SemanticErrorInvalidShareLevel         SemanticErrorCode = "InvalidShareLevel"
	SemanticErrorInvalidTime               SemanticErrorCode = "InvalidTime"
)

// SemanticError is returned when the API rejects a request that is
// well-formed but violates domain rules, for example registering an
// observation with an attribute the entity type cannot carry.
type SemanticError struct {
	Code    SemanticErrorCode
	Message string
}

func (e *SemanticError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("semantic error %s", e.Code)
	}
	return fmt.Sprintf("semantic error %s: %s", e.Code, e.Message)
}

// NotFoundError is returned when the requested resource does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.Path)
}

// APIError is returned for non-2xx responses that do not map to a more
// specific error type. Code and Message are taken from the error body when
// the server provides one.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	switch {
	case e.Code != "" && e.Message != "":
		return fmt.Sprintf("api error %d %s: %s", e.StatusCode, e.Code, e.Message)
	case e.Message != "":
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("api error %d", e.StatusCode)
	}
}
