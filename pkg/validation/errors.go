package validation

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is matched by every InvalidInputError via errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// ErrConfiguration is matched by every ConfigurationError via errors.Is.
var ErrConfiguration = errors.New("invalid configuration")

// InvalidInputError reports an input that violates a documented invariant.
type InvalidInputError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %s: %s", e.Field, e.Value, e.Reason)
}

// Is lets errors.Is(err, ErrInvalidInput) match.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewInvalidInput builds an InvalidInputError; value is rendered with %v.
func NewInvalidInput(field string, value interface{}, reason string) *InvalidInputError {
	v := ""
	if value != nil {
		v = fmt.Sprintf("%v", value)
	}
	return &InvalidInputError{Field: field, Value: v, Reason: reason}
}

// ConfigurationError reports malformed rules or schedules.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration %s: %s", e.Field, e.Reason)
}

// Is lets errors.Is(err, ErrConfiguration) match.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// NewConfigurationError builds a ConfigurationError.
func NewConfigurationError(field, reason string) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: reason}
}

// FieldOf extracts the offending field from an engine error, if any.
func FieldOf(err error) string {
	var inputErr *InvalidInputError
	if errors.As(err, &inputErr) {
		return inputErr.Field
	}
	var confErr *ConfigurationError
	if errors.As(err, &confErr) {
		return confErr.Field
	}
	return ""
}
