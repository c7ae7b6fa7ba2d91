package domain

import (
	"errors"
	"fmt"
)

// Sentinel causes wrapped by DataError.
var (
	ErrEmptyDataset  = errors.New("dataset is empty")
	ErrMissingField  = errors.New("required field is missing")
	ErrInvalidNumber = errors.New("not a number")
	ErrNegativeValue = errors.New("negative value")
	ErrInvalidFlag   = errors.New(`expected "Yes" or "No"`)
)

// DataError reports a malformed or missing dataset field. Line is 0 for
// dataset-wide problems such as an empty file.
type DataError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *DataError) Error() string {
	switch {
	case e.Line == 0:
		return fmt.Sprintf("data error: %v", e.Err)
	case e.Value != "":
		return fmt.Sprintf("data error: line %d: %s %q: %v", e.Line, e.Column, e.Value, e.Err)
	default:
		return fmt.Sprintf("data error: line %d: %s: %v", e.Line, e.Column, e.Err)
	}
}

func (e *DataError) Unwrap() error { return e.Err }

// ValidationError reports invalid user input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// TransportError reports a notifier delivery failure.
type TransportError struct {
	Backend string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s delivery failed: %v", e.Backend, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
