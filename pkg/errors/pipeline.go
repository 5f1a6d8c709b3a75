package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ConfigurationError is returned for missing or invalid configuration keys,
// including unknown dataset kinds, model names and hyperparameters.
type ConfigurationError struct {
	Field  string
	Reason string
	Value  interface{}
}

func (e *ConfigurationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("baseline: invalid configuration '%s': %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("baseline: invalid configuration '%s': %s (got: %v)", e.Field, e.Reason, e.Value)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *ConfigurationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("field", e.Field).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ConfigurationError")
}

// NewConfigurationError creates a ConfigurationError with a stack trace.
func NewConfigurationError(field, reason string, value interface{}) error {
	return errors.WithStack(&ConfigurationError{Field: field, Reason: reason, Value: value})
}

// DataError is returned when a dataset cannot be used as requested: a missing
// target column, a non-numeric feature, or too few members in a class to
// stratify.
type DataError struct {
	Field  string
	Reason string
}

func (e *DataError) Error() string {
	return fmt.Sprintf("baseline: data error on '%s': %s", e.Field, e.Reason)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *DataError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("field", e.Field).
		Str("reason", e.Reason).
		Str("type", "DataError")
}

// NewDataError creates a DataError with a stack trace.
func NewDataError(field, reason string) error {
	return errors.WithStack(&DataError{Field: field, Reason: reason})
}

// NotFoundError is returned when an input file does not exist.
type NotFoundError struct {
	Resource string
	Path     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("baseline: %s not found: %s", e.Resource, e.Path)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *NotFoundError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("resource", e.Resource).
		Str("path", e.Path).
		Str("type", "NotFoundError")
}

// NewNotFoundError creates a NotFoundError with a stack trace.
func NewNotFoundError(resource, path string) error {
	return errors.WithStack(&NotFoundError{Resource: resource, Path: path})
}

// ArtifactNotFoundError is returned when evaluation cannot load the artifacts
// of a previous training run.
type ArtifactNotFoundError struct {
	Path string
	Err  error
}

func (e *ArtifactNotFoundError) Error() string {
	msg := fmt.Sprintf("baseline: artifact not found at %s; run training first", e.Path)
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *ArtifactNotFoundError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *ArtifactNotFoundError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("path", e.Path).
		Str("type", "ArtifactNotFoundError")
	if e.Err != nil {
		event.Str("cause", e.Err.Error())
	}
}

// NewArtifactNotFoundError creates an ArtifactNotFoundError with a stack trace.
func NewArtifactNotFoundError(path string, cause error) error {
	return errors.WithStack(&ArtifactNotFoundError{Path: path, Err: cause})
}

// IOError is returned when persisting artifacts fails. A run that returns an
// IOError has left no partial artifacts behind.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("baseline: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *IOError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("path", e.Path).
		Str("cause", fmt.Sprint(e.Err)).
		Str("type", "IOError")
}

// NewIOError creates an IOError with a stack trace.
func NewIOError(op, path string, err error) error {
	return errors.WithStack(&IOError{Op: op, Path: path, Err: err})
}

// Process exit codes for the command line entry points.
const (
	ExitOK            = 0
	ExitFailure       = 1
	ExitConfiguration = 2
	ExitData          = 3
	ExitArtifact      = 4
	ExitIO            = 5
)

// ExitCode maps err onto a process exit code. nil maps to ExitOK.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var (
		cfgErr      *ConfigurationError
		dataErr     *DataError
		notFound    *NotFoundError
		artifactErr *ArtifactNotFoundError
		ioErr       *IOError
	)
	switch {
	case As(err, &artifactErr):
		return ExitArtifact
	case As(err, &cfgErr):
		return ExitConfiguration
	case As(err, &dataErr), As(err, &notFound):
		return ExitData
	case As(err, &ioErr):
		return ExitIO
	default:
		return ExitFailure
	}
}
