// Package pddlrun invokes an external PDDL planner as a subprocess and
// turns its action traces into human-readable explanations.
package pddlrun

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Kind identifies a failure category. The vocabulary is closed: every
// failure surfaced by this package carries exactly one of these kinds.
type Kind string

const (
	// KindConfiguration covers missing or invalid setup and parameters.
	KindConfiguration Kind = "configuration_error"
	// KindPlanning covers planner runs that produced no usable result or crashed.
	KindPlanning Kind = "planning_error"
	// KindParsing covers template and structured-data processing failures.
	KindParsing Kind = "parsing_error"
	// KindFileIO covers filesystem access failures.
	KindFileIO Kind = "file_io_error"
	// KindTimeout covers bounded waits that were exceeded.
	KindTimeout Kind = "timeout_error"
	// KindNetwork covers connection failures.
	KindNetwork Kind = "network_error"
	// KindValidation covers invalid input data.
	KindValidation Kind = "validation_error"
	// KindUnknown is the fallback for everything else.
	KindUnknown Kind = "unknown_error"
)

// userSummaries maps each kind to its short user-facing summary. The
// summary deliberately says less than the logged diagnostic.
var userSummaries = map[Kind]string{
	KindConfiguration: "configuration error: the planner setup is incomplete or invalid",
	KindPlanning:      "planning failed: no valid plan could be generated",
	KindParsing:       "parsing error: the input could not be processed",
	KindFileIO:        "file error: a file could not be read or written",
	KindTimeout:       "timeout: the operation took too long",
	KindNetwork:       "network error: a connection failed",
	KindValidation:    "validation error: the input data is invalid",
	KindUnknown:       "unknown error",
}

// Failure is an immutable, kind-tagged error value. It wraps an optional
// cause and carries structured context for diagnostics. Once constructed
// a Failure is never re-classified.
type Failure struct {
	Kind      Kind
	Message   string
	Details   map[string]any
	Cause     error
	Timestamp time.Time
}

// NewFailure creates a Failure with the given kind and message.
func NewFailure(kind Kind, message string) *Failure {
	return &Failure{
		Kind:      kind,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// WrapFailure creates a Failure that records err as its cause.
func WrapFailure(kind Kind, message string, err error) *Failure {
	f := NewFailure(kind, message)
	f.Cause = err

	return f
}

// WithDetails returns a copy of the failure carrying the given context map.
func (f *Failure) WithDetails(details map[string]any) *Failure {
	out := *f
	out.Details = details

	return &out
}

// Error implements the error interface.
func (f *Failure) Error() string {
	if f.Cause != nil {
		return "[" + string(f.Kind) + "] " + f.Message + ": " + f.Cause.Error()
	}

	return "[" + string(f.Kind) + "] " + f.Message
}

// Unwrap returns the wrapped cause, if any.
func (f *Failure) Unwrap() error {
	return f.Cause
}

// Is matches failures by kind, so callers can branch with errors.Is
// against a bare NewFailure(kind, "").
func (f *Failure) Is(target error) bool {
	var other *Failure
	if errors.As(target, &other) {
		return f.Kind == other.Kind
	}

	return false
}

// UserMessage returns the short, user-facing rendering of the failure.
func (f *Failure) UserMessage() string {
	summary, ok := userSummaries[f.Kind]
	if !ok {
		summary = userSummaries[KindUnknown]
	}

	if f.Message == "" {
		return summary
	}

	return summary + ": " + f.Message
}

// AsFailure extracts a *Failure from err's chain, if present.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}

	return nil, false
}

// Classifier converts arbitrary errors into typed Failures using a fixed
// rule order. Classification is logged with full diagnostic detail; the
// returned Failure's user-facing message stays short.
type Classifier struct {
	log zerolog.Logger
}

// NewClassifier creates a classifier logging through the given logger.
func NewClassifier(log zerolog.Logger) *Classifier {
	return &Classifier{log: log}
}

// Classify turns err into a Failure carrying the given context details.
// An err that already is a Failure is returned unchanged, which makes
// Classify idempotent.
func (c *Classifier) Classify(err error, details map[string]any) *Failure {
	if f, ok := AsFailure(err); ok {
		c.log.Error().
			Str("kind", string(f.Kind)).
			Interface("details", f.Details).
			Err(err).
			Msg("failure already classified")

		return f
	}

	kind := classifyKind(err)
	f := WrapFailure(kind, err.Error(), err).WithDetails(details)

	c.log.Error().
		Str("kind", string(kind)).
		Interface("details", details).
		Err(err).
		Msg("error classified")

	return f
}

// classifyKind applies the ordered classification rules; first match wins.
func classifyKind(err error) Kind {
	msg := strings.ToLower(err.Error())

	var pathErr *fs.PathError

	switch {
	case errors.Is(err, fs.ErrNotExist) || errors.As(err, &pathErr) ||
		strings.Contains(msg, "no such file"):
		return KindFileIO
	case strings.Contains(msg, "template"):
		return KindParsing
	case isJSONError(err) || strings.Contains(msg, "json"):
		return KindParsing
	case errors.Is(err, exec.ErrNotFound) ||
		strings.Contains(msg, "command not found") ||
		strings.Contains(msg, "executable file not found"):
		return KindConfiguration
	case errors.Is(err, context.DeadlineExceeded) || strings.Contains(msg, "timeout"):
		return KindTimeout
	case strings.Contains(msg, "connection") || strings.Contains(msg, "network"):
		return KindNetwork
	default:
		return KindUnknown
	}
}

func isJSONError(err error) bool {
	var (
		syntaxErr  *json.SyntaxError
		typeErr    *json.UnmarshalTypeError
		marshalErr *json.MarshalerError
	)

	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.As(err, &marshalErr)
}
