package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a scheduling failure. The repair loop switches on
// kinds rather than matching message text.
type ErrorKind string

const (
	// KindDuration marks a value outside the allowed range or not
	// block-aligned. Local, fail-fast, never retried.
	KindDuration ErrorKind = "duration"
	// KindStructure marks a malformed schedule or broken invariant.
	// Fatal, never retried.
	KindStructure ErrorKind = "structure"
	// KindParse marks a response body that could not be decoded. Retryable.
	KindParse ErrorKind = "parse"
	// KindRateLimit marks a 429/529 or equivalent rejection. Retryable
	// with an elevated backoff floor.
	KindRateLimit ErrorKind = "rate_limit"
	// KindOverloaded marks an explicit overload rejection. Retryable with
	// the highest backoff floor.
	KindOverloaded ErrorKind = "overloaded"
	// KindServer marks a 5xx rejection. Retryable.
	KindServer ErrorKind = "server"
	// KindValidation marks an explicit remote validation rejection, which
	// may be repairable when it names a story block.
	KindValidation ErrorKind = "validation"
	// KindOverflow marks day capacity exhaustion. Reported in distribution
	// summaries, never raised.
	KindOverflow ErrorKind = "overflow"
)

// SchedulingError is the tagged error type used across the engine. Details
// carries structured context (block names, HTTP status, attempt counts) so
// callers never re-parse the message.
type SchedulingError struct {
	Kind    ErrorKind
	Message string
	Details map[string]any
}

func (e *SchedulingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Retryable reports whether the repair loop may resubmit after this error.
func (e *SchedulingError) Retryable() bool {
	switch e.Kind {
	case KindParse, KindRateLimit, KindOverloaded, KindServer, KindValidation:
		return true
	default:
		return false
	}
}

// Detail returns a string-typed detail value, or "" when absent.
func (e *SchedulingError) Detail(key string) string {
	if e.Details == nil {
		return ""
	}
	if v, ok := e.Details[key].(string); ok {
		return v
	}
	return ""
}

// NewSchedulingError builds an error of the given kind. Detail pairs are
// supplied as alternating key, value arguments.
func NewSchedulingError(kind ErrorKind, message string, kv ...any) *SchedulingError {
	e := &SchedulingError{Kind: kind, Message: message}
	if len(kv) > 0 {
		e.Details = make(map[string]any, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			key, ok := kv[i].(string)
			if !ok {
				continue
			}
			e.Details[key] = kv[i+1]
		}
	}
	return e
}

// AsSchedulingError unwraps err into a *SchedulingError if one is present
// anywhere in its chain.
func AsSchedulingError(err error) (*SchedulingError, bool) {
	var se *SchedulingError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// ErrorKindOf returns the kind of err, or "" for non-scheduling errors.
func ErrorKindOf(err error) ErrorKind {
	if se, ok := AsSchedulingError(err); ok {
		return se.Kind
	}
	return ""
}

// DetailBlock is the Details key naming the story block a validation
// rejection refers to.
const DetailBlock = "block"

// DetailStatus is the Details key carrying the HTTP status of a remote
// rejection.
const DetailStatus = "status"

// DetailAttempts is the Details key carrying the number of submission
// attempts made before giving up.
const DetailAttempts = "attempts"
