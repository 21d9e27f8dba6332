// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package ijson

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax is matched by every parse failure.
	ErrSyntax = errors.New("syntax error")

	// ErrTypeMismatch is returned when an accessor is called on the wrong kind of value.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrOutOfRange is returned when an index is outside of an array or object.
	ErrOutOfRange = errors.New("index out of range")
	// ErrMissingKey is returned when an object has no entry for a key.
	ErrMissingKey = errors.New("missing key")
)

// SyntaxError is returned when the input does not conform to the grammar.
// Pos is the location of the character that could not be accepted.
type SyntaxError struct {
	Message string
	Source  string // name of the input, may be empty
	Pos     Position
}

func (e *SyntaxError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s:%s: %s", e.Source, e.Pos, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// QueryError is returned by the Value accessors.
// Err is one of ErrTypeMismatch, ErrOutOfRange or ErrMissingKey.
type QueryError struct {
	Op    string // AsInteger, ItemAt, ItemAtKey
	Kind  Kind   // kind of the value that was queried
	Index int    // set for ItemAt
	Key   string // set for ItemAtKey
	Err   error
}

func (e *QueryError) Error() string {
	switch e.Op {
	case "ItemAt":
		return fmt.Sprintf("ijson: %s(%d) on %s: %v", e.Op, e.Index, e.Kind, e.Err)
	case "ItemAtKey":
		return fmt.Sprintf("ijson: %s(%q) on %s: %v", e.Op, e.Key, e.Kind, e.Err)
	}
	return fmt.Sprintf("ijson: %s on %s: %v", e.Op, e.Kind, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// Error code constants, stable enough to persist.
const (
	ErrCodeSyntax       = "SYNTAX"
	ErrCodeTypeMismatch = "TYPE_MISMATCH"
	ErrCodeOutOfRange   = "OUT_OF_RANGE"
	ErrCodeMissingKey   = "MISSING_KEY"
	ErrCodeUnknown      = "UNKNOWN"
)

// ErrorCode returns the error code string for a given error.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrSyntax):
		return ErrCodeSyntax
	case errors.Is(err, ErrTypeMismatch):
		return ErrCodeTypeMismatch
	case errors.Is(err, ErrOutOfRange):
		return ErrCodeOutOfRange
	case errors.Is(err, ErrMissingKey):
		return ErrCodeMissingKey
	default:
		return ErrCodeUnknown
	}
}
