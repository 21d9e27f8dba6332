// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package stages

import (
	"fmt"

	"github.com/mdhender/ijson"
)

// ErrWriteFile is returned when file I/O operations fail.
type ErrWriteFile struct {
	Op   string // mkdir, write, read
	Path string
	Err  error
}

func (e *ErrWriteFile) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ErrWriteFile) Unwrap() error {
	return e.Err
}

// ErrDatabase is returned when database operations fail.
type ErrDatabase struct {
	Op  string
	Err error
}

func (e *ErrDatabase) Error() string {
	return fmt.Sprintf("database %s: %v", e.Op, e.Err)
}

func (e *ErrDatabase) Unwrap() error {
	return e.Err
}

// ErrParse is returned when a document is rejected by the parser.
// Err is the parser's error, usually an *ijson.SyntaxError.
type ErrParse struct {
	Path string
	Err  error
}

func (e *ErrParse) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ErrParse) Unwrap() error {
	return e.Err
}

// Error code constants for database storage.
// Parse failures are stored with the parser's own codes (ijson.ErrCodeSyntax, etc).
const (
	ErrCodeWriteFile = "WRITE_FILE"
	ErrCodeDatabase  = "DATABASE"
	ErrCodeUnknown   = ijson.ErrCodeUnknown
)

// ErrorCode returns the error code string for a given error.
func ErrorCode(err error) string {
	switch e := err.(type) {
	case *ErrWriteFile:
		return ErrCodeWriteFile
	case *ErrDatabase:
		return ErrCodeDatabase
	case *ErrParse:
		return ijson.ErrorCode(e.Err)
	default:
		return ErrCodeUnknown
	}
}
