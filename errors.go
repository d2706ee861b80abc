package nawk

import (
	"fmt"
)

// ParseError represents a syntax error in AWK source code.
type ParseError struct {
	Line    int    // 1-based line number
	Column  int    // 1-based column number
	Message string // Error description
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Column, e.Message)
}

// FatalError is a runtime error that stopped the program, such as a
// division by zero or a bad redirection.
type FatalError struct {
	Message string // Error description
	Line    int    // source line, 0 if unknown
	Record  int    // NR when the error happened
}

func (e *FatalError) Error() string {
	msg := e.Message
	if e.Record > 0 {
		msg += fmt.Sprintf("\n input record number %d", e.Record)
	}
	if e.Line > 0 {
		msg += fmt.Sprintf("\n source line number %d", e.Line)
	}
	return msg
}

// ExitError represents a normal exit with a status code.
// This is not an error condition; it indicates the AWK program
// called exit with the given status.
type ExitError struct {
	Code int // Exit status code
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit %d", e.Code)
}

// IsExitError reports whether err is an ExitError and returns the exit code.
// Returns (code, true) if err is an ExitError, or (0, false) otherwise.
func IsExitError(err error) (int, bool) {
	if e, ok := err.(*ExitError); ok {
		return e.Code, true
	}
	return 0, false
}
