package parser

import (
	"fmt"

	"github.com/kolkov/nawk/internal/token"
)

// ParseError is a problem found while parsing, located at the token where
// it was noticed.
type ParseError struct {
	Pos     token.Position
	Message string
}

func (e *ParseError) Error() string {
	if !e.Pos.IsValid() {
		return e.Message
	}
	return e.Pos.String() + ": " + e.Message
}

func errorf(pos token.Position, format string, args ...any) *ParseError {
	return &ParseError{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// ErrorList holds every error of one parse in source order. Its message
// is the first error plus a count of the rest.
type ErrorList []*ParseError

func (l ErrorList) Error() string {
	if len(l) == 0 {
		return "no errors"
	}
	msg := l[0].Error()
	if n := len(l) - 1; n > 0 {
		msg += fmt.Sprintf(" (and %d more)", n)
	}
	return msg
}

func (l ErrorList) err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}
