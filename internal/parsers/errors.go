package parsers

import (
	"errors"
	"fmt"
)

// ErrSyntax is wrapped by every error caused by malformed source.
var ErrSyntax = errors.New("syntax error")

// SyntaxError reports the first syntax problem tree-sitter found in a file.
// Line and Column are 1-indexed.
type SyntaxError struct {
	FilePath string
	Line     int
	Column   int
	Detail   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error in %s at %d:%d: %s", e.FilePath, e.Line, e.Column, e.Detail)
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}
