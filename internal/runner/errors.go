package runner

import (
	"context"
	"errors"

	"github.com/mvp-joe/javameta/internal/config"
	"github.com/mvp-joe/javameta/internal/output"
	"github.com/mvp-joe/javameta/internal/parsers"
)

var (
	// ErrFileAccess is wrapped when a listed source file cannot be read.
	ErrFileAccess = errors.New("file access error")

	// ErrInvalidPattern is wrapped when an exclude pattern does not compile.
	ErrInvalidPattern = errors.New("invalid exclude pattern")
)

// Kind is the category of a run failure.
type Kind string

const (
	KindConfiguration Kind = "configuration"
	KindFileAccess    Kind = "file_access"
	KindParse         Kind = "parse"
	KindSerialization Kind = "serialization"
	KindCanceled      Kind = "canceled"
	KindUnknown       Kind = "unknown"
)

// Classify maps an error returned by config loading, Run or a sink to its Kind.
// Cancellation takes precedence, then the categories in the order listed.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	case errors.Is(err, config.ErrConfiguration):
		return KindConfiguration
	case errors.Is(err, ErrFileAccess):
		return KindFileAccess
	case errors.Is(err, parsers.ErrSyntax):
		return KindParse
	case errors.Is(err, output.ErrSerialization):
		return KindSerialization
	default:
		return KindUnknown
	}
}

// ExitCode returns the process exit status for the kind.
func (k Kind) ExitCode() int {
	switch k {
	case "":
		return 0
	case KindConfiguration:
		return 2
	case KindFileAccess:
		return 3
	case KindParse:
		return 4
	case KindSerialization:
		return 5
	case KindCanceled:
		return 130
	default:
		return 1
	}
}
