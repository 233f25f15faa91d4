package app

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/agis/hitcount/internal/hitcount"
)

const (
	ExitGeneric    = 1
	ExitUsage      = 2
	ExitFileAccess = 4
	ExitMalformed  = 5
)

type AppError struct {
	Code    int
	Err     error
	Printed bool
}

func (e AppError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

func (e AppError) Unwrap() error { return e.Err }

func Wrap(code int, err error) error {
	if err == nil {
		return nil
	}
	return AppError{Code: code, Err: err}
}

func WrapPrinted(code int, err error) error {
	if err == nil {
		return nil
	}
	return AppError{Code: code, Err: err, Printed: true}
}

func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var e AppError
	if errors.As(err, &e) {
		return e.Code
	}
	return ExitGeneric
}

// ArgumentError reports a bad command line or configuration value.
type ArgumentError struct {
	Got int
	Err error
}

func (e ArgumentError) Error() string {
	if e.Err != nil {
		return "argument error: " + e.Err.Error()
	}
	return fmt.Sprintf("argument error: expected exactly one input file, got %d argument(s)", e.Got)
}

func (e ArgumentError) Unwrap() error { return e.Err }

// FileAccessError reports an input file that could not be opened or read.
type FileAccessError struct {
	Path string
	Err  error
}

func (e FileAccessError) Error() string {
	cause := e.Err
	var pathErr *fs.PathError
	if errors.As(cause, &pathErr) {
		cause = pathErr.Err
	}
	return fmt.Sprintf("file access error: %s: %v", e.Path, cause)
}

func (e FileAccessError) Unwrap() error { return e.Err }

// classify maps a run failure to its exit code and a user hint.
func classify(err error) (int, string) {
	var argErr ArgumentError
	var fileErr FileAccessError
	var lineErr hitcount.LineError
	switch {
	case errors.As(err, &argErr):
		return ExitUsage, "Usage: hitcount [flags] <file>"
	case errors.As(err, &fileErr):
		return ExitFileAccess, "Check that the path exists and is a readable file"
	case errors.As(err, &lineErr):
		return ExitMalformed, "Each line must be <epoch-millis>|<website>"
	default:
		return ExitCode(err), ""
	}
}
