package harness

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/pgparse/pkg/elog"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

var (
	// ErrEmptyInput is returned when the input holds no SQL.
	ErrEmptyInput = errors.New("empty input")
	// ErrEmptyParse is returned when the grammar accepts the input but
	// produces no statements.
	ErrEmptyParse = errors.New("parser returned empty tree")
	// ErrSerialization is returned when a tree serializes to nothing.
	ErrSerialization = errors.New("nodeToString returned NULL")
)

// UsageError reports an unusable command line.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string { return e.Message }

// ResourceError reports a failure to acquire memory, open the input
// file or read the input stream.
type ResourceError struct {
	Op  string // "alloc", "open" or "read"
	Err error
}

func (e *ResourceError) Error() string {
	switch e.Op {
	case "alloc":
		return "out of memory"
	case "open":
		return "failed to open file"
	default:
		return "failed to read input"
	}
}

func (e *ResourceError) Unwrap() error { return e.Err }

// ParseError carries the error record raised by the grammar.
type ParseError struct {
	Data *elog.ErrorData
}

// Message returns the report text, or "parse error" when it has none.
func (e *ParseError) Message() string {
	if e.Data == nil || e.Data.Message == "" {
		return "parse error"
	}
	return e.Data.Message
}

// SQLState returns the five-character code, "XXXXX" when absent.
func (e *ParseError) SQLState() string {
	if e.Data == nil {
		return elog.SQLState("").Code()
	}
	return e.Data.SQLState.Code()
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s (sqlstate %s)", e.Message(), e.SQLState())
}

// ExitCode maps an error from Run's pipeline onto a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var usage *UsageError
	if errors.As(err, &usage) {
		return ExitUsage
	}
	return ExitFailure
}
