// Package elog reports errors raised while parsing.
//
// A report at level ERROR transfers control non-locally: Ereport records an
// ErrorData in the State and unwinds the stack with a panic that only
// State.Try intercepts. Reports below ERROR are logged and parsing continues.
//
//	var tree *nodes.List
//	if ed := es.Try(func() { tree = parser.RawParser(es, src, mode) }); ed != nil {
//	    // ed.Message, ed.SQLState
//	}
package elog

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/text/message"
)

// Level is the severity of a report.
type Level int

// Report levels, in increasing severity.
const (
	DEBUG Level = iota
	LOG
	NOTICE
	WARNING
	ERROR
)

var levelNames = [...]string{"DEBUG", "LOG", "NOTICE", "WARNING", "ERROR"}

func (l Level) String() string {
	if l < DEBUG || l > ERROR {
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
	return levelNames[l]
}

// SlogLevel maps a report level onto the slog level it is logged at.
func (l Level) SlogLevel() slog.Level {
	switch l {
	case DEBUG:
		return slog.LevelDebug
	case LOG, NOTICE:
		return slog.LevelInfo
	case WARNING:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// ErrorData is the structured record of one report.
type ErrorData struct {
	Level    Level
	SQLState SQLState
	Message  string
	// Cursor is the 1-based character position the report refers to,
	// or 0 when the report has no position.
	Cursor int
}

func (e *ErrorData) Error() string {
	return fmt.Sprintf("%s (sqlstate %s)", e.Message, e.SQLState.Code())
}

// abort is the panic value that carries an ERROR report up to Try.
type abort struct{}

// State holds the error-reporting stack of one parser runtime. It is not
// safe for concurrent use; the harness owns exactly one.
type State struct {
	printer *message.Printer
	logger  *slog.Logger
	arena   Arena
	stack   []*ErrorData
}

// Arena is the memory an ERROR report's message is charged to until the
// error state is flushed.
type Arena interface {
	Alloc(n int) ([]byte, error)
	Reset()
}

// NewState creates an error state that formats messages through printer
// and logs non-error reports to logger. Either may be nil.
func NewState(printer *message.Printer, logger *slog.Logger) *State {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &State{printer: printer, logger: logger}
}

// SetArena charges recorded ERROR messages to a. A nil arena disables
// the accounting.
func (s *State) SetArena(a Arena) {
	s.arena = a
}

// Ereport formats a report. At level ERROR it does not return.
func (s *State) Ereport(level Level, code SQLState, cursor int, format string, args ...any) {
	ed := &ErrorData{
		Level:    level,
		SQLState: code,
		Message:  s.sprintf(format, args...),
		Cursor:   cursor,
	}
	if level < ERROR {
		s.logger.Log(context.Background(), level.SlogLevel(), ed.Message,
			"level", level.String(),
			"sqlstate", code.Code(),
			"cursor", cursor)
		return
	}
	if s.arena != nil {
		// Out of error memory the report is still raised, unaccounted.
		if buf, err := s.arena.Alloc(len(ed.Message)); err == nil {
			ed.Message = string(append(buf, ed.Message...))
		}
	}
	s.stack = append(s.stack, ed)
	panic(abort{})
}

// Errorf is shorthand for an ERROR report; it does not return.
func (s *State) Errorf(code SQLState, cursor int, format string, args ...any) {
	s.Ereport(ERROR, code, cursor, format, args...)
}

// CopyErrorData returns a copy of the most recent ERROR report, or nil.
func (s *State) CopyErrorData() *ErrorData {
	if len(s.stack) == 0 {
		return nil
	}
	ed := *s.stack[len(s.stack)-1]
	return &ed
}

// FlushErrorState discards every recorded report.
func (s *State) FlushErrorState() {
	s.stack = s.stack[:0]
	if s.arena != nil {
		s.arena.Reset()
	}
}

// Pending reports how many ERROR reports are recorded.
func (s *State) Pending() int {
	return len(s.stack)
}

// Try runs fn inside a protected region. An ERROR raised by fn is returned
// as a copied record, and the error state is flushed on every exit path.
// Panics that are not error reports propagate unchanged.
func (s *State) Try(fn func()) (ed *ErrorData) {
	defer s.FlushErrorState()
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if _, ok := r.(abort); !ok {
			panic(r)
		}
		ed = s.CopyErrorData()
		if ed == nil {
			ed = &ErrorData{Level: ERROR, Message: s.sprintf("parse error")}
		}
	}()
	fn()
	return nil
}

func (s *State) sprintf(format string, args ...any) string {
	if s.printer == nil {
		return fmt.Sprintf(format, args...)
	}
	return s.printer.Sprintf(format, args...)
}
