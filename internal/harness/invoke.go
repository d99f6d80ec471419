package harness

import (
	"log/slog"

	"github.com/leapstack-labs/pgparse/internal/input"
	"github.com/leapstack-labs/pgparse/internal/runtime"
	"github.com/leapstack-labs/pgparse/pkg/nodes"
	"github.com/leapstack-labs/pgparse/pkg/parser"
)

// Invoker runs the grammar inside the runtime's protected error region.
type Invoker struct {
	rt     *runtime.Runtime
	opts   []parser.Option
	logger *slog.Logger
}

// NewInvoker creates an invoker bound to rt's error state and options.
func NewInvoker(rt *runtime.Runtime) *Invoker {
	return &Invoker{
		rt:     rt,
		opts:   rt.ParserOptions(),
		logger: rt.Logger,
	}
}

// Invoke parses buf with the entry point mode. An error raised while
// parsing comes back as a *ParseError; the error state is flushed either
// way. Panics other than error reports are not recovered.
func (inv *Invoker) Invoke(buf *input.Buffer, mode parser.Mode) (*nodes.List, error) {
	es := inv.rt.Errors

	var tree *nodes.List
	ed := es.Try(func() {
		tree = parser.RawParser(es, string(buf.CString()), mode, inv.opts...)
	})
	if ed != nil {
		inv.logger.Debug("parse failed", "mode", mode.String(), "sqlstate", ed.SQLState.Code(), "cursor", ed.Cursor)
		return nil, &ParseError{Data: ed}
	}
	if tree.Len() == 0 {
		return nil, ErrEmptyParse
	}

	inv.logger.Debug("parsed", "mode", mode.String(), "items", tree.Len())
	return tree, nil
}
