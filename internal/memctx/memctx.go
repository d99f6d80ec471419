// Package memctx provides hierarchical memory contexts.
//
// A Context accounts for the byte buffers handed out through it and
// refuses requests that would take it past its limit. Contexts form a
// tree rooted at a top context; resetting a context releases everything
// allocated in it and in its children.
package memctx

import (
	"fmt"
	"log/slog"
)

// MaxAllocSize is the largest single request any context accepts.
const MaxAllocSize = 1<<30 - 1

// AllocError reports a request a context could not satisfy.
type AllocError struct {
	Context   string
	Requested int
	Limit     int
}

func (e *AllocError) Error() string {
	if e.Requested < 0 || e.Requested > MaxAllocSize {
		return fmt.Sprintf("invalid memory alloc request size %d in context %q", e.Requested, e.Context)
	}
	return fmt.Sprintf("out of memory: failed on request of size %d in context %q (limit %d)",
		e.Requested, e.Context, e.Limit)
}

// Context is a named allocation scope. It is not safe for concurrent use.
type Context struct {
	name      string
	parent    *Context
	children  []*Context
	limit     int // 0 means no limit of its own
	allocated int
	logger    *slog.Logger
}

// NewTop creates a root context with no limit.
func NewTop(name string, logger *slog.Logger) *Context {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Context{name: name, logger: logger}
}

// NewChild creates a context under c. limit caps the bytes live in the
// child at once; 0 inherits only the parents' limits.
func (c *Context) NewChild(name string, limit int) *Context {
	child := &Context{name: name, parent: c, limit: limit, logger: c.logger}
	c.children = append(c.children, child)
	return child
}

// Name returns the context name.
func (c *Context) Name() string { return c.name }

// Parent returns the enclosing context, or nil for a top context.
func (c *Context) Parent() *Context { return c.parent }

// SetLimit replaces c's own limit. Live allocations are not checked
// against it.
func (c *Context) SetLimit(limit int) { c.limit = limit }

// Limit returns c's own limit, 0 when it has none.
func (c *Context) Limit() int { return c.limit }

// Allocated returns the bytes live in c and its children.
func (c *Context) Allocated() int { return c.allocated }

// Alloc returns a zero-length buffer with capacity n.
func (c *Context) Alloc(n int) ([]byte, error) {
	if err := c.reserve(n); err != nil {
		return nil, err
	}
	return make([]byte, 0, n), nil
}

// Realloc resizes buf to capacity n, keeping min(len(buf), n) bytes.
func (c *Context) Realloc(buf []byte, n int) ([]byte, error) {
	old := cap(buf)
	if n < 0 || n > MaxAllocSize {
		return nil, &AllocError{Context: c.name, Requested: n, Limit: c.limit}
	}
	if n > old {
		if err := c.reserve(n - old); err != nil {
			return nil, err
		}
	} else {
		c.release(old - n)
	}

	keep := min(len(buf), n)
	next := make([]byte, keep, n)
	copy(next, buf[:keep])
	c.logger.Debug("realloc", "context", c.name, "from", old, "to", n)
	return next, nil
}

// Free returns buf's storage to c.
func (c *Context) Free(buf []byte) {
	c.release(cap(buf))
}

// Reset releases everything allocated in c and its children. The children
// themselves stay attached.
func (c *Context) Reset() {
	for _, child := range c.children {
		child.Reset()
	}
	c.release(c.allocated)
}

// reserve charges n bytes to c and every ancestor, failing without side
// effects when any limit would be exceeded.
func (c *Context) reserve(n int) error {
	if n < 0 || n > MaxAllocSize {
		return &AllocError{Context: c.name, Requested: n, Limit: c.limit}
	}
	for ctx := c; ctx != nil; ctx = ctx.parent {
		if ctx.limit > 0 && ctx.allocated+n > ctx.limit {
			return &AllocError{Context: ctx.name, Requested: n, Limit: ctx.limit}
		}
	}
	for ctx := c; ctx != nil; ctx = ctx.parent {
		ctx.allocated += n
	}
	return nil
}

func (c *Context) release(n int) {
	n = min(n, c.allocated)
	for ctx := c; ctx != nil; ctx = ctx.parent {
		ctx.allocated -= n
	}
}
