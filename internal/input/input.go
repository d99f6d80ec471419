// Package input reads the whole of a SQL input stream into a
// null-terminated buffer owned by a memory context.
package input

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/leapstack-labs/pgparse/internal/memctx"
)

// InitialCapacity is the size of the first read buffer.
const InitialCapacity = 8192

// ReadError reports a failure of the underlying stream.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read input: %v", e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Buffer is the acquired input. The byte after the content is always 0.
type Buffer struct {
	data  []byte // content plus terminator
	ctx   *memctx.Context
	grows int
}

// Bytes returns the content without the terminator.
func (b *Buffer) Bytes() []byte { return b.data[:len(b.data)-1] }

// CString returns the content up to the first 0 byte, the text a C
// string consumer would see.
func (b *Buffer) CString() []byte {
	return b.data[:bytes.IndexByte(b.data, 0)]
}

// String returns the content as a string.
func (b *Buffer) String() string { return string(b.Bytes()) }

// Len returns the content length in bytes.
func (b *Buffer) Len() int { return len(b.data) - 1 }

// Cap returns the storage capacity, content plus terminator.
func (b *Buffer) Cap() int { return cap(b.data) }

// Grows returns how many times the read buffer doubled.
func (b *Buffer) Grows() int { return b.grows }

// Terminated reports whether the content is followed by a 0 byte.
func (b *Buffer) Terminated() bool {
	return len(b.data) > 0 && b.data[len(b.data)-1] == 0
}

// Empty reports whether the input holds no SQL. Like a C string, input
// whose first byte is 0 counts as empty.
func (b *Buffer) Empty() bool { return b.data[0] == 0 }

// Release returns the storage to the owning context.
func (b *Buffer) Release() {
	if b.ctx != nil {
		b.ctx.Free(b.data)
		b.ctx = nil
	}
}

// ReadAll reads r to end of stream into storage allocated from mctx. The
// buffer starts at InitialCapacity bytes and doubles whenever a read fills
// it; when reading is done the storage is shrunk to the content plus a
// terminating 0. r is never closed.
func ReadAll(r io.Reader, mctx *memctx.Context, logger *slog.Logger) (*Buffer, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	buf, err := mctx.Alloc(InitialCapacity)
	if err != nil {
		return nil, err
	}

	grows := 0
	for {
		n, err := io.ReadFull(r, buf[len(buf):cap(buf)])
		buf = buf[:len(buf)+n]
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			mctx.Free(buf)
			return nil, &ReadError{Err: err}
		}

		// The read filled the buffer; there may be more.
		next, err := mctx.Realloc(buf, 2*cap(buf))
		if err != nil {
			mctx.Free(buf)
			return nil, err
		}
		buf = next
		grows++
		logger.Debug("input buffer grown", "len", len(buf), "cap", cap(buf))
	}

	data, err := mctx.Realloc(buf, len(buf)+1)
	if err != nil {
		mctx.Free(buf)
		return nil, err
	}
	data = append(data, 0)
	logger.Debug("input read", "bytes", len(data)-1, "grows", grows)
	return &Buffer{data: data, ctx: mctx, grows: grows}, nil
}
