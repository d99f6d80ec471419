// Package harness drives one parse-and-dump run: it initializes the
// runtime, reads the input, parses it in the selected mode and prints the
// canonical tree text.
//
// A run moves through these states and exits from exactly one of them:
//
//	Start -> Initialized -> InputRead -> Parsed -> Serialized  (exit 0)
//	                                           \-> Reported    (exit 1)
//
// Every failure is reported on stderr as "<progname>: <message>".
package harness

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/leapstack-labs/pgparse/internal/input"
	"github.com/leapstack-labs/pgparse/internal/memctx"
	"github.com/leapstack-labs/pgparse/internal/runtime"
)

// InitFunc produces the runtime for a run.
type InitFunc func(argv0 string) (*runtime.Runtime, error)

// Settings select what a run parses.
type Settings struct {
	// Argv0 names the program; its base name prefixes messages.
	Argv0 string `koanf:"argv0"`
	// Mode is the grammar entry point name.
	Mode string `koanf:"mode"`
	// File is read instead of stdin when set.
	File string `koanf:"file"`
	// Init builds the runtime. Defaults to runtime.InitOnce.
	Init InitFunc `koanf:"-"`
}

// Run performs one run and returns the process exit code.
func Run(s Settings, stdin io.Reader, stdout, stderr io.Writer) int {
	err := run(s, stdin, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %s\n", runtime.Progname(s.Argv0), err)
	}
	return ExitCode(err)
}

func run(s Settings, stdin io.Reader, stdout io.Writer) error {
	mode := SelectMode(s.Mode)

	initFn := s.Init
	if initFn == nil {
		initFn = runtime.InitOnce
	}
	rt, err := initFn(s.Argv0)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	logger := rt.Logger.With("mode", mode.String())
	logger.Debug("initialized")

	r := stdin
	if s.File != "" {
		f, err := os.Open(s.File)
		if err != nil {
			logger.Debug("open failed", "file", s.File, "error", err)
			return &ResourceError{Op: "open", Err: err}
		}
		defer f.Close()
		r = f
	}

	buf, err := input.ReadAll(r, rt.InputContext, logger)
	if err != nil {
		logger.Debug("read failed", "error", err)
		var allocErr *memctx.AllocError
		if errors.As(err, &allocErr) {
			return &ResourceError{Op: "alloc", Err: err}
		}
		return &ResourceError{Op: "read", Err: err}
	}
	defer buf.Release()
	logger.Debug("input read", "bytes", buf.Len())

	if buf.Empty() {
		return ErrEmptyInput
	}

	tree, err := NewInvoker(rt).Invoke(buf, mode)
	if err != nil {
		return err
	}

	out, err := Serialize(tree)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(stdout, out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	logger.Debug("serialized", "bytes", len(out))
	return nil
}
