// Package diff compares the tree dump of a reference parse helper with the
// in-process parser, input by input.
package diff

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/leapstack-labs/pgparse/pkg/nodes"
	"github.com/leapstack-labs/pgparse/pkg/parser"
)

// StdinPath names standard input as a file argument.
const StdinPath = "-"

// contextWidth is how many bytes of context are shown on each side of the
// first difference.
const contextWidth = 40

// ErrMismatch is returned when the two outputs differ.
var ErrMismatch = errors.New("nodeToString mismatch")

// HelperError reports a reference helper that failed to run or exited
// non-zero.
type HelperError struct {
	Err    error
	Stderr string
}

func (e *HelperError) Error() string {
	return fmt.Sprintf("pg helper error: %v: %s", e.Err, e.Stderr)
}

func (e *HelperError) Unwrap() error { return e.Err }

// Comparer runs both parsers over the same input.
type Comparer struct {
	// HelperPath is the reference binary. It reads SQL on stdin and
	// accepts --mode.
	HelperPath string
	Mode       parser.Mode
	// Env is added to the helper's environment.
	Env []string
	// Out receives the OK / MISMATCH report.
	Out    io.Writer
	Stdin  io.Reader
	Logger *slog.Logger
}

// Result is the outcome for one input.
type Result struct {
	Label     string
	Reference string
	Local     string
}

// Match reports whether both parsers produced the same text.
func (r *Result) Match() bool { return r.Reference == r.Local }

// CompareSQL runs both parsers over sql.
func (c *Comparer) CompareSQL(ctx context.Context, label, sql string) (*Result, error) {
	ref, err := c.runHelper(ctx, sql)
	if err != nil {
		return nil, err
	}
	local, err := c.runLocal(sql)
	if err != nil {
		return nil, fmt.Errorf("pgparse error: %w", err)
	}
	return &Result{Label: label, Reference: ref, Local: local}, nil
}

// CompareFile compares one file, or stdin when path is StdinPath, and
// prints the report. A mismatch returns ErrMismatch.
func (c *Comparer) CompareFile(ctx context.Context, path string) error {
	sql, err := c.readSQL(path)
	if err != nil {
		return err
	}

	label := path
	if path == StdinPath {
		label = "stdin"
	}
	res, err := c.CompareSQL(ctx, label, sql)
	if err != nil {
		return err
	}
	c.report(res, path == StdinPath)
	if !res.Match() {
		return ErrMismatch
	}
	return nil
}

// CompareDir compares every *.sql file directly inside dir, in name
// order, stopping at the first failure.
func (c *Comparer) CompareDir(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	if len(files) == 0 {
		return fmt.Errorf("no .sql files in %s", dir)
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.CompareFile(ctx, file); err != nil {
			return err
		}
	}
	return nil
}

func (c *Comparer) report(res *Result, stdin bool) {
	if res.Match() {
		if stdin {
			fmt.Fprintln(c.Out, "OK")
		} else {
			fmt.Fprintf(c.Out, "OK %s\n", res.Label)
		}
		return
	}

	fmt.Fprintf(c.Out, "MISMATCH %s\n", res.Label)
	fmt.Fprintf(c.Out, "PG length: %d\n", len(res.Reference))
	fmt.Fprintf(c.Out, "pgparse length: %d\n", len(res.Local))
	if idx := FirstDiffIndex(res.Reference, res.Local); idx >= 0 {
		fmt.Fprintf(c.Out, "first diff index: %d\n", idx)
		fmt.Fprintf(c.Out, "PG context: %s\n", Snippet(res.Reference, idx))
		fmt.Fprintf(c.Out, "pgparse context: %s\n", Snippet(res.Local, idx))
	}
}

func (c *Comparer) runHelper(ctx context.Context, sql string) (string, error) {
	cmd := exec.CommandContext(ctx, c.HelperPath, "--mode="+c.Mode.String())
	cmd.Stdin = strings.NewReader(sql)
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.logger().Debug("running helper", "path", c.HelperPath, "mode", c.Mode.String())
	if err := cmd.Run(); err != nil {
		return "", &HelperError{Err: err, Stderr: strings.TrimSpace(stderr.String())}
	}
	return strings.TrimSpace(stdout.String()), nil
}

func (c *Comparer) runLocal(sql string) (string, error) {
	tree, err := parser.Parse(sql, c.Mode)
	if err != nil {
		return "", err
	}
	return nodes.NodeToString(tree), nil
}

func (c *Comparer) readSQL(path string) (string, error) {
	if path == StdinPath {
		stdin := c.Stdin
		if stdin == nil {
			stdin = os.Stdin
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file %s: %w", path, err)
	}
	return string(data), nil
}

func (c *Comparer) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

// FirstDiffIndex returns the first byte offset where a and b differ, the
// shorter length when one is a prefix of the other, or -1 when they are
// equal.
func FirstDiffIndex(a, b string) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return i
		}
	}
	if len(a) != len(b) {
		return n
	}
	return -1
}

// Snippet returns up to contextWidth bytes of s on each side of idx.
func Snippet(s string, idx int) string {
	if idx < 0 {
		return ""
	}
	start := max(idx-contextWidth, 0)
	end := min(idx+contextWidth, len(s))
	if start > end {
		return ""
	}
	return s[start:end]
}
